// Package metrics agrupa los collectors Prometheus del servicio.
// Todos los métodos aceptan receptor nil (métricas deshabilitadas).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/melon/internal/store"
)

const namespace = "melon"

// Metrics contiene los collectors registrados en un registry propio.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInflight prometheus.Gauge

	logins        *prometheus.CounterVec
	providerCalls *prometheus.HistogramVec
	tokensIssued  *prometheus.CounterVec
	accounts      *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec
}

// New crea y registra todos los collectors, incluidos los de runtime de Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de los requests HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "Requests en vuelo",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_logins_total",
			Help:      "Intentos de login por método y resultado",
		}, []string{"method", "outcome"}),
		providerCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_verify_duration_seconds",
			Help:      "Duración de la verificación contra el identity provider",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"provider", "result"}),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Tokens entregados; reused=true si ya existía",
		}, []string{"reused"}),
		accounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_resolved_total",
			Help:      "Cuentas resueltas desde identidades externas",
		}, []string{"provider", "created"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rechazadas por rate limit",
		}, []string{"route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.httpInflight,
		m.logins, m.providerCalls, m.tokensIssued, m.accounts, m.rateLimited,
	)
	return m
}

// Registry expone el registry (tests, collectors extra).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler sirve /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) InflightInc() {
	if m != nil {
		m.httpInflight.Inc()
	}
}

func (m *Metrics) InflightDec() {
	if m != nil {
		m.httpInflight.Dec()
	}
}

// ObserveHTTP registra un request terminado. route es el patrón chi, no el path.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveLogin registra el resultado terminal de un login.
func (m *Metrics) ObserveLogin(method, outcome string) {
	if m != nil {
		m.logins.WithLabelValues(method, outcome).Inc()
	}
}

func (m *Metrics) ObserveProviderCall(provider, result string, d time.Duration) {
	if m != nil {
		m.providerCalls.WithLabelValues(provider, result).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveTokenIssued(reused bool) {
	if m != nil {
		m.tokensIssued.WithLabelValues(strconv.FormatBool(reused)).Inc()
	}
}

func (m *Metrics) ObserveAccountResolved(provider string, created bool) {
	if m != nil {
		m.accounts.WithLabelValues(provider, strconv.FormatBool(created)).Inc()
	}
}

func (m *Metrics) ObserveRateLimited(route string) {
	if m != nil {
		m.rateLimited.WithLabelValues(route).Inc()
	}
}

// RegisterPool expone las stats del pool de la conexión si las provee.
func (m *Metrics) RegisterPool(conn store.AdapterConnection) error {
	if m == nil {
		return nil
	}
	ps, ok := conn.(store.PoolStatter)
	if !ok {
		return nil
	}
	return m.registry.Register(&poolCollector{
		name:     conn.Name(),
		src:      ps,
		acquired: prometheus.NewDesc(namespace+"_db_pool_acquired", "Conexiones adquiridas", []string{"driver"}, nil),
		idle:     prometheus.NewDesc(namespace+"_db_pool_idle", "Conexiones inactivas", []string{"driver"}, nil),
		total:    prometheus.NewDesc(namespace+"_db_pool_total", "Conexiones totales", []string{"driver"}, nil),
	})
}

type poolCollector struct {
	name                  string
	src                   store.PoolStatter
	acquired, idle, total *prometheus.Desc
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.PoolStats()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(st.Acquired), c.name)
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(st.Idle), c.name)
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(st.Total), c.name)
}
