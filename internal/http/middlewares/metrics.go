package middlewares

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/melon/internal/metrics"
)

// WithMetrics instrumenta requests (contador, latencia, inflight) usando
// el patrón de ruta como label.
func WithMetrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.InflightInc()
			start := time.Now()
			rec := newRecorder(w)
			defer func() {
				m.InflightDec()
				m.ObserveHTTP(r.Method, routePattern(r), rec.status, time.Since(start))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
