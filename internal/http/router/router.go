// Package router arma el árbol de rutas chi.
package router

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/melon/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/melon/internal/http/controllers/health"
	httperrors "github.com/dropDatabas3/melon/internal/http/errors"
	mw "github.com/dropDatabas3/melon/internal/http/middlewares"
	svc "github.com/dropDatabas3/melon/internal/http/services/auth"
	"github.com/dropDatabas3/melon/internal/metrics"
	"github.com/dropDatabas3/melon/internal/rate"
)

// Deps contiene lo necesario para montar las rutas.
type Deps struct {
	AuthService        svc.Service
	AuthControllers    *authctrl.Controllers
	HealthController   *healthctrl.HealthController
	Metrics            *metrics.Metrics
	LoginLimiter       rate.Limiter // nil = sin rate limit
	RateWhitelist      []string
	TrustedProxies     []netip.Prefix // proxies cuyo X-Forwarded-For se acepta
	CORSAllowedOrigins []string
}

// New construye el handler raíz.
// Orden global: recover -> real ip -> request id -> logging -> metrics -> security headers -> CORS.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(mw.Funcs(
		mw.WithRecover(),
		mw.WithRealIP(d.TrustedProxies),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(d.Metrics),
		mw.WithSecurityHeaders(),
		mw.WithCORS(d.CORSAllowedOrigins),
	)...)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	if d.HealthController != nil {
		RegisterHealthRoutes(r, d.HealthController)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
	if d.AuthControllers != nil {
		RegisterAuthRoutes(r, AuthRouterDeps{
			Controllers: d.AuthControllers,
			Service:     d.AuthService,
			RateLimit: mw.RateLimitConfig{
				Limiter:   d.LoginLimiter,
				Whitelist: d.RateWhitelist,
				Metrics:   d.Metrics,
			},
		})
	}
	return r
}
