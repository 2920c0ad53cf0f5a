package router

import (
	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/melon/internal/http/controllers/auth"
	mw "github.com/dropDatabas3/melon/internal/http/middlewares"
	svc "github.com/dropDatabas3/melon/internal/http/services/auth"
)

// AuthRouterDeps dependencias de las rutas /auth.
type AuthRouterDeps struct {
	Controllers *authctrl.Controllers
	Service     svc.Service
	RateLimit   mw.RateLimitConfig
}

// RegisterAuthRoutes monta:
//
//	POST /auth/token           usuario/contraseña -> token
//	POST /auth/token/external  access token de un provider -> token
//	GET  /auth/me              Authorization: Token <key>
func RegisterAuthRoutes(r chi.Router, deps AuthRouterDeps) {
	r.Route("/auth", func(r chi.Router) {
		r.Use(mw.Funcs(mw.WithNoStore())...)

		r.Group(func(r chi.Router) {
			r.Use(mw.Funcs(mw.WithRateLimit(deps.RateLimit))...)
			r.Post("/token", deps.Controllers.Token.Token)
			r.Post("/token/external", deps.Controllers.Token.ExternalToken)
		})

		r.With(mw.Funcs(mw.RequireAccount(deps.Service))...).Get("/me", deps.Controllers.Me.Me)
	})
}
