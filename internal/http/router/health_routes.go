package router

import (
	"github.com/go-chi/chi/v5"

	healthctrl "github.com/dropDatabas3/melon/internal/http/controllers/health"
)

func RegisterHealthRoutes(r chi.Router, c *healthctrl.HealthController) {
	r.Get("/healthz", c.Healthz)
	r.Get("/readyz", c.Readyz)
}
