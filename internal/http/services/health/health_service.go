// Package health verifica las dependencias del servicio.
package health

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/melon/internal/http/dto/health"
)

const checkTimeout = 2 * time.Second

// Pinger es cualquier dependencia que sabe verificarse.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Component dependencia a verificar. Critical=true la vuelve bloqueante.
type Component struct {
	Name     string
	Pinger   Pinger
	Critical bool
}

type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

type healthService struct {
	version    string
	components []Component
}

func NewHealthService(version string, components ...Component) HealthService {
	return &healthService{version: version, components: components}
}

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	resp := dto.HealthResponse{
		Status:     "ready",
		Version:    s.version,
		Components: make(map[string]dto.ComponentStatus, len(s.components)),
	}
	for _, c := range s.components {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := c.Pinger.Ping(cctx)
		cancel()

		if err == nil {
			resp.Components[c.Name] = dto.ComponentStatus{Status: "ok"}
			continue
		}
		resp.Components[c.Name] = dto.ComponentStatus{Status: "error", Error: err.Error()}
		if c.Critical {
			resp.Status = "unavailable"
		} else if resp.Status == "ready" {
			resp.Status = "degraded"
		}
	}
	return resp
}
