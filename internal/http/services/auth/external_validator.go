package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/melon/internal/metrics"
	"github.com/dropDatabas3/melon/internal/observability/logger"
	"github.com/dropDatabas3/melon/internal/providers"
)

// ExternalTokenValidator verifica access tokens contra el provider elegido.
type ExternalTokenValidator struct {
	registry        *providers.Registry
	defaultProvider string
	metrics         *metrics.Metrics
}

func NewExternalTokenValidator(registry *providers.Registry, defaultProvider string, m *metrics.Metrics) *ExternalTokenValidator {
	return &ExternalTokenValidator{registry: registry, defaultProvider: defaultProvider, metrics: m}
}

// Validate llama al provider una sola vez. Los errores de disponibilidad y
// protocolo se propagan sin cambios; un token rechazado se convierte en
// fallo de autenticación.
func (v *ExternalTokenValidator) Validate(ctx context.Context, c ExternalTokenCredential) (*providers.ExternalProfile, error) {
	if c.AccessToken == "" {
		return nil, ErrMissingFields
	}
	name := strings.ToLower(strings.TrimSpace(c.Provider))
	if name == "" {
		name = v.defaultProvider
	}
	if v.registry == nil {
		return nil, fmt.Errorf("%w: %q", providers.ErrUnknownProvider, name)
	}
	p, err := v.registry.Get(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	prof, err := p.Verify(ctx, c.AccessToken)
	v.metrics.ObserveProviderCall(name, Outcome(providerOutcomeErr(err)), time.Since(start))
	if err != nil {
		logger.From(ctx).Debug("external token rejected",
			logger.Layer("service"),
			logger.Provider(name),
			logger.Err(err),
		)
		if errors.Is(err, providers.ErrInvalidExternalToken) {
			return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
		}
		return nil, err
	}
	if prof == nil || prof.ExternalID == "" {
		return nil, fmt.Errorf("%s: %w: empty external id", name, providers.ErrProviderProtocol)
	}
	if prof.Provider == "" {
		prof.Provider = name
	}
	return prof, nil
}

func providerOutcomeErr(err error) error {
	if errors.Is(err, providers.ErrInvalidExternalToken) {
		return ErrAuthenticationFailed
	}
	return err
}
