// Package providers defines the external identity provider clients.
//
// A provider verifies an access token the client application already
// obtained from the identity provider and returns the provider's canonical
// profile. Providers are built once at startup from process configuration
// and are safe for concurrent use.
//
// Architecture:
// - Provider interface: Verify(ctx, accessToken) -> ExternalProfile
// - Registry: name -> provider, built from factories at startup
// - Implementations: one sub-package per provider (facebook, introspection)
package providers

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Failure kinds. Implementations wrap one of these with %w.
var (
	// ErrProviderUnavailable: network failure, timeout, provider 5xx/429.
	// Transient; the caller may retry.
	ErrProviderUnavailable = errors.New("identity provider unavailable")

	// ErrInvalidExternalToken: the provider rejected the token.
	ErrInvalidExternalToken = errors.New("invalid external token")

	// ErrProviderProtocol: 2xx with an unusable body, or an unexpected reply.
	ErrProviderProtocol = errors.New("identity provider protocol error")

	// ErrUnknownProvider: the requested provider is not enabled.
	ErrUnknownProvider = errors.New("unknown identity provider")
)

// Provider verifies external access tokens.
type Provider interface {
	// Name is the provider enum value stored in ExternalIdentity.Provider.
	Name() string

	// Verify calls the provider once with accessToken. No retries.
	Verify(ctx context.Context, accessToken string) (*ExternalProfile, error)
}

// ExternalProfile is the normalized result of a verification.
// Transient: consumed by the account resolver and discarded.
type ExternalProfile struct {
	Provider   string
	ExternalID string // required
	Name       string // best-effort
	Email      string // best-effort
	Raw        map[string]any
}

// ProviderConfig contains the process-wide configuration for a provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Timeout      time.Duration

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// DefaultTimeout bounds every outbound verification call.
const DefaultTimeout = 5 * time.Second

// NewHTTPClient returns the bounded client used when cfg.HTTPClient is nil.
func (cfg ProviderConfig) NewHTTPClient() *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// EffectiveTimeout returns the per-call deadline.
func (cfg ProviderConfig) EffectiveTimeout() time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return DefaultTimeout
}
