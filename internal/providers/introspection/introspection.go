// Package introspection implements RFC 7662 token introspection as a generic
// external login provider.
package introspection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/melon/internal/providers"
)

const ProviderName = "introspection"

// Provider asks an authorization server whether a token is active.
type Provider struct {
	endpoint     string
	clientID     string
	clientSecret string
	timeout      time.Duration
	http         *http.Client
}

// Factory creates a new introspection provider. BaseURL is the full
// introspection endpoint.
func Factory(cfg providers.ProviderConfig) (providers.Provider, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("introspection: invalid endpoint %q", cfg.BaseURL)
	}
	return &Provider{
		endpoint:     u.String(),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		timeout:      cfg.EffectiveTimeout(),
		http:         cfg.NewHTTPClient(),
	}, nil
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Verify(ctx context.Context, accessToken string) (*providers.ExternalProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("token", accessToken)
	form.Set("token_type_hint", "access_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("introspection: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if p.clientID != "" {
		req.SetBasicAuth(url.QueryEscape(p.clientID), url.QueryEscape(p.clientSecret))
	}

	var raw map[string]any
	if err := providers.FetchJSON(p.http, req, &raw); err != nil {
		var se *providers.StatusError
		if errors.As(err, &se) {
			// The endpoint answers 200 {active:false} for bad tokens;
			// any other status means we are misconfigured.
			return nil, fmt.Errorf("introspection: %w: status %d", providers.ErrProviderProtocol, se.Code)
		}
		return nil, fmt.Errorf("introspection: %w", err)
	}

	active, ok := raw["active"].(bool)
	if !ok {
		return nil, fmt.Errorf("introspection: %w: missing active", providers.ErrProviderProtocol)
	}
	if !active {
		return nil, fmt.Errorf("introspection: %w: inactive", providers.ErrInvalidExternalToken)
	}
	sub := providers.StringField(raw, "sub")
	if sub == "" {
		return nil, fmt.Errorf("introspection: %w: active token without sub", providers.ErrProviderProtocol)
	}

	name := providers.StringField(raw, "name")
	if name == "" {
		name = providers.StringField(raw, "username")
	}
	return &providers.ExternalProfile{
		Provider:   ProviderName,
		ExternalID: sub,
		Name:       name,
		Email:      providers.StringField(raw, "email"),
		Raw:        raw,
	}, nil
}
