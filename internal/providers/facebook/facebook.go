// Package facebook implements token verification against the Facebook Graph API.
package facebook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/dropDatabas3/melon/internal/providers"
)

const (
	ProviderName   = "facebook"
	DefaultBaseURL = "https://graph.facebook.com/v19.0"
	profileFields  = "id,name,email"
)

// Graph error codes that mean "try again later" rather than "bad token".
// https://developers.facebook.com/docs/graph-api/guides/error-handling
var transientCodes = map[int]bool{1: true, 2: true, 4: true, 17: true, 32: true, 341: true, 613: true}

// Provider verifies Facebook user access tokens via GET /me.
type Provider struct {
	appID     string
	appSecret string
	baseURL   string
	timeout   time.Duration
	http      *http.Client
}

// Factory creates a new Facebook provider.
func Factory(cfg providers.ProviderConfig) (providers.Provider, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("facebook: invalid base url: %w", err)
	}
	return &Provider{
		appID:     cfg.ClientID,
		appSecret: cfg.ClientSecret,
		baseURL:   base,
		timeout:   cfg.EffectiveTimeout(),
		http:      cfg.NewHTTPClient(),
	}, nil
}

func (p *Provider) Name() string { return ProviderName }

// Verify fetches /me with the user token attached as a bearer credential.
// When an app secret is configured the request carries appsecret_proof so a
// token leaked from another app cannot be replayed here.
func (p *Provider) Verify(ctx context.Context, accessToken string) (*providers.ExternalProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("fields", profileFields)
	if p.appSecret != "" {
		q.Set("appsecret_proof", AppSecretProof(p.appSecret, accessToken))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/me?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("facebook: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := oauth2.NewClient(
		context.WithValue(ctx, oauth2.HTTPClient, p.http),
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
	)

	var raw map[string]any
	if err := providers.FetchJSON(client, req, &raw); err != nil {
		var se *providers.StatusError
		if errors.As(err, &se) {
			return nil, classifyGraphError(se)
		}
		return nil, fmt.Errorf("facebook: %w", err)
	}

	id := providers.StringField(raw, "id")
	if id == "" {
		return nil, fmt.Errorf("facebook: %w: profile without id", providers.ErrProviderProtocol)
	}
	return &providers.ExternalProfile{
		Provider:   ProviderName,
		ExternalID: id,
		Name:       providers.StringField(raw, "name"),
		Email:      providers.StringField(raw, "email"),
		Raw:        raw,
	}, nil
}

type graphError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func classifyGraphError(se *providers.StatusError) error {
	var ge graphError
	if err := json.Unmarshal(se.Body, &ge); err == nil && ge.Error.Code != 0 {
		if transientCodes[ge.Error.Code] {
			return fmt.Errorf("facebook: %w: graph code %d", providers.ErrProviderUnavailable, ge.Error.Code)
		}
		return fmt.Errorf("facebook: %w: graph code %d (%s)", providers.ErrInvalidExternalToken, ge.Error.Code, ge.Error.Type)
	}
	return fmt.Errorf("facebook: %w: status %d", providers.ErrInvalidExternalToken, se.Code)
}

// AppSecretProof is hex(HMAC-SHA256(appSecret, accessToken)).
func AppSecretProof(appSecret, accessToken string) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(accessToken))
	return hex.EncodeToString(mac.Sum(nil))
}
