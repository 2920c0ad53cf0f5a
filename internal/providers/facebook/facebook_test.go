package facebook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/melon/internal/providers"
)

func newProvider(t *testing.T, h http.HandlerFunc, secret string) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := Factory(providers.ProviderConfig{
		ClientID:     "app-1",
		ClientSecret: secret,
		BaseURL:      srv.URL,
		Timeout:      200 * time.Millisecond,
	})
	require.NoError(t, err)
	return p.(*Provider)
}

func TestVerify_Success(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "Bearer EAAB-good", r.Header.Get("Authorization"))
		assert.Equal(t, "id,name,email", r.URL.Query().Get("fields"))
		assert.Equal(t, AppSecretProof("s3cret", "EAAB-good"), r.URL.Query().Get("appsecret_proof"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1000123","name":"Bob B","email":"bob@example.com"}`))
	}, "s3cret")

	prof, err := p.Verify(context.Background(), "EAAB-good")
	require.NoError(t, err)
	assert.Equal(t, ProviderName, prof.Provider)
	assert.Equal(t, "1000123", prof.ExternalID)
	assert.Equal(t, "Bob B", prof.Name)
	assert.Equal(t, "bob@example.com", prof.Email)
	assert.Equal(t, "1000123", prof.Raw["id"])
}

func TestVerify_NoSecretOmitsProof(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["appsecret_proof"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"id":"7"}`))
	}, "")

	prof, err := p.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "7", prof.ExternalID)
	assert.Empty(t, prof.Email)
}

func TestVerify_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"expired token", http.StatusBadRequest, `{"error":{"message":"Session has expired","type":"OAuthException","code":190}}`, providers.ErrInvalidExternalToken},
		{"unauthorized without body", http.StatusUnauthorized, ``, providers.ErrInvalidExternalToken},
		{"rate limited by graph code", http.StatusBadRequest, `{"error":{"message":"limit","type":"OAuthException","code":4}}`, providers.ErrProviderUnavailable},
		{"server error", http.StatusInternalServerError, `oops`, providers.ErrProviderUnavailable},
		{"too many requests", http.StatusTooManyRequests, ``, providers.ErrProviderUnavailable},
		{"malformed body", http.StatusOK, `{"id":`, providers.ErrProviderProtocol},
		{"missing id", http.StatusOK, `{"name":"nobody"}`, providers.ErrProviderProtocol},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}, "")

			prof, err := p.Verify(context.Background(), "tok")
			assert.Nil(t, prof)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestVerify_TimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, "")
	defer close(release)

	start := time.Now()
	_, err := p.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, providers.ErrProviderUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestAppSecretProof(t *testing.T) {
	assert.Equal(t, "e941110e3d2bfe82621f0e3e1434730d7305d106c5f68c87165d0b27a4611a4a", AppSecretProof("secret", "token"))
}
