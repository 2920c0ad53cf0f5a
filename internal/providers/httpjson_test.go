package providers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetch(t *testing.T, status int, body string) (map[string]any, error) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	var raw map[string]any
	err = FetchJSON(srv.Client(), req, &raw)
	return raw, err
}

func TestFetchJSON_KeepsLargeNumericIDs(t *testing.T) {
	// 2^53 + 1 no es representable como float64
	raw, err := fetch(t, http.StatusOK, `{"id":9007199254740993,"sub":1000123}`)
	require.NoError(t, err)
	assert.Equal(t, "9007199254740993", StringField(raw, "id"))
	assert.Equal(t, "1000123", StringField(raw, "sub"))
}

func TestFetchJSON_Statuses(t *testing.T) {
	_, err := fetch(t, http.StatusBadGateway, ``)
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	_, err = fetch(t, http.StatusTooManyRequests, ``)
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	_, err = fetch(t, http.StatusUnauthorized, `{"error":"nope"}`)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.JSONEq(t, `{"error":"nope"}`, string(se.Body))

	_, err = fetch(t, http.StatusOK, `<html>`)
	assert.ErrorIs(t, err, ErrProviderProtocol)
}

func TestStringField(t *testing.T) {
	m := map[string]any{"s": "x", "n": json.Number("1000123"), "b": true}
	assert.Equal(t, "x", StringField(m, "s"))
	assert.Equal(t, "1000123", StringField(m, "n"))
	assert.Equal(t, "", StringField(m, "b"))
	assert.Equal(t, "", StringField(m, "missing"))
}
