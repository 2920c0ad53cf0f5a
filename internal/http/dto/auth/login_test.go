package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svc "github.com/dropDatabas3/melon/internal/http/services/auth"
	"github.com/dropDatabas3/melon/internal/validation"
)

func TestCredential(t *testing.T) {
	c, err := LoginRequest{Username: "alice", Password: "pw"}.Credential()
	require.NoError(t, err)
	assert.Equal(t, svc.PasswordCredential{Username: "alice", Password: "pw"}, c)

	c, err = LoginRequest{AccessToken: "EAAB", Provider: " Facebook "}.Credential()
	require.NoError(t, err)
	assert.Equal(t, svc.ExternalTokenCredential{Provider: "facebook", AccessToken: "EAAB"}, c)

	_, err = LoginRequest{Username: "alice", Password: "pw", AccessToken: "EAAB"}.Credential()
	assert.ErrorIs(t, err, svc.ErrAmbiguousCredential)

	_, err = LoginRequest{}.Credential()
	var verr validation.Errors
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Missing())
	assert.Len(t, verr, 2)

	_, err = LoginRequest{Username: "alice"}.Credential()
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "password", verr[0].Field)
}

func TestExternalCredential(t *testing.T) {
	_, err := LoginRequest{}.ExternalCredential()
	var verr validation.Errors
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "access_token", verr[0].Field)

	_, err = LoginRequest{Username: "alice", Password: "pw"}.ExternalCredential()
	assert.True(t, errors.As(err, &verr))

	c, err := LoginRequest{AccessToken: "EAAB"}.ExternalCredential()
	require.NoError(t, err)
	assert.Equal(t, svc.ExternalTokenCredential{AccessToken: "EAAB"}, c)
}

func TestPasswordCredential(t *testing.T) {
	_, err := LoginRequest{AccessToken: "EAAB-valid"}.PasswordCredential()
	var verr validation.Errors
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Missing())
	assert.Equal(t, "username", verr[0].Field)
	assert.Equal(t, "password", verr[1].Field)

	_, err = LoginRequest{}.PasswordCredential()
	assert.True(t, errors.As(err, &verr))

	_, err = LoginRequest{Username: "alice", Password: "pw", AccessToken: "EAAB"}.PasswordCredential()
	assert.ErrorIs(t, err, svc.ErrAmbiguousCredential)

	c, err := LoginRequest{Username: "alice", Password: "pw"}.PasswordCredential()
	require.NoError(t, err)
	assert.Equal(t, svc.PasswordCredential{Username: "alice", Password: "pw"}, c)
}
