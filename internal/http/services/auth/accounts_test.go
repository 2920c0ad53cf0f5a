package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/melon/internal/security/password"
	"github.com/dropDatabas3/melon/internal/validation"
)

func TestAccountService_Create(t *testing.T) {
	conn := openStore(t)
	svc := NewAccountService(conn, password.DefaultPolicy(), []string{"facebook", "introspection"})
	svc.params = fastParams
	ctx := context.Background()

	acc, err := svc.Create(ctx, CreateAccountRequest{Username: "alice", Password: "correct-horse", Email: "alice@example.com"})
	require.NoError(t, err)
	require.True(t, acc.HasPassword())
	assert.True(t, password.Verify("correct-horse", *acc.PasswordHash))

	_, err = svc.Create(ctx, CreateAccountRequest{Username: "alice", Password: "another-horse"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAccountService_CreateRejects(t *testing.T) {
	conn := openStore(t)
	svc := NewAccountService(conn, password.DefaultPolicy(), []string{"facebook"})
	svc.params = fastParams
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateAccountRequest
		want error
	}{
		{"short", CreateAccountRequest{Username: "bob", Password: "abc"}, ErrWeakPassword},
		{"numeric", CreateAccountRequest{Username: "bob", Password: "1234567890"}, ErrWeakPassword},
		{"common", CreateAccountRequest{Username: "bob", Password: "password"}, ErrWeakPassword},
		{"similar", CreateAccountRequest{Username: "roberto99", Password: "roberto99!"}, ErrWeakPassword},
		{"reserved", CreateAccountRequest{Username: "Facebook_42", Password: "correct-horse"}, ErrReservedUsername},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := svc.Create(ctx, CreateAccountRequest{Username: "bad name", Password: "correct-horse"})
	var verr validation.Errors
	assert.True(t, errors.As(err, &verr))

	n, err := conn.Accounts().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAccountService_IssueToken(t *testing.T) {
	conn := openStore(t)
	seedAccount(t, conn, "alice", "correct-horse")
	svc := NewAccountService(conn, password.DefaultPolicy(), nil)
	ctx := context.Background()

	tok, err := svc.IssueToken(ctx, "alice")
	require.NoError(t, err)
	again, err := svc.IssueToken(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, tok.Key, again.Key)

	_, err = svc.IssueToken(ctx, "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
