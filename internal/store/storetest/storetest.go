// Package storetest contiene la suite de conformidad que cada adapter debe pasar.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/melon/internal/domain/repository"
	"github.com/dropDatabas3/melon/internal/store"
)

// OpenFunc devuelve una conexión migrada y vacía.
type OpenFunc func(t *testing.T) store.AdapterConnection

// Run ejecuta la suite completa contra el adapter.
func Run(t *testing.T, open OpenFunc) {
	t.Run("AccountCreateAndGet", func(t *testing.T) { testAccountCreateAndGet(t, open(t)) })
	t.Run("AccountUsernameConflict", func(t *testing.T) { testAccountUsernameConflict(t, open(t)) })
	t.Run("IdentityCreateWithAccount", func(t *testing.T) { testIdentityCreateWithAccount(t, open(t)) })
	t.Run("IdentityConflictRollsBack", func(t *testing.T) { testIdentityConflictRollsBack(t, open(t)) })
	t.Run("IdentityConcurrentCreate", func(t *testing.T) { testIdentityConcurrentCreate(t, open(t)) })
	t.Run("TokenOnePerAccount", func(t *testing.T) { testTokenOnePerAccount(t, open(t)) })
	t.Run("DeleteCascades", func(t *testing.T) { testDeleteCascades(t, open(t)) })
}

func ptr(s string) *string { return &s }

func testAccountCreateAndGet(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	repo := conn.Accounts()

	acc, err := repo.Create(ctx, repository.CreateAccountInput{
		Username:     "alice",
		PasswordHash: ptr("$argon2id$fake"),
		DisplayName:  "Alice",
		Email:        "alice@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, acc.ID)
	assert.False(t, acc.CreatedAt.IsZero())

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byName.ID)
	require.NotNil(t, byName.PasswordHash)
	assert.Equal(t, "$argon2id$fake", *byName.PasswordHash)
	assert.True(t, byName.HasPassword())

	byID, err := repo.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.DisplayName)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = repo.GetByUsername(ctx, "bob")
	assert.True(t, repository.IsNotFound(err), "got %v", err)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.True(t, repository.IsNotFound(err), "got %v", err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func testAccountUsernameConflict(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	repo := conn.Accounts()

	_, err := repo.Create(ctx, repository.CreateAccountInput{Username: "alice"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, repository.CreateAccountInput{Username: "alice"})
	assert.True(t, repository.IsConflict(err), "got %v", err)

	noPwd, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, noPwd.PasswordHash)
	assert.False(t, noPwd.HasPassword())
}

func testIdentityCreateWithAccount(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()

	acc, ident, err := conn.Identities().CreateWithAccount(ctx,
		repository.CreateAccountInput{Username: "facebook_1000123", DisplayName: "Jane Doe"},
		repository.LinkIdentityInput{
			Provider:    "facebook",
			ExternalID:  "1000123",
			DisplayName: "Jane Doe",
			RawProfile:  map[string]any{"id": "1000123", "name": "Jane Doe"},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, ident.AccountID)

	got, err := conn.Identities().GetByProvider(ctx, "facebook", "1000123")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.AccountID)
	assert.Equal(t, "Jane Doe", got.RawProfile["name"])

	list, err := conn.Identities().ListByAccount(ctx, acc.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1000123", list[0].ExternalID)

	_, err = conn.Identities().GetByProvider(ctx, "facebook", "999")
	assert.True(t, repository.IsNotFound(err), "got %v", err)
}

func testIdentityConflictRollsBack(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()

	_, _, err := conn.Identities().CreateWithAccount(ctx,
		repository.CreateAccountInput{Username: "facebook_1"},
		repository.LinkIdentityInput{Provider: "facebook", ExternalID: "1"},
	)
	require.NoError(t, err)

	// Distinto username, misma identidad: el insert de la cuenta no debe quedar.
	_, _, err = conn.Identities().CreateWithAccount(ctx,
		repository.CreateAccountInput{Username: "facebook_1_other"},
		repository.LinkIdentityInput{Provider: "facebook", ExternalID: "1"},
	)
	require.True(t, repository.IsConflict(err), "got %v", err)

	_, err = conn.Accounts().GetByUsername(ctx, "facebook_1_other")
	assert.True(t, repository.IsNotFound(err), "account must be rolled back, got %v", err)

	accounts, err := conn.Accounts().Count(ctx)
	require.NoError(t, err)
	identities, err := conn.Identities().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, accounts)
	assert.Equal(t, 1, identities)
}

func testIdentityConcurrentCreate(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()
	const n = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := conn.Identities().CreateWithAccount(ctx,
				repository.CreateAccountInput{Username: "facebook_42"},
				repository.LinkIdentityInput{Provider: "facebook", ExternalID: "42"},
			)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case repository.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)
}

func testTokenOnePerAccount(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()

	acc, err := conn.Accounts().Create(ctx, repository.CreateAccountInput{Username: "alice"})
	require.NoError(t, err)

	const key = "9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b"
	tok, err := conn.Tokens().Create(ctx, repository.BearerToken{Key: key, AccountID: acc.ID})
	require.NoError(t, err)
	assert.False(t, tok.CreatedAt.IsZero())

	// Segundo token para la misma cuenta
	_, err = conn.Tokens().Create(ctx, repository.BearerToken{Key: "0000000000000000000000000000000000000001", AccountID: acc.ID})
	assert.True(t, repository.IsConflict(err), "got %v", err)

	// Mismo key para otra cuenta
	other, err := conn.Accounts().Create(ctx, repository.CreateAccountInput{Username: "bob"})
	require.NoError(t, err)
	_, err = conn.Tokens().Create(ctx, repository.BearerToken{Key: key, AccountID: other.ID})
	assert.True(t, repository.IsConflict(err), "got %v", err)

	byKey, err := conn.Tokens().GetByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byKey.AccountID)

	byAcc, err := conn.Tokens().GetByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, key, byAcc.Key)

	_, err = conn.Tokens().GetByAccount(ctx, other.ID)
	assert.True(t, repository.IsNotFound(err), "got %v", err)

	_, err = conn.Tokens().GetByKey(ctx, "ffffffffffffffffffffffffffffffffffffffff")
	assert.True(t, repository.IsNotFound(err), "got %v", err)
}

func testDeleteCascades(t *testing.T, conn store.AdapterConnection) {
	ctx := context.Background()

	acc, _, err := conn.Identities().CreateWithAccount(ctx,
		repository.CreateAccountInput{Username: "facebook_7"},
		repository.LinkIdentityInput{Provider: "facebook", ExternalID: "7"},
	)
	require.NoError(t, err)
	_, err = conn.Tokens().Create(ctx, repository.BearerToken{Key: "7777777777777777777777777777777777777777", AccountID: acc.ID})
	require.NoError(t, err)

	require.NoError(t, conn.Accounts().Delete(ctx, acc.ID))
	assert.True(t, repository.IsNotFound(conn.Accounts().Delete(ctx, acc.ID)))

	for name, count := range map[string]func(context.Context) (int, error){
		"accounts":   conn.Accounts().Count,
		"identities": conn.Identities().Count,
		"tokens":     conn.Tokens().Count,
	} {
		n, err := count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, name)
	}
}
