package auth

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/melon/internal/providers"
	"github.com/dropDatabas3/melon/internal/security/password"
	"github.com/dropDatabas3/melon/internal/store"
	_ "github.com/dropDatabas3/melon/internal/store/adapters/sqlite"
)

func openStore(t *testing.T) store.AdapterConnection {
	t.Helper()
	ctx := context.Background()
	conn, err := store.OpenAdapter(ctx, store.AdapterConfig{
		Name: "sqlite",
		DSN:  filepath.Join(t.TempDir(), "auth.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_, err = conn.Migrate(ctx)
	require.NoError(t, err)
	return conn
}

// fakeProvider devuelve profile, rechaza "bad" y puede bloquearse hasta
// que el contexto expire.
type fakeProvider struct {
	name    string
	calls   atomic.Int32
	block   bool
	delay   time.Duration
	profile providers.ExternalProfile
	err     error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Verify(ctx context.Context, token string) (*providers.ExternalProfile, error) {
	f.calls.Add(1)
	if f.block {
		// como un cliente HTTP real: respeta el deadline
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %w", providers.ErrProviderUnavailable, ctx.Err())
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	if token == "bad" {
		return nil, providers.ErrInvalidExternalToken
	}
	p := f.profile
	return &p, nil
}

func facebookFake() *fakeProvider {
	return &fakeProvider{
		name: "facebook",
		profile: providers.ExternalProfile{
			Provider:   "facebook",
			ExternalID: "1000123",
			Name:       "Bob B",
			Email:      "bob@example.com",
			Raw:        map[string]any{"id": "1000123", "name": "Bob B"},
		},
	}
}

func newTestService(t *testing.T, conn store.AdapterConnection, ps ...providers.Provider) Service {
	t.Helper()
	reg := providers.NewRegistry()
	for _, p := range ps {
		reg.Add(p)
	}
	return NewService(Deps{
		Store:           conn,
		Providers:       reg,
		DefaultProvider: "facebook",
		AllowBasic:      true,
	})
}

var fastParams = password.Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func seedAccount(t *testing.T, conn store.AdapterConnection, username, plain string) string {
	t.Helper()
	svc := NewAccountService(conn, password.Policy{}, []string{"facebook"})
	svc.params = fastParams
	acc, err := svc.Create(context.Background(), CreateAccountRequest{Username: username, Password: plain})
	require.NoError(t, err)
	return acc.ID
}
