package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/melon/internal/store"
	_ "github.com/dropDatabas3/melon/internal/store/adapters/sqlite"
	"github.com/dropDatabas3/melon/internal/store/storetest"
)

func openTemp(t *testing.T) store.AdapterConnection {
	t.Helper()
	ctx := context.Background()
	conn, err := store.OpenAdapter(ctx, store.AdapterConfig{
		Name: "sqlite",
		DSN:  filepath.Join(t.TempDir(), "melon.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Migrate(ctx)
	require.NoError(t, err)
	return conn
}

func TestSQLiteAdapterRegistered(t *testing.T) {
	adapter, ok := store.GetAdapter("sqlite")
	require.True(t, ok, "SQLite adapter not registered")
	require.Equal(t, "sqlite", adapter.Name())
}

func TestSQLiteAdapterConnectRequiresPath(t *testing.T) {
	_, err := store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "sqlite"})
	require.Error(t, err)
}

func TestSQLiteMigrateIsIdempotent(t *testing.T) {
	conn := openTemp(t)

	res, err := conn.Migrate(context.Background())
	require.NoError(t, err)
	require.Empty(t, res.Applied)
	require.Equal(t, []int{1}, res.Skipped)
}

func TestSQLiteConformance(t *testing.T) {
	storetest.Run(t, openTemp)
}
