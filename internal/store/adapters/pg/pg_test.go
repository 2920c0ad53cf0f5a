package pg_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/melon/internal/store"
	_ "github.com/dropDatabas3/melon/internal/store/adapters/pg"
	"github.com/dropDatabas3/melon/internal/store/storetest"
)

func TestPostgresAdapterRegistered(t *testing.T) {
	adapter, ok := store.GetAdapter("postgres")
	if !ok || adapter == nil {
		t.Fatal("Postgres adapter not registered")
	}
	if adapter.Name() != "postgres" {
		t.Errorf("Expected adapter name 'postgres', got '%s'", adapter.Name())
	}
}

func TestPostgresAdapterConnectRequiresDSN(t *testing.T) {
	adapter, _ := store.GetAdapter("postgres")
	if _, err := adapter.Connect(context.Background(), store.AdapterConfig{}); err == nil {
		t.Error("Expected error when connecting without DSN")
	}
}

// TestPostgresConformance corre solo con MELON_TEST_PG_DSN apuntando a una base descartable.
func TestPostgresConformance(t *testing.T) {
	dsn := os.Getenv("MELON_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("MELON_TEST_PG_DSN not set")
	}

	storetest.Run(t, func(t *testing.T) store.AdapterConnection {
		ctx := context.Background()
		conn, err := store.OpenAdapter(ctx, store.AdapterConfig{Name: "postgres", DSN: dsn})
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })

		_, err = conn.Migrate(ctx)
		require.NoError(t, err)

		// Cada subtest arranca vacío; bearer_token e identidades caen por cascade.
		pool := conn.(interface{ Truncate(context.Context) error })
		require.NoError(t, pool.Truncate(ctx))
		return conn
	})
}
