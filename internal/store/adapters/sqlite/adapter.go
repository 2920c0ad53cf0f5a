// Package sqlite implementa el adapter SQLite (modernc, sin cgo).
// Pensado para desarrollo y tests; las mismas constraints que Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dropDatabas3/melon/internal/domain/repository"
	"github.com/dropDatabas3/melon/internal/store"
)

func init() {
	store.RegisterAdapter(&sqliteAdapter{})
}

const dsnPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func isConstraintError(err error, codes ...int) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}

// mapError traduce errores de database/sql y SQLite a errores de dominio.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sqlite: %s: %w", op, repository.ErrNotFound)
	}
	if isConstraintError(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY) {
		return fmt.Errorf("sqlite: %s: %v: %w", op, err, repository.ErrConflict)
	}
	if isConstraintError(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY) {
		return fmt.Errorf("sqlite: %s: %v: %w", op, err, repository.ErrInvalidInput)
	}
	return fmt.Errorf("sqlite: %s: %w", op, err)
}

type sqliteAdapter struct{}

func (a *sqliteAdapter) Name() string { return "sqlite" }

func (a *sqliteAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	path := strings.TrimSpace(cfg.DSN)
	if path == "" {
		return nil, fmt.Errorf("sqlite: storage path is required")
	}
	dsn := path
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		dsn = filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create data dir: %w", err)
		}
	}
	if strings.Contains(dsn, "?") {
		dsn += "&" + dsnPragmas
	} else {
		dsn += "?" + dsnPragmas
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}

	// Un solo writer: SQLite serializa las escrituras de todos modos y así
	// las transacciones no compiten por el lock del archivo.
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping db: %w", err)
	}
	return &sqliteConnection{db: db}, nil
}

type sqliteConnection struct {
	db *sql.DB
}

func (c *sqliteConnection) Name() string { return "sqlite" }

func (c *sqliteConnection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *sqliteConnection) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *sqliteConnection) Accounts() repository.AccountRepository   { return &accountRepo{db: c.db} }
func (c *sqliteConnection) Identities() repository.IdentityRepository { return &identityRepo{db: c.db} }
func (c *sqliteConnection) Tokens() repository.TokenRepository         { return &tokenRepo{db: c.db} }

func (c *sqliteConnection) PoolStats() store.PoolStats {
	st := c.db.Stats()
	return store.PoolStats{
		Acquired: st.InUse,
		Idle:     st.Idle,
		Total:    st.OpenConnections,
	}
}
