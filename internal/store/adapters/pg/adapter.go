// Package pg implementa el adapter PostgreSQL.
// Usa pgxpool directamente; la unicidad la garantizan las constraints del schema.
package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/melon/internal/domain/repository"
	"github.com/dropDatabas3/melon/internal/store"
)

func init() {
	store.RegisterAdapter(&postgresAdapter{})
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError traduce errores de pgx a errores de dominio.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("pg: %s: %w", op, repository.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("pg: %s: %s: %w", op, pgErr.ConstraintName, repository.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("pg: %s: %s: %w", op, pgErr.ConstraintName, repository.ErrInvalidInput)
		}
	}
	return fmt.Errorf("pg: %s: %w", op, err)
}

type postgresAdapter struct{}

func (a *postgresAdapter) Name() string { return "postgres" }

func (a *postgresAdapter) Connect(ctx context.Context, cfg store.AdapterConfig) (store.AdapterConnection, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("pg: DSN is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}

	// Configurar pool
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}

	// Verificar conexión
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}

	return &pgConnection{pool: pool}, nil
}

type pgConnection struct {
	pool *pgxpool.Pool
}

func (c *pgConnection) Name() string { return "postgres" }

func (c *pgConnection) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *pgConnection) Close() error {
	c.pool.Close()
	return nil
}

func (c *pgConnection) Accounts() repository.AccountRepository   { return &accountRepo{pool: c.pool} }
func (c *pgConnection) Identities() repository.IdentityRepository { return &identityRepo{pool: c.pool} }
func (c *pgConnection) Tokens() repository.TokenRepository         { return &tokenRepo{pool: c.pool} }

// Truncate vacía las tablas de dominio. Solo para tests de integración.
func (c *pgConnection) Truncate(ctx context.Context) error {
	_, err := c.pool.Exec(ctx, `TRUNCATE account CASCADE`)
	return err
}

func (c *pgConnection) PoolStats() store.PoolStats {
	st := c.pool.Stat()
	return store.PoolStats{
		Acquired: int(st.AcquiredConns()),
		Idle:     int(st.IdleConns()),
		Total:    int(st.TotalConns()),
	}
}
