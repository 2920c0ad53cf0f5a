package pg

import (
	"context"

	"github.com/dropDatabas3/melon/internal/store"
	migrations "github.com/dropDatabas3/melon/migrations/postgres"
)

func (c *pgConnection) Migrate(ctx context.Context) (*store.MigrationResult, error) {
	return store.NewMigrator(migrations.FS, migrations.Dir).Run(ctx, &migrationExecutor{conn: c})
}

type migrationExecutor struct{ conn *pgConnection }

func (e *migrationExecutor) EnsureMigrationsTable(ctx context.Context) error {
	_, err := e.conn.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS _migrations (
			version INT PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)`)
	return err
}

func (e *migrationExecutor) AppliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := e.conn.pool.Query(ctx, `SELECT version FROM _migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func (e *migrationExecutor) Apply(ctx context.Context, mig store.Migration) error {
	tx, err := e.conn.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, mig.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO _migrations (version, name) VALUES ($1, $2)`,
		mig.Version, mig.Name,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
