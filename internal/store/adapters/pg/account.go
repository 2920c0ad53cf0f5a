package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/melon/internal/domain/repository"
)

const accountColumns = `id, username, password_hash, display_name, email, created_at`

type accountRepo struct{ pool *pgxpool.Pool }

func scanAccount(row pgx.Row) (*repository.Account, error) {
	var a repository.Account
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.DisplayName, &a.Email, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*repository.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM account WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get account", err)
	}
	return a, nil
}

func (r *accountRepo) GetByUsername(ctx context.Context, username string) (*repository.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM account WHERE username = $1`, username))
	if err != nil {
		return nil, mapError("get account by username", err)
	}
	return a, nil
}

func (r *accountRepo) Create(ctx context.Context, input repository.CreateAccountInput) (*repository.Account, error) {
	return insertAccount(ctx, r.pool, input)
}

// querier es lo común entre pool y tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertAccount(ctx context.Context, q querier, input repository.CreateAccountInput) (*repository.Account, error) {
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	a, err := scanAccount(q.QueryRow(ctx, `
		INSERT INTO account (id, username, password_hash, display_name, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+accountColumns,
		id, input.Username, input.PasswordHash, input.DisplayName, input.Email,
	))
	if err != nil {
		return nil, mapError("insert account", err)
	}
	return a, nil
}

func (r *accountRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM account WHERE id = $1`, id)
	if err != nil {
		return mapError("delete account", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *accountRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM account`).Scan(&n); err != nil {
		return 0, mapError("count accounts", err)
	}
	return n, nil
}
