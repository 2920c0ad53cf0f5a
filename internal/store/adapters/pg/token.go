package pg

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/melon/internal/domain/repository"
)

type tokenRepo struct{ pool *pgxpool.Pool }

func (r *tokenRepo) GetByKey(ctx context.Context, key string) (*repository.BearerToken, error) {
	var t repository.BearerToken
	err := r.pool.QueryRow(ctx,
		`SELECT key, account_id, created_at FROM bearer_token WHERE key = $1`, key,
	).Scan(&t.Key, &t.AccountID, &t.CreatedAt)
	if err != nil {
		return nil, mapError("get token", err)
	}
	t.Key = strings.TrimSpace(t.Key)
	return &t, nil
}

func (r *tokenRepo) GetByAccount(ctx context.Context, accountID string) (*repository.BearerToken, error) {
	if _, err := uuid.Parse(accountID); err != nil {
		return nil, repository.ErrNotFound
	}
	var t repository.BearerToken
	err := r.pool.QueryRow(ctx,
		`SELECT key, account_id, created_at FROM bearer_token WHERE account_id = $1`, accountID,
	).Scan(&t.Key, &t.AccountID, &t.CreatedAt)
	if err != nil {
		return nil, mapError("get token by account", err)
	}
	t.Key = strings.TrimSpace(t.Key)
	return &t, nil
}

func (r *tokenRepo) Create(ctx context.Context, token repository.BearerToken) (*repository.BearerToken, error) {
	out := token
	err := r.pool.QueryRow(ctx,
		`INSERT INTO bearer_token (key, account_id) VALUES ($1, $2) RETURNING created_at`,
		token.Key, token.AccountID,
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, mapError("insert token", err)
	}
	return &out, nil
}

func (r *tokenRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bearer_token`).Scan(&n); err != nil {
		return 0, mapError("count tokens", err)
	}
	return n, nil
}
