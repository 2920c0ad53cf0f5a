package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dropDatabas3/melon/internal/domain/repository"
)

type tokenRepo struct{ db *sql.DB }

func scanToken(row rowScanner) (*repository.BearerToken, error) {
	var (
		t       repository.BearerToken
		created int64
	)
	if err := row.Scan(&t.Key, &t.AccountID, &created); err != nil {
		return nil, err
	}
	t.CreatedAt = fromMillis(created)
	return &t, nil
}

func (r *tokenRepo) GetByKey(ctx context.Context, key string) (*repository.BearerToken, error) {
	t, err := scanToken(r.db.QueryRowContext(ctx,
		`SELECT key, account_id, created_at FROM bearer_token WHERE key = ?`, key))
	if err != nil {
		return nil, mapError("get token", err)
	}
	return t, nil
}

func (r *tokenRepo) GetByAccount(ctx context.Context, accountID string) (*repository.BearerToken, error) {
	t, err := scanToken(r.db.QueryRowContext(ctx,
		`SELECT key, account_id, created_at FROM bearer_token WHERE account_id = ?`, accountID))
	if err != nil {
		return nil, mapError("get token by account", err)
	}
	return t, nil
}

func (r *tokenRepo) Create(ctx context.Context, token repository.BearerToken) (*repository.BearerToken, error) {
	out := token
	out.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bearer_token (key, account_id, created_at) VALUES (?, ?, ?)`,
		out.Key, out.AccountID, toMillis(out.CreatedAt),
	)
	if err != nil {
		return nil, mapError("insert token", err)
	}
	return &out, nil
}

func (r *tokenRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bearer_token`).Scan(&n); err != nil {
		return 0, mapError("count tokens", err)
	}
	return n, nil
}
