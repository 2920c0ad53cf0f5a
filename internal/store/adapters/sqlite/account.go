package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/melon/internal/domain/repository"
)

const accountColumns = `id, username, password_hash, display_name, email, created_at`

type accountRepo struct{ db *sql.DB }

// rowScanner es lo común entre *sql.Row y *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// execer es lo común entre *sql.DB y *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func scanAccount(row rowScanner) (*repository.Account, error) {
	var (
		a       repository.Account
		hash    sql.NullString
		created int64
	)
	if err := row.Scan(&a.ID, &a.Username, &hash, &a.DisplayName, &a.Email, &created); err != nil {
		return nil, err
	}
	if hash.Valid {
		a.PasswordHash = &hash.String
	}
	a.CreatedAt = fromMillis(created)
	return &a, nil
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*repository.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM account WHERE id = ?`, id))
	if err != nil {
		return nil, mapError("get account", err)
	}
	return a, nil
}

func (r *accountRepo) GetByUsername(ctx context.Context, username string) (*repository.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM account WHERE username = ?`, username))
	if err != nil {
		return nil, mapError("get account by username", err)
	}
	return a, nil
}

func (r *accountRepo) Create(ctx context.Context, input repository.CreateAccountInput) (*repository.Account, error) {
	return insertAccount(ctx, r.db, input)
}

func insertAccount(ctx context.Context, x execer, input repository.CreateAccountInput) (*repository.Account, error) {
	a := &repository.Account{
		ID:           input.ID,
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		DisplayName:  input.DisplayName,
		Email:        input.Email,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	var hash sql.NullString
	if a.PasswordHash != nil {
		hash = sql.NullString{String: *a.PasswordHash, Valid: true}
	}
	_, err := x.ExecContext(ctx, `
		INSERT INTO account (id, username, password_hash, display_name, email, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Username, hash, a.DisplayName, a.Email, toMillis(a.CreatedAt),
	)
	if err != nil {
		return nil, mapError("insert account", err)
	}
	return a, nil
}

func (r *accountRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM account WHERE id = ?`, id)
	if err != nil {
		return mapError("delete account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("delete account", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *accountRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM account`).Scan(&n); err != nil {
		return 0, mapError("count accounts", err)
	}
	return n, nil
}
