package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/melon/internal/domain/repository"
)

const identityColumns = `id, account_id, provider, external_id, email, display_name, raw_profile, created_at`

type identityRepo struct{ db *sql.DB }

func scanIdentity(row rowScanner) (*repository.ExternalIdentity, error) {
	var (
		i       repository.ExternalIdentity
		raw     string
		created int64
	)
	if err := row.Scan(&i.ID, &i.AccountID, &i.Provider, &i.ExternalID, &i.Email, &i.DisplayName, &raw, &created); err != nil {
		return nil, err
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &i.RawProfile); err != nil {
			return nil, err
		}
	}
	i.CreatedAt = fromMillis(created)
	return &i, nil
}

func (r *identityRepo) GetByProvider(ctx context.Context, provider, externalID string) (*repository.ExternalIdentity, error) {
	i, err := scanIdentity(r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM external_identity WHERE provider = ? AND external_id = ?`,
		provider, externalID,
	))
	if err != nil {
		return nil, mapError("get identity", err)
	}
	return i, nil
}

func (r *identityRepo) ListByAccount(ctx context.Context, accountID string) ([]repository.ExternalIdentity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+identityColumns+` FROM external_identity WHERE account_id = ? ORDER BY created_at`,
		accountID,
	)
	if err != nil {
		return nil, mapError("list identities", err)
	}
	defer rows.Close()

	var out []repository.ExternalIdentity
	for rows.Next() {
		i, err := scanIdentity(rows)
		if err != nil {
			return nil, mapError("scan identity", err)
		}
		out = append(out, *i)
	}
	return out, mapError("list identities", rows.Err())
}

// CreateWithAccount inserta cuenta + identidad en la misma transacción.
// Cualquier violación de unicidad hace rollback y vuelve como ErrConflict.
func (r *identityRepo) CreateWithAccount(ctx context.Context, account repository.CreateAccountInput, identity repository.LinkIdentityInput) (*repository.Account, *repository.ExternalIdentity, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, mapError("begin", err)
	}
	defer tx.Rollback()

	// 1. Cuenta
	acc, err := insertAccount(ctx, tx, account)
	if err != nil {
		return nil, nil, err
	}

	// 2. Identidad
	raw := identity.RawProfile
	if raw == nil {
		raw = map[string]any{}
	}
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, nil, mapError("encode raw profile", err)
	}
	ident := &repository.ExternalIdentity{
		ID:          uuid.NewString(),
		AccountID:   acc.ID,
		Provider:    identity.Provider,
		ExternalID:  identity.ExternalID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		RawProfile:  raw,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO external_identity (id, account_id, provider, external_id, email, display_name, raw_profile, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ident.ID, ident.AccountID, ident.Provider, ident.ExternalID,
		ident.Email, ident.DisplayName, string(rawJSON), toMillis(ident.CreatedAt),
	)
	if err != nil {
		return nil, nil, mapError("insert identity", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, mapError("commit", err)
	}
	return acc, ident, nil
}

func (r *identityRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM external_identity`).Scan(&n); err != nil {
		return 0, mapError("count identities", err)
	}
	return n, nil
}
