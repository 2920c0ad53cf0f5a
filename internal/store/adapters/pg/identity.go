package pg

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/melon/internal/domain/repository"
)

const identityColumns = `id, account_id, provider, external_id, email, display_name, raw_profile, created_at`

type identityRepo struct{ pool *pgxpool.Pool }

func scanIdentity(row pgx.Row) (*repository.ExternalIdentity, error) {
	var i repository.ExternalIdentity
	if err := row.Scan(&i.ID, &i.AccountID, &i.Provider, &i.ExternalID, &i.Email, &i.DisplayName, &i.RawProfile, &i.CreatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *identityRepo) GetByProvider(ctx context.Context, provider, externalID string) (*repository.ExternalIdentity, error) {
	i, err := scanIdentity(r.pool.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM external_identity WHERE provider = $1 AND external_id = $2`,
		provider, externalID,
	))
	if err != nil {
		return nil, mapError("get identity", err)
	}
	return i, nil
}

func (r *identityRepo) ListByAccount(ctx context.Context, accountID string) ([]repository.ExternalIdentity, error) {
	if _, err := uuid.Parse(accountID); err != nil {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+identityColumns+` FROM external_identity WHERE account_id = $1 ORDER BY created_at`,
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
// Un 23505 en cualquiera de los dos inserts aborta todo y vuelve como ErrConflict;
// el llamador relee la identidad ganadora.
func (r *identityRepo) CreateWithAccount(ctx context.Context, account repository.CreateAccountInput, identity repository.LinkIdentityInput) (*repository.Account, *repository.ExternalIdentity, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, mapError("begin", err)
	}
	defer tx.Rollback(ctx)

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
	ident, err := scanIdentity(tx.QueryRow(ctx, `
		INSERT INTO external_identity (id, account_id, provider, external_id, email, display_name, raw_profile)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+identityColumns,
		uuid.NewString(), acc.ID, identity.Provider, identity.ExternalID,
		identity.Email, identity.DisplayName, raw,
	))
	if err != nil {
		return nil, nil, mapError("insert identity", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, mapError("commit", err)
	}
	return acc, ident, nil
}

func (r *identityRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM external_identity`).Scan(&n); err != nil {
		return 0, mapError("count identities", err)
	}
	return n, nil
}
