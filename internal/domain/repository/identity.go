package repository

import (
	"context"
	"time"
)

// ExternalIdentity vincula una Account con un par (provider, external id).
// El par es único: a lo sumo una cuenta por identidad externa.
type ExternalIdentity struct {
	ID          string
	AccountID   string
	Provider    string // "facebook", "introspection"
	ExternalID  string // ID opaco del provider
	Email       string
	DisplayName string
	RawProfile  map[string]any
	CreatedAt   time.Time
}

// LinkIdentityInput contiene los datos de la identidad a vincular.
type LinkIdentityInput struct {
	Provider    string
	ExternalID  string
	Email       string
	DisplayName string
	RawProfile  map[string]any
}

// IdentityRepository define operaciones sobre identidades externas.
type IdentityRepository interface {
	// GetByProvider busca una identidad por provider y ID externo.
	// Retorna ErrNotFound si no existe.
	GetByProvider(ctx context.Context, provider, externalID string) (*ExternalIdentity, error)

	// ListByAccount lista las identidades vinculadas a una cuenta.
	ListByAccount(ctx context.Context, accountID string) ([]ExternalIdentity, error)

	// CreateWithAccount crea la cuenta y su identidad en una única transacción.
	// Si cualquiera de los dos inserts viola una restricción de unicidad
	// no queda nada persistido y se retorna ErrConflict.
	CreateWithAccount(ctx context.Context, account CreateAccountInput, identity LinkIdentityInput) (*Account, *ExternalIdentity, error)

	// Count retorna el total de identidades.
	Count(ctx context.Context) (int, error)
}
