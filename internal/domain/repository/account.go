package repository

import (
	"context"
	"time"
)

// Account es el registro de identidad local.
// Una cuenta sin PasswordHash solo puede autenticarse vía una identidad externa.
type Account struct {
	ID           string
	Username     string
	PasswordHash *string
	DisplayName  string
	Email        string
	CreatedAt    time.Time
}

// HasPassword indica si la cuenta admite login con contraseña.
func (a *Account) HasPassword() bool {
	return a != nil && a.PasswordHash != nil && *a.PasswordHash != ""
}

// CreateAccountInput contiene los datos para crear una cuenta.
// ID vacío significa que el adapter lo genera.
type CreateAccountInput struct {
	ID           string
	Username     string
	PasswordHash *string
	DisplayName  string
	Email        string
}

// AccountRepository define operaciones sobre cuentas locales.
type AccountRepository interface {
	// GetByID busca una cuenta por ID.
	// Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Account, error)

	// GetByUsername busca una cuenta por username exacto.
	// Retorna ErrNotFound si no existe.
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// Create inserta una cuenta nueva.
	// Retorna ErrConflict si el username ya está tomado.
	Create(ctx context.Context, input CreateAccountInput) (*Account, error)

	// Delete elimina la cuenta junto con sus identidades y su token.
	Delete(ctx context.Context, id string) error

	// Count retorna el total de cuentas.
	Count(ctx context.Context) (int, error)
}
