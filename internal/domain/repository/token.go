package repository

import (
	"context"
	"time"
)

// BearerToken es la credencial opaca que autoriza las llamadas a la API.
// Hay a lo sumo un token vivo por cuenta.
type BearerToken struct {
	Key       string
	AccountID string
	CreatedAt time.Time
}

// TokenRepository define operaciones sobre bearer tokens.
type TokenRepository interface {
	// GetByKey busca un token por su valor.
	// Retorna ErrNotFound si no existe.
	GetByKey(ctx context.Context, key string) (*BearerToken, error)

	// GetByAccount busca el token de una cuenta.
	// Retorna ErrNotFound si la cuenta aún no tiene token.
	GetByAccount(ctx context.Context, accountID string) (*BearerToken, error)

	// Create inserta un token.
	// Retorna ErrConflict si la cuenta ya tiene token o si el key ya existe.
	Create(ctx context.Context, token BearerToken) (*BearerToken, error)

	// Count retorna el total de tokens.
	Count(ctx context.Context) (int, error)
}
