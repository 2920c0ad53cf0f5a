package auth

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/melon/internal/domain/repository"
	"github.com/dropDatabas3/melon/internal/security/password"
)

// PasswordValidator verifica credenciales locales.
type PasswordValidator struct {
	accounts repository.AccountRepository
}

func NewPasswordValidator(accounts repository.AccountRepository) *PasswordValidator {
	return &PasswordValidator{accounts: accounts}
}

// Validate devuelve la cuenta si la contraseña coincide.
// Un username desconocido y una cuenta sin contraseña pagan el mismo costo
// de hash que un intento real.
func (v *PasswordValidator) Validate(ctx context.Context, c PasswordCredential) (*repository.Account, error) {
	if c.Username == "" || c.Password == "" {
		return nil, ErrMissingFields
	}

	acc, err := v.accounts.GetByUsername(ctx, c.Username)
	if err != nil {
		if repository.IsNotFound(err) {
			password.VerifyDummy(c.Password)
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("password validator: lookup: %w", err)
	}

	if !acc.HasPassword() {
		password.VerifyDummy(c.Password)
		return nil, ErrInvalidPassword
	}
	if !password.Verify(c.Password, *acc.PasswordHash) {
		return nil, ErrInvalidPassword
	}
	return acc, nil
}
