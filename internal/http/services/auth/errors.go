package auth

import (
	"errors"
	"fmt"

	"github.com/dropDatabas3/melon/internal/providers"
	"github.com/dropDatabas3/melon/internal/validation"
)

// Validation
var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrAmbiguousCredential = errors.New("both password and external token credentials supplied")
)

// Authentication. Todas las variantes envuelven ErrAuthenticationFailed.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAccountNotFound      = fmt.Errorf("%w: account not found", ErrAuthenticationFailed)
	ErrInvalidPassword      = fmt.Errorf("%w: invalid password", ErrAuthenticationFailed)
)

// Token
var (
	ErrNoCredentials = errors.New("authentication credentials were not provided")
	ErrInvalidToken  = errors.New("invalid token")
)

// ErrStorageInvariant: la base devolvió un estado que las constraints
// deberían impedir.
var ErrStorageInvariant = errors.New("storage invariant violated")

// Gestión de cuentas (CLI)
var (
	ErrUsernameTaken    = errors.New("username already taken")
	ErrReservedUsername = errors.New("username is reserved for external identities")
	ErrWeakPassword     = errors.New("password does not satisfy the policy")
)

// Outcomes para métricas y logs.
const (
	OutcomeSuccess             = "success"
	OutcomeValidation          = "validation"
	OutcomeInvalidCredentials  = "invalid_credentials"
	OutcomeProviderUnavailable = "provider_unavailable"
	OutcomeProviderError       = "provider_error"
	OutcomeInternal            = "internal"
)

// Outcome clasifica el resultado terminal de un login.
func Outcome(err error) string {
	var verr validation.Errors
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrAmbiguousCredential),
		errors.Is(err, providers.ErrUnknownProvider),
		errors.As(err, &verr):
		return OutcomeValidation
	case errors.Is(err, ErrAuthenticationFailed),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrNoCredentials):
		return OutcomeInvalidCredentials
	case errors.Is(err, providers.ErrProviderUnavailable):
		return OutcomeProviderUnavailable
	case errors.Is(err, providers.ErrProviderProtocol):
		return OutcomeProviderError
	default:
		return OutcomeInternal
	}
}
