package helpers

import (
	"errors"
	"net/http"

	httperrors "github.com/dropDatabas3/melon/internal/http/errors"
	svc "github.com/dropDatabas3/melon/internal/http/services/auth"
	"github.com/dropDatabas3/melon/internal/providers"
	"github.com/dropDatabas3/melon/internal/validation"
)

// AuthError traduce errores del servicio de auth a AppError.
func AuthError(err error) *httperrors.AppError {
	var verr validation.Errors
	var appErr *httperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &verr):
		if verr.Missing() {
			return httperrors.ErrMissingFields.WithDetail(verr.Error())
		}
		return httperrors.ErrBadRequest.WithDetail(verr.Error())
	case errors.Is(err, svc.ErrMissingFields):
		return httperrors.ErrMissingFields
	case errors.Is(err, svc.ErrAmbiguousCredential):
		return httperrors.ErrBadRequest.WithDetail("send either username/password or access_token, not both")
	case errors.Is(err, providers.ErrUnknownProvider):
		return httperrors.ErrBadRequest.WithDetail("unknown provider")
	case errors.Is(err, svc.ErrAuthenticationFailed):
		return httperrors.ErrInvalidCredentials.WithCause(err)
	case errors.Is(err, svc.ErrNoCredentials):
		return httperrors.ErrTokenMissing
	case errors.Is(err, svc.ErrInvalidToken):
		return httperrors.ErrTokenInvalid
	case errors.Is(err, providers.ErrProviderUnavailable):
		return httperrors.ErrProviderUnavailable.WithCause(err)
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}

// WriteAuthError escribe el error; los 401 de token llevan WWW-Authenticate.
func WriteAuthError(w http.ResponseWriter, err error) *httperrors.AppError {
	appErr := AuthError(err)
	if appErr.Code == httperrors.ErrTokenMissing.Code || appErr.Code == httperrors.ErrTokenInvalid.Code {
		w.Header().Set("WWW-Authenticate", "Token")
	}
	httperrors.WriteError(w, appErr)
	return appErr
}
