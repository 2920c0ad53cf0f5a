package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/melon/internal/http/helpers"
	svc "github.com/dropDatabas3/melon/internal/http/services/auth"
	"github.com/dropDatabas3/melon/internal/observability/logger"
)

// RequireAccount resuelve Authorization con el servicio de auth y guarda la
// cuenta en el contexto. Responde 401 si falta o es inválido.
func RequireAccount(s svc.Service) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			acc, err := s.CurrentAccount(ctx, r.Header.Get("Authorization"))
			if err != nil {
				appErr := helpers.WriteAuthError(w, err)
				if appErr.HTTPStatus >= http.StatusInternalServerError {
					logger.From(ctx).Error("current account failed", logger.Err(err))
				}
				return
			}
			ctx = WithAccount(ctx, acc)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.AccountID(acc.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
