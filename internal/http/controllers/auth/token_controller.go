package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/melon/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/melon/internal/http/errors"
	"github.com/dropDatabas3/melon/internal/http/helpers"
	svc "github.com/dropDatabas3/melon/internal/http/services/auth"
	"github.com/dropDatabas3/melon/internal/observability/logger"
)

// TokenController maneja los endpoints que emiten tokens.
type TokenController struct {
	service svc.Service
}

func NewTokenController(service svc.Service) *TokenController {
	return &TokenController{service: service}
}

// Token maneja POST /auth/token.
func (c *TokenController) Token(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, "TokenController.Token", dto.LoginRequest.PasswordCredential)
}

// ExternalToken maneja POST /auth/token/external.
func (c *TokenController) ExternalToken(w http.ResponseWriter, r *http.Request) {
	c.login(w, r, "TokenController.ExternalToken", dto.LoginRequest.ExternalCredential)
}

func (c *TokenController) login(w http.ResponseWriter, r *http.Request, op string, credential func(dto.LoginRequest) (svc.Credential, error)) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op(op))

	req, err := decodeLogin(w, r)
	if err != nil {
		httperrors.WriteError(w, helpers.AuthError(err))
		return
	}
	cred, err := credential(req)
	if err != nil {
		helpers.WriteAuthError(w, err)
		return
	}

	res, err := c.service.Login(ctx, cred)
	if err != nil {
		appErr := helpers.WriteAuthError(w, err)
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error("login failed", logger.Err(err))
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.NewLoginResponse(res))
}
