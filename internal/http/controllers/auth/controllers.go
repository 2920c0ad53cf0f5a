// Package auth contiene los controllers de autenticación.
package auth

import (
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/melon/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/melon/internal/http/errors"
	"github.com/dropDatabas3/melon/internal/http/helpers"
	svc "github.com/dropDatabas3/melon/internal/http/services/auth"
)

// Controllers agrupa los controllers del dominio auth.
type Controllers struct {
	Token *TokenController
	Me    *MeController
}

func NewControllers(s svc.Service) *Controllers {
	return &Controllers{
		Token: NewTokenController(s),
		Me:    NewMeController(),
	}
}

// decodeLogin acepta JSON o form-urlencoded.
func decodeLogin(w http.ResponseWriter, r *http.Request) (dto.LoginRequest, error) {
	var req dto.LoginRequest
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.Contains(ct, "application/x-www-form-urlencoded") || strings.Contains(ct, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, helpers.MaxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return req, httperrors.ErrBadRequest.WithDetail("invalid form body").WithCause(err)
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
		req.AccessToken = r.PostFormValue("access_token")
		req.Provider = r.PostFormValue("provider")
		return req, nil
	}
	err := helpers.ReadJSON(w, r, &req)
	return req, err
}
