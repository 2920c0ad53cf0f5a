package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/melon/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/melon/internal/http/errors"
	"github.com/dropDatabas3/melon/internal/http/helpers"
	mw "github.com/dropDatabas3/melon/internal/http/middlewares"
)

// MeController maneja GET /auth/me.
type MeController struct{}

func NewMeController() *MeController {
	return &MeController{}
}

// Me devuelve la cuenta puesta en el contexto por RequireAccount.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	acc := mw.GetAccount(r.Context())
	if acc == nil {
		w.Header().Set("WWW-Authenticate", "Token")
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.MeResponse{User: dto.NewUserSummary(acc)})
}
