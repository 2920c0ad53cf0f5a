// Package auth contiene los DTOs de los endpoints de autenticación.
package auth

import (
	"strings"
	"time"

	svc "github.com/dropDatabas3/melon/internal/http/services/auth"
	"github.com/dropDatabas3/melon/internal/validation"
)

// LoginRequest es el body de POST /auth/token y /auth/token/external.
type LoginRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	AccessToken string `json:"access_token"`
	Provider    string `json:"provider,omitempty"`
}

type passwordLogin struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=4096"`
}

type externalLogin struct {
	AccessToken string `json:"access_token" validate:"required,max=4096"`
	Provider    string `json:"provider" validate:"omitempty,max=32,alphanum"`
}

// Credential produce la variante etiquetada. Las dos formas juntas, o
// ninguna, son un error de validación.
func (r LoginRequest) Credential() (svc.Credential, error) {
	hasPassword := r.Username != "" || r.Password != ""
	hasExternal := r.AccessToken != ""

	switch {
	case hasPassword && hasExternal:
		return nil, svc.ErrAmbiguousCredential
	case hasExternal:
		in := externalLogin{AccessToken: r.AccessToken, Provider: strings.ToLower(strings.TrimSpace(r.Provider))}
		if err := validation.Struct(in); err != nil {
			return nil, err
		}
		return svc.ExternalTokenCredential{Provider: in.Provider, AccessToken: in.AccessToken}, nil
	default:
		in := passwordLogin{Username: r.Username, Password: r.Password}
		if err := validation.Struct(in); err != nil {
			return nil, err
		}
		return svc.PasswordCredential{Username: in.Username, Password: in.Password}, nil
	}
}

// PasswordCredential exige la forma username/password (POST /auth/token).
// Un body con solo access_token no cae en el login externo.
func (r LoginRequest) PasswordCredential() (svc.Credential, error) {
	if r.Username == "" && r.Password == "" {
		return nil, validation.Errors{
			{Field: "username", Tag: "required"},
			{Field: "password", Tag: "required"},
		}
	}
	return r.Credential()
}

// ExternalCredential exige la forma access_token (endpoint externo).
func (r LoginRequest) ExternalCredential() (svc.Credential, error) {
	if r.AccessToken == "" && r.Username == "" && r.Password == "" {
		return nil, validation.Errors{{Field: "access_token", Tag: "required"}}
	}
	c, err := r.Credential()
	if err != nil {
		return nil, err
	}
	if _, ok := c.(svc.ExternalTokenCredential); !ok {
		return nil, validation.Errors{{Field: "access_token", Tag: "required"}}
	}
	return c, nil
}

// UserSummary es la vista pública de la cuenta.
type UserSummary struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewUserSummary(a *svc.AccountSummary) UserSummary {
	return UserSummary{
		ID:          a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		CreatedAt:   a.CreatedAt.UTC(),
	}
}

// LoginResponse es la respuesta 200 de login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

func NewLoginResponse(res *svc.LoginResult) LoginResponse {
	return LoginResponse{
		Token: res.Token,
		User:  NewUserSummary(svc.Summarize(res.Account)),
	}
}

// MeResponse es la respuesta de GET /auth/me.
type MeResponse struct {
	User UserSummary `json:"user"`
}
