// Package auth implementa el login (contraseña o token externo), la emisión
// del bearer token y la resolución del usuario actual.
package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/melon/internal/audit"
	"github.com/dropDatabas3/melon/internal/cache"
	"github.com/dropDatabas3/melon/internal/domain/repository"
	"github.com/dropDatabas3/melon/internal/metrics"
	"github.com/dropDatabas3/melon/internal/observability/logger"
	"github.com/dropDatabas3/melon/internal/providers"
)

// Repositories es lo que el servicio necesita del store.
// store.AdapterConnection lo satisface.
type Repositories interface {
	Accounts() repository.AccountRepository
	Identities() repository.IdentityRepository
	Tokens() repository.TokenRepository
}

// LoginResult es el resultado de un login exitoso.
type LoginResult struct {
	Token   string
	Account *repository.Account
}

// AccountSummary es la vista pública de una cuenta.
type AccountSummary struct {
	ID          string
	Username    string
	DisplayName string
	Email       string
	CreatedAt   time.Time
}

func Summarize(acc *repository.Account) *AccountSummary {
	return &AccountSummary{
		ID:          acc.ID,
		Username:    acc.Username,
		DisplayName: acc.DisplayName,
		Email:       acc.Email,
		CreatedAt:   acc.CreatedAt,
	}
}

// Service es la fachada usada por los controllers.
type Service interface {
	Login(ctx context.Context, c Credential) (*LoginResult, error)
	LoginWithPassword(ctx context.Context, username, password string) (*LoginResult, error)
	LoginWithExternalToken(ctx context.Context, provider, accessToken string) (*LoginResult, error)

	// CurrentAccount resuelve "Authorization: Token <key>" (y Basic si está
	// habilitado) a la cuenta autenticada.
	CurrentAccount(ctx context.Context, authorizationHeader string) (*AccountSummary, error)
}

// Deps contiene las dependencias del servicio.
type Deps struct {
	Store           Repositories
	Providers       *providers.Registry
	DefaultProvider string
	Cache           cache.Client  // nil = sin cache de lookup
	CacheTTL        time.Duration // TTL del cache de lookup
	AllowBasic      bool
	Metrics         *metrics.Metrics
}

type service struct {
	passwords  *PasswordValidator
	externals  *ExternalTokenValidator
	resolver   *AccountResolver
	tokens     *TokenStore
	allowBasic bool
	metrics    *metrics.Metrics
}

// NewService crea el servicio de autenticación.
func NewService(d Deps) Service {
	accounts := d.Store.Accounts()
	return &service{
		passwords: NewPasswordValidator(accounts),
		externals: NewExternalTokenValidator(d.Providers, d.DefaultProvider, d.Metrics),
		resolver:  NewAccountResolver(accounts, d.Store.Identities(), d.Metrics),
		tokens: NewTokenStore(d.Store.Tokens(), accounts,
			WithLookupCache(d.Cache, d.CacheTTL),
			WithTokenMetrics(d.Metrics),
		),
		allowBasic: d.AllowBasic,
		metrics:    d.Metrics,
	}
}

func (s *service) Login(ctx context.Context, c Credential) (*LoginResult, error) {
	switch c := c.(type) {
	case PasswordCredential:
		return s.LoginWithPassword(ctx, c.Username, c.Password)
	case ExternalTokenCredential:
		return s.LoginWithExternalToken(ctx, c.Provider, c.AccessToken)
	case nil:
		return nil, ErrMissingFields
	default:
		return nil, fmt.Errorf("%w: unsupported credential %T", ErrMissingFields, c)
	}
}

func (s *service) LoginWithPassword(ctx context.Context, username, password string) (res *LoginResult, err error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("LoginWithPassword"),
		logger.Username(username),
	)
	defer func() { s.observe(ctx, log, MethodPassword, res, err) }()

	acc, err := s.passwords.Validate(ctx, PasswordCredential{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, acc)
}

func (s *service) LoginWithExternalToken(ctx context.Context, provider, accessToken string) (res *LoginResult, err error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("LoginWithExternalToken"),
		logger.Provider(provider),
	)
	defer func() { s.observe(ctx, log, MethodExternal, res, err) }()

	// El provider se consulta antes de cualquier escritura: si falla no
	// queda nada creado.
	prof, err := s.externals.Validate(ctx, ExternalTokenCredential{Provider: provider, AccessToken: accessToken})
	if err != nil {
		return nil, err
	}
	acc, err := s.resolver.Resolve(ctx, prof)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, acc)
}

func (s *service) issue(ctx context.Context, acc *repository.Account) (*LoginResult, error) {
	tok, err := s.tokens.Issue(ctx, acc)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok.Key, Account: acc}, nil
}

func (s *service) observe(ctx context.Context, log *zap.Logger, method string, res *LoginResult, err error) {
	outcome := Outcome(err)
	s.metrics.ObserveLogin(method, outcome)
	switch outcome {
	case OutcomeSuccess:
		audit.Log(ctx, audit.LoginSucceeded, logger.LoginMethod(method), logger.AccountID(res.Account.ID))
	case OutcomeInvalidCredentials:
		audit.Log(ctx, audit.LoginFailed, logger.LoginMethod(method), logger.Err(err))
	}
	switch outcome {
	case OutcomeSuccess, OutcomeValidation, OutcomeInvalidCredentials:
		log.Debug("login finished", logger.Outcome(outcome), logger.Err(err))
	default:
		log.Warn("login failed", logger.Outcome(outcome), logger.Err(err))
	}
}

func (s *service) CurrentAccount(ctx context.Context, header string) (*AccountSummary, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, ErrNoCredentials
	}
	scheme, value, _ := strings.Cut(header, " ")
	value = strings.TrimSpace(value)

	switch {
	case strings.EqualFold(scheme, "Token"):
		if value == "" || strings.ContainsAny(value, " \t") {
			return nil, ErrInvalidToken
		}
		acc, err := s.tokens.Lookup(ctx, value)
		if err != nil {
			return nil, err
		}
		return Summarize(acc), nil

	case strings.EqualFold(scheme, "Basic") && s.allowBasic:
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, ErrInvalidToken
		}
		user, pass, ok := strings.Cut(string(raw), ":")
		if !ok {
			return nil, ErrInvalidToken
		}
		acc, err := s.passwords.Validate(ctx, PasswordCredential{Username: user, Password: pass})
		if err != nil {
			s.metrics.ObserveLogin(MethodBasic, Outcome(err))
			return nil, err
		}
		s.metrics.ObserveLogin(MethodBasic, OutcomeSuccess)
		return Summarize(acc), nil

	default:
		return nil, ErrNoCredentials
	}
}
