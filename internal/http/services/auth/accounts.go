package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/melon/internal/audit"
	"github.com/dropDatabas3/melon/internal/domain/repository"
	"github.com/dropDatabas3/melon/internal/observability/logger"
	"github.com/dropDatabas3/melon/internal/security/password"
	"github.com/dropDatabas3/melon/internal/validation"
)

// CreateAccountRequest datos para crear una cuenta local.
type CreateAccountRequest struct {
	Username    string `json:"username" validate:"required,max=150,username"`
	Password    string `json:"password" validate:"required,max=4096"`
	DisplayName string `json:"display_name" validate:"max=255"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
}

// AccountService administra cuentas locales (CLI).
type AccountService struct {
	accounts repository.AccountRepository
	tokens   *TokenStore
	policy   password.Policy
	params   password.Params
	reserved []string
}

// NewAccountService crea el servicio. reservedProviders son los nombres de
// provider cuyo prefijo "<name>_" queda reservado para identidades externas.
func NewAccountService(store Repositories, policy password.Policy, reservedProviders []string) *AccountService {
	reserved := make([]string, 0, len(reservedProviders))
	for _, p := range reservedProviders {
		reserved = append(reserved, strings.ToLower(p)+"_")
	}
	return &AccountService{
		accounts: store.Accounts(),
		tokens:   NewTokenStore(store.Tokens(), store.Accounts()),
		policy:   policy,
		params:   password.Default,
		reserved: reserved,
	}
}

// Create valida y crea una cuenta con contraseña.
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (*repository.Account, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	lower := strings.ToLower(req.Username)
	for _, prefix := range s.reserved {
		if strings.HasPrefix(lower, prefix) {
			return nil, fmt.Errorf("%w: prefix %q", ErrReservedUsername, prefix)
		}
	}
	if ok, reasons := s.policy.Validate(req.Password, req.Username); !ok {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, strings.Join(reasons, ", "))
	}

	hash, err := password.Hash(s.params, req.Password)
	if err != nil {
		return nil, fmt.Errorf("accounts: hash: %w", err)
	}
	acc, err := s.accounts.Create(ctx, repository.CreateAccountInput{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: &hash,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, req.Username)
		}
		return nil, fmt.Errorf("accounts: create: %w", err)
	}
	logger.From(ctx).Info("account created", logger.AccountID(acc.ID), logger.Username(acc.Username), logger.Email(acc.Email))
	audit.Log(ctx, audit.AccountCreated, logger.AccountID(acc.ID), logger.LoginMethod(MethodPassword))
	return acc, nil
}

// IssueToken devuelve (o crea) el token de la cuenta.
func (s *AccountService) IssueToken(ctx context.Context, username string) (*repository.BearerToken, error) {
	acc, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, username)
		}
		return nil, fmt.Errorf("accounts: lookup: %w", err)
	}
	return s.tokens.Issue(ctx, acc)
}
