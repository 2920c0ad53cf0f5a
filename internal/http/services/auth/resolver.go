package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/melon/internal/audit"
	"github.com/dropDatabas3/melon/internal/domain/repository"
	"github.com/dropDatabas3/melon/internal/metrics"
	"github.com/dropDatabas3/melon/internal/observability/logger"
	"github.com/dropDatabas3/melon/internal/providers"
)

const (
	maxUsernameLength = 150
	resolveAttempts   = 3
)

// AccountResolver mapea un perfil externo a su cuenta local, creándola la
// primera vez. No toma locks: la unicidad la da UNIQUE(provider,
// external_id) y, ante conflicto, se relee al ganador.
type AccountResolver struct {
	accounts   repository.AccountRepository
	identities repository.IdentityRepository
	metrics    *metrics.Metrics
	suffix     func() string
}

func NewAccountResolver(accounts repository.AccountRepository, identities repository.IdentityRepository, m *metrics.Metrics) *AccountResolver {
	return &AccountResolver{
		accounts:   accounts,
		identities: identities,
		metrics:    m,
		suffix:     randomSuffix,
	}
}

// Resolve devuelve la cuenta vinculada a (provider, external id).
func (r *AccountResolver) Resolve(ctx context.Context, prof *providers.ExternalProfile) (*repository.Account, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.resolver"),
		logger.Provider(prof.Provider),
		logger.ExternalID(prof.ExternalID),
	)

	base := BaseUsername(prof.Provider, prof.ExternalID)
	for attempt := 0; attempt < resolveAttempts; attempt++ {
		acc, err := r.linked(ctx, prof)
		if err == nil {
			r.metrics.ObserveAccountResolved(prof.Provider, false)
			return acc, nil
		}
		if !repository.IsNotFound(err) {
			return nil, err
		}

		username := base
		if attempt > 0 {
			username = base + "_" + r.suffix()
		}
		acc, _, err = r.identities.CreateWithAccount(ctx,
			repository.CreateAccountInput{
				ID:          uuid.NewString(),
				Username:    username,
				DisplayName: prof.Name,
				Email:       prof.Email,
			},
			repository.LinkIdentityInput{
				Provider:    prof.Provider,
				ExternalID:  prof.ExternalID,
				Email:       prof.Email,
				DisplayName: prof.Name,
				RawProfile:  prof.Raw,
			},
		)
		if err == nil {
			log.Info("account created from external identity",
				logger.AccountID(acc.ID),
				logger.Username(acc.Username),
				logger.Email(prof.Email),
			)
			audit.Log(ctx, audit.AccountCreated, logger.AccountID(acc.ID), logger.Provider(prof.Provider))
			r.metrics.ObserveAccountResolved(prof.Provider, true)
			return acc, nil
		}
		if !repository.IsConflict(err) {
			return nil, fmt.Errorf("resolver: create: %w", err)
		}
		// Perdimos la carrera o el username está tomado; la próxima vuelta
		// relee la identidad antes de probar otro username.
		log.Debug("create conflict", logger.Username(username), logger.Int("attempt", attempt+1))
	}

	acc, err := r.linked(ctx, prof)
	if err == nil {
		r.metrics.ObserveAccountResolved(prof.Provider, false)
		return acc, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}
	log.Error("could not link external identity", logger.Err(err))
	return nil, fmt.Errorf("resolver: %s/%s: %w", prof.Provider, prof.ExternalID, ErrStorageInvariant)
}

func (r *AccountResolver) linked(ctx context.Context, prof *providers.ExternalProfile) (*repository.Account, error) {
	ident, err := r.identities.GetByProvider(ctx, prof.Provider, prof.ExternalID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("resolver: lookup identity: %w", err)
	}
	acc, err := r.accounts.GetByID(ctx, ident.AccountID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("resolver: identity %s without account: %w", ident.ID, ErrStorageInvariant)
		}
		return nil, fmt.Errorf("resolver: lookup account: %w", err)
	}
	return acc, nil
}

// BaseUsername arma "<provider>_<external_id>" en minúsculas, reemplazando
// todo lo que no sea [a-z0-9_] por "_".
func BaseUsername(provider, externalID string) string {
	raw := strings.ToLower(provider + "_" + externalID)
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()
	// deja lugar para "_" + 6 hex
	if limit := maxUsernameLength - 7; len(s) > limit {
		s = s[:limit]
	}
	return s
}

func randomSuffix() string {
	var b [3]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
