package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/melon/internal/cache"
	"github.com/dropDatabas3/melon/internal/domain/repository"
	"github.com/dropDatabas3/melon/internal/metrics"
	"github.com/dropDatabas3/melon/internal/observability/logger"
	tokens "github.com/dropDatabas3/melon/internal/security/token"
)

const lookupCachePrefix = "tok:"

// TokenStore entrega el token único de cada cuenta y resuelve tokens a
// cuentas. El cache opcional guarda sha256(key) -> account id y nunca es
// fuente de verdad.
type TokenStore struct {
	tokens   repository.TokenRepository
	accounts repository.AccountRepository
	cache    cache.Client
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	generate func() (string, error)
}

type TokenStoreOption func(*TokenStore)

// WithLookupCache habilita el cache de lookups.
func WithLookupCache(c cache.Client, ttl time.Duration) TokenStoreOption {
	return func(s *TokenStore) {
		if c != nil && ttl > 0 {
			s.cache = c
			s.cacheTTL = ttl
		}
	}
}

func WithTokenMetrics(m *metrics.Metrics) TokenStoreOption {
	return func(s *TokenStore) { s.metrics = m }
}

func NewTokenStore(tokenRepo repository.TokenRepository, accounts repository.AccountRepository, opts ...TokenStoreOption) *TokenStore {
	s := &TokenStore{
		tokens:   tokenRepo,
		accounts: accounts,
		generate: tokens.GenerateKey,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Issue devuelve el token existente de la cuenta o crea uno.
// Ante un insert concurrente gana el primero y todos reciben su token.
func (s *TokenStore) Issue(ctx context.Context, acc *repository.Account) (*repository.BearerToken, error) {
	existing, err := s.tokens.GetByAccount(ctx, acc.ID)
	if err == nil {
		s.metrics.ObserveTokenIssued(true)
		return existing, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("token store: lookup: %w", err)
	}

	key, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("token store: generate: %w", err)
	}
	created, err := s.tokens.Create(ctx, repository.BearerToken{
		Key:       key,
		AccountID: acc.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err == nil {
		logger.From(ctx).Info("token issued",
			logger.Layer("service"),
			logger.AccountID(acc.ID),
			logger.TokenPrefix(tokens.Prefix(created.Key)),
		)
		s.metrics.ObserveTokenIssued(false)
		return created, nil
	}
	if !repository.IsConflict(err) {
		return nil, fmt.Errorf("token store: create: %w", err)
	}

	winner, err := s.tokens.GetByAccount(ctx, acc.ID)
	if err == nil {
		s.metrics.ObserveTokenIssued(true)
		return winner, nil
	}
	if repository.IsNotFound(err) {
		// el conflicto fue sobre el key, no sobre la cuenta
		return nil, fmt.Errorf("token store: key collision for account %s: %w", acc.ID, ErrStorageInvariant)
	}
	return nil, fmt.Errorf("token store: re-read: %w", err)
}

// Lookup resuelve un token a su cuenta. Solo lee.
func (s *TokenStore) Lookup(ctx context.Context, key string) (*repository.Account, error) {
	if !tokens.ValidKey(key) {
		return nil, ErrInvalidToken
	}

	cacheKey := lookupCachePrefix + tokens.SHA256Hex(key)
	if s.cache != nil {
		if accountID, err := s.cache.Get(ctx, cacheKey); err == nil {
			acc, err := s.accounts.GetByID(ctx, accountID)
			if err == nil {
				return acc, nil
			}
			_ = s.cache.Delete(ctx, cacheKey)
		} else if !cache.IsNotFound(err) {
			logger.From(ctx).Warn("token cache get failed", logger.Err(err))
		}
	}

	tok, err := s.tokens.GetByKey(ctx, key)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("token store: lookup key: %w", err)
	}
	acc, err := s.accounts.GetByID(ctx, tok.AccountID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("token store: lookup account: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, acc.ID, s.cacheTTL); err != nil {
			logger.From(ctx).Warn("token cache set failed", logger.Err(err))
		}
	}
	return acc, nil
}
