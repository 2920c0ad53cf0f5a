// Package app arma el proceso a partir de la configuración: store, cache,
// rate limiter, providers, servicios y el handler HTTP.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dropDatabas3/melon/internal/cache"
	"github.com/dropDatabas3/melon/internal/config"
	authctrl "github.com/dropDatabas3/melon/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/melon/internal/http/controllers/health"
	"github.com/dropDatabas3/melon/internal/http/router"
	svc "github.com/dropDatabas3/melon/internal/http/services/auth"
	healthsvc "github.com/dropDatabas3/melon/internal/http/services/health"
	"github.com/dropDatabas3/melon/internal/metrics"
	"github.com/dropDatabas3/melon/internal/observability/logger"
	"github.com/dropDatabas3/melon/internal/providers"
	"github.com/dropDatabas3/melon/internal/providers/facebook"
	"github.com/dropDatabas3/melon/internal/providers/introspection"
	"github.com/dropDatabas3/melon/internal/rate"
	"github.com/dropDatabas3/melon/internal/security/password"
	"github.com/dropDatabas3/melon/internal/store"

	// Adapters se registran vía init()
	_ "github.com/dropDatabas3/melon/internal/store/adapters/pg"
	_ "github.com/dropDatabas3/melon/internal/store/adapters/sqlite"
)

// App es el proceso cableado.
type App struct {
	Config    *config.Config
	Store     store.AdapterConnection
	Cache     cache.Client // nil con cache.kind=none
	Providers *providers.Registry
	Metrics   *metrics.Metrics
	Auth      svc.Service
	Accounts  *svc.AccountService
	Handler   http.Handler

	closers []func() error
}

// OpenStore conecta el adapter configurado y, si storage.auto_migrate,
// aplica las migraciones embebidas.
func OpenStore(ctx context.Context, cfg *config.Config) (store.AdapterConnection, error) {
	conn, err := store.OpenAdapter(ctx, store.AdapterConfig{
		Name:         cfg.Storage.Driver,
		DSN:          cfg.Storage.DSN,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
		MaxIdleConns: cfg.Storage.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("app: open store: %w", err)
	}
	if !cfg.Storage.AutoMigrate {
		return conn, nil
	}
	res, err := conn.Migrate(ctx)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("app: migrate: %w", err)
	}
	logger.L().Info("migrations applied",
		logger.Component("store"),
		logger.String("driver", conn.Name()),
		zap.Ints("applied", res.Applied),
		zap.Ints("skipped", res.Skipped),
	)
	return conn, nil
}

// PasswordPolicy es la política por defecto más la blacklist opcional en disco.
func PasswordPolicy(cfg *config.Config) (password.Policy, error) {
	p := password.DefaultPolicy()
	if path := cfg.Auth.PasswordBlacklistPath; path != "" {
		extra, err := password.LoadBlacklist(path)
		if err != nil {
			return p, fmt.Errorf("app: password blacklist: %w", err)
		}
		p.Blacklist.Merge(extra)
	}
	return p, nil
}

// KnownProviders son todos los providers compilados, habilitados o no.
// Sus prefijos de username quedan reservados.
var KnownProviders = []string{facebook.ProviderName, introspection.ProviderName}

// NewProviders habilita los providers configurados. Sin ninguno habilitado
// el login externo responde "unknown provider".
func NewProviders(cfg *config.Config) (*providers.Registry, error) {
	reg := providers.NewRegistry()
	reg.RegisterFactory(facebook.ProviderName, facebook.Factory)
	reg.RegisterFactory(introspection.ProviderName, introspection.Factory)

	fb := cfg.Providers.Facebook
	if fb.Enabled {
		if err := reg.Enable(facebook.ProviderName, providers.ProviderConfig{
			ClientID:     fb.AppID,
			ClientSecret: fb.AppSecret,
			BaseURL:      fb.BaseURL,
			Timeout:      fb.Timeout,
		}); err != nil {
			return nil, err
		}
	}
	is := cfg.Providers.Introspection
	if is.Enabled {
		if err := reg.Enable(introspection.ProviderName, providers.ProviderConfig{
			ClientID:     is.ClientID,
			ClientSecret: is.ClientSecret,
			BaseURL:      is.URL,
			Timeout:      is.Timeout,
		}); err != nil {
			return nil, err
		}
	}
	if cfg.Auth.CoalesceVerifications {
		reg.Wrap(providers.Coalesce)
	}
	return reg, nil
}

// New construye la aplicación completa. En error libera lo ya abierto.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	log := logger.Named("app")
	a := &App{Config: cfg, Metrics: metrics.New()}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// 1. Store
	a.Store, err = OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.Store.Close)
	if err := a.Metrics.RegisterPool(a.Store); err != nil {
		return nil, fmt.Errorf("app: pool metrics: %w", err)
	}

	// 2. Redis compartido (cache y/o rate limiter)
	var rdb *redis.Client
	if cfg.Cache.Kind == "redis" || (cfg.Rate.Enabled && cfg.Rate.Backend == "redis") {
		rdb, err = dialRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
	}

	// 3. Cache de lookup de tokens
	switch cfg.Cache.Kind {
	case "redis":
		a.Cache = cache.NewRedisFromClient(rdb, cfg.Cache.Redis.Prefix)
	case "memory":
		a.Cache = cache.NewMemory(cfg.Cache.Redis.Prefix)
		a.closers = append(a.closers, a.Cache.Close)
	}

	// 4. Rate limiter de login
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		switch cfg.Rate.Backend {
		case "redis":
			limiter = rate.NewRedisLimiter(rdb, cfg.Cache.Redis.Prefix+"rl:", cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		default:
			limiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		}
	}

	// 5. Providers
	a.Providers, err = NewProviders(cfg)
	if err != nil {
		return nil, err
	}

	// 6. Servicios
	a.Auth = svc.NewService(svc.Deps{
		Store:           a.Store,
		Providers:       a.Providers,
		DefaultProvider: cfg.Auth.DefaultProvider,
		Cache:           a.Cache,
		CacheTTL:        cfg.Cache.TokenTTL,
		AllowBasic:      cfg.Auth.AllowBasic,
		Metrics:         a.Metrics,
	})
	policy, err := PasswordPolicy(cfg)
	if err != nil {
		return nil, err
	}
	a.Accounts = svc.NewAccountService(a.Store, policy, KnownProviders)

	components := []healthsvc.Component{{Name: "store", Pinger: a.Store, Critical: true}}
	if a.Cache != nil {
		components = append(components, healthsvc.Component{Name: "cache", Pinger: a.Cache})
	}
	health := healthsvc.NewHealthService(cfg.App.Version, components...)

	// 7. HTTP
	trusted, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, err
	}
	a.Handler = router.New(router.Deps{
		AuthService:        a.Auth,
		AuthControllers:    authctrl.NewControllers(a.Auth),
		HealthController:   healthctrl.NewHealthController(health),
		Metrics:            a.Metrics,
		LoginLimiter:       limiter,
		RateWhitelist:      cfg.Rate.Whitelist,
		TrustedProxies:     trusted,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	log.Info("app wired",
		logger.String("storage", a.Store.Name()),
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("rate_limit", limiter != nil),
		zap.Strings("providers", a.Providers.Enabled()),
	)
	return a, nil
}

func dialRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("app: redis ping: %w", err)
	}
	return rdb, nil
}

// Close libera recursos en orden inverso a su apertura.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
