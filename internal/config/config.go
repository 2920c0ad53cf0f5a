package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix es el prefijo de todas las variables de entorno (ej: MELON_STORAGE_DSN).
const EnvPrefix = "MELON_"

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"env" env:"ENV"`
		Name    string `yaml:"name" env:"NAME"`
		Version string `yaml:"version" env:"VERSION"`
	} `yaml:"app" envPrefix:"APP_"`

	Server struct {
		Addr               string        `yaml:"addr" env:"ADDR"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
		ReadTimeout        time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
		WriteTimeout       time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
		// CIDRs o IPs de los proxies cuyo X-Forwarded-For se acepta.
		// Vacío = se usa siempre la IP de la conexión.
		TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES" envSeparator:","`
	} `yaml:"server" envPrefix:"SERVER_"`

	Storage struct {
		// postgres | sqlite
		Driver       string `yaml:"driver" env:"DRIVER"`
		DSN          string `yaml:"dsn" env:"DSN"`
		AutoMigrate  bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	} `yaml:"storage" envPrefix:"STORAGE_"`

	Cache struct {
		// memory | redis | none
		Kind string `yaml:"kind" env:"KIND"`
		// TokenTTL cuánto vive un lookup de token cacheado.
		TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
		Redis    struct {
			Addr     string `yaml:"addr" env:"ADDR"`
			Password string `yaml:"password" env:"PASSWORD"`
			DB       int    `yaml:"db" env:"DB"`
			Prefix   string `yaml:"prefix" env:"PREFIX"`
		} `yaml:"redis" envPrefix:"REDIS_"`
	} `yaml:"cache" envPrefix:"CACHE_"`

	Rate struct {
		Enabled bool `yaml:"enabled" env:"ENABLED"`
		// memory | redis (redis reutiliza cache.redis)
		Backend string `yaml:"backend" env:"BACKEND"`
		Login   struct {
			Limit  int           `yaml:"limit" env:"LIMIT"`
			Window time.Duration `yaml:"window" env:"WINDOW"`
		} `yaml:"login" envPrefix:"LOGIN_"`
		Whitelist []string `yaml:"whitelist" env:"WHITELIST" envSeparator:","`
	} `yaml:"rate" envPrefix:"RATE_"`

	Log struct {
		Level  string   `yaml:"level" env:"LEVEL"`
		Output []string `yaml:"output" env:"OUTPUT" envSeparator:","`
	} `yaml:"log" envPrefix:"LOG_"`

	Auth struct {
		// AllowBasic acepta "Authorization: Basic" en rutas autenticadas.
		AllowBasic bool `yaml:"allow_basic" env:"ALLOW_BASIC"`
		// DefaultProvider se usa cuando el request no indica provider.
		DefaultProvider string `yaml:"default_provider" env:"DEFAULT_PROVIDER"`
		// CoalesceVerifications agrupa verificaciones idénticas concurrentes.
		CoalesceVerifications bool   `yaml:"coalesce_verifications" env:"COALESCE_VERIFICATIONS"`
		PasswordBlacklistPath string `yaml:"password_blacklist_path" env:"PASSWORD_BLACKLIST_PATH"`
	} `yaml:"auth" envPrefix:"AUTH_"`

	Providers struct {
		Facebook struct {
			Enabled   bool          `yaml:"enabled" env:"ENABLED"`
			AppID     string        `yaml:"app_id" env:"APP_ID"`
			AppSecret string        `yaml:"app_secret" env:"APP_SECRET"`
			BaseURL   string        `yaml:"base_url" env:"BASE_URL"`
			Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
		} `yaml:"facebook" envPrefix:"FACEBOOK_"`

		Introspection struct {
			Enabled      bool          `yaml:"enabled" env:"ENABLED"`
			URL          string        `yaml:"url" env:"URL"`
			ClientID     string        `yaml:"client_id" env:"CLIENT_ID"`
			ClientSecret string        `yaml:"client_secret" env:"CLIENT_SECRET"`
			Timeout      time.Duration `yaml:"timeout" env:"TIMEOUT"`
		} `yaml:"introspection" envPrefix:"INTROSPECTION_"`
	} `yaml:"providers" envPrefix:"PROVIDERS_"`
}

// Load lee el YAML (path vacío = solo defaults), aplica defaults,
// overrides por env (MELON_*) y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyDefaults()

	// Overrides por env: solo pisan lo que esté seteado.
	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("config: env overrides: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Normalizar ruta de blacklist (si relativa) respecto al directorio del YAML
	if p := strings.TrimSpace(c.Auth.PasswordBlacklistPath); p != "" && path != "" && !filepath.IsAbs(p) {
		c.Auth.PasswordBlacklistPath = filepath.Clean(filepath.Join(filepath.Dir(path), p))
	}

	return &c, nil
}

// sane defaults
func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "melon"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Driver == "sqlite" && c.Storage.DSN == "" {
		c.Storage.DSN = "./data/melon.db"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.TokenTTL == 0 {
		c.Cache.TokenTTL = 30 * time.Second
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "melon:"
	}
	if c.Rate.Backend == "" {
		c.Rate.Backend = "memory"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == 0 {
		c.Rate.Login.Window = time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Auth.DefaultProvider == "" {
		c.Auth.DefaultProvider = "facebook"
	}
	if c.Providers.Facebook.BaseURL == "" {
		c.Providers.Facebook.BaseURL = "https://graph.facebook.com/v19.0"
	}
	if c.Providers.Facebook.Timeout == 0 {
		c.Providers.Facebook.Timeout = 5 * time.Second
	}
	if c.Providers.Introspection.Timeout == 0 {
		c.Providers.Introspection.Timeout = 5 * time.Second
	}
}

// IsProd indica si corre en producción.
func (c *Config) IsProd() bool {
	return strings.EqualFold(c.App.Env, "prod")
}

// TrustedProxyPrefixes parsea server.trusted_proxies. Una IP suelta vale
// como prefijo de un solo host.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(c.Server.TrustedProxies))
	for _, raw := range c.Server.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("server.trusted_proxies: %w", err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("server.trusted_proxies: %w", err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// Validate verifica combinaciones inválidas. Devuelve todos los errores juntos.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.TrustedProxyPrefixes(); err != nil {
		errs = append(errs, err)
	}

	switch c.Storage.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unsupported %q (postgres|sqlite)", c.Storage.Driver))
	}
	if strings.TrimSpace(c.Storage.DSN) == "" {
		errs = append(errs, errors.New("storage.dsn: required"))
	}

	switch c.Cache.Kind {
	case "memory", "none":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr: required when cache.kind=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind: unsupported %q (memory|redis|none)", c.Cache.Kind))
	}

	if c.Rate.Enabled {
		switch c.Rate.Backend {
		case "memory":
		case "redis":
			if c.Cache.Redis.Addr == "" {
				errs = append(errs, errors.New("rate.backend=redis requires cache.redis.addr"))
			}
		default:
			errs = append(errs, fmt.Errorf("rate.backend: unsupported %q (memory|redis)", c.Rate.Backend))
		}
		if c.Rate.Login.Limit < 1 {
			errs = append(errs, errors.New("rate.login.limit: must be >= 1"))
		}
	}

	fb := c.Providers.Facebook
	if fb.Enabled && c.IsProd() && fb.AppSecret == "" {
		errs = append(errs, errors.New("providers.facebook.app_secret: required in prod"))
	}
	is := c.Providers.Introspection
	if is.Enabled && strings.TrimSpace(is.URL) == "" {
		errs = append(errs, errors.New("providers.introspection.url: required when enabled"))
	}
	switch c.Auth.DefaultProvider {
	case "facebook", "introspection":
	default:
		errs = append(errs, fmt.Errorf("auth.default_provider: unknown %q", c.Auth.DefaultProvider))
	}

	return errors.Join(errs...)
}
