package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", c.App.Env)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "sqlite", c.Storage.Driver)
	assert.Equal(t, "./data/melon.db", c.Storage.DSN)
	assert.Equal(t, "memory", c.Cache.Kind)
	assert.Equal(t, 10, c.Rate.Login.Limit)
	assert.Equal(t, time.Minute, c.Rate.Login.Window)
	assert.Equal(t, "facebook", c.Auth.DefaultProvider)
	assert.Equal(t, 5*time.Second, c.Providers.Facebook.Timeout)
	assert.Equal(t, "https://graph.facebook.com/v19.0", c.Providers.Facebook.BaseURL)
}

func TestLoadYAMLAndEnvOverrides(t *testing.T) {
	p := writeYAML(t, `
app:
  env: staging
server:
  addr: ":9000"
  cors_allowed_origins: ["https://melon.example"]
storage:
  driver: postgres
  dsn: postgres://yaml
providers:
  facebook:
    enabled: true
    app_id: "1655"
    timeout: 2s
auth:
  password_blacklist_path: lists/common.txt
`)
	t.Setenv("MELON_STORAGE_DSN", "postgres://env")
	t.Setenv("MELON_PROVIDERS_FACEBOOK_APP_SECRET", "shh")
	t.Setenv("MELON_SERVER_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("MELON_RATE_ENABLED", "true")
	t.Setenv("MELON_SERVER_TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.7")

	c, err := Load(p)
	require.NoError(t, err)
	prefixes, err := c.TrustedProxyPrefixes()
	require.NoError(t, err)
	require.Len(t, prefixes, 2)
	assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	assert.Equal(t, "192.0.2.7/32", prefixes[1].String())

	assert.Equal(t, "staging", c.App.Env)
	assert.Equal(t, ":9000", c.Server.Addr)
	assert.Equal(t, "postgres", c.Storage.Driver)
	assert.Equal(t, "postgres://env", c.Storage.DSN)
	assert.True(t, c.Providers.Facebook.Enabled)
	assert.Equal(t, "1655", c.Providers.Facebook.AppID)
	assert.Equal(t, "shh", c.Providers.Facebook.AppSecret)
	assert.Equal(t, 2*time.Second, c.Providers.Facebook.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.Server.CORSAllowedOrigins)
	assert.True(t, c.Rate.Enabled)
	assert.Equal(t, filepath.Join(filepath.Dir(p), "lists", "common.txt"), c.Auth.PasswordBlacklistPath)
}

func TestValidateRejectsBadCombinations(t *testing.T) {
	p := writeYAML(t, `
app:
  env: prod
storage:
  driver: mysql
  dsn: x
cache:
  kind: redis
providers:
  facebook:
    enabled: true
  introspection:
    enabled: true
auth:
  default_provider: google
server:
  trusted_proxies: ["10.0.0.0/33"]
`)
	_, err := Load(p)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "storage.driver")
	assert.Contains(t, msg, "cache.redis.addr")
	assert.Contains(t, msg, "providers.facebook.app_secret")
	assert.Contains(t, msg, "providers.introspection.url")
	assert.Contains(t, msg, "auth.default_provider")
	assert.Contains(t, msg, "server.trusted_proxies")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
