package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestCLI_MigrateCreateToken(t *testing.T) {
	t.Setenv("MELON_STORAGE_DSN", filepath.Join(t.TempDir(), "melon.db"))

	out, err := run(t, "migrate", "--out", "json")
	require.NoError(t, err)
	var mig struct {
		Driver  string `json:"driver"`
		Applied []int  `json:"applied"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &mig))
	assert.Equal(t, "sqlite", mig.Driver)
	assert.NotEmpty(t, mig.Applied)

	out, err = run(t, "account", "create", "--username", "alice", "--password", "correct-horse", "--email", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "created alice")

	tok1, err := run(t, "account", "token", "--username", "alice")
	require.NoError(t, err)
	assert.Len(t, tok1, 40)

	tok2, err := run(t, "account", "token", "--username", "alice")
	require.NoError(t, err)
	assert.Equal(t, tok1, tok2)

	// segunda corrida de migrate no aplica nada
	out, err = run(t, "migrate", "--out", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &mig))
	assert.Empty(t, mig.Applied)
}

func TestCLI_AccountCreateRejects(t *testing.T) {
	t.Setenv("MELON_STORAGE_DSN", filepath.Join(t.TempDir(), "melon.db"))
	t.Setenv("MELON_STORAGE_AUTO_MIGRATE", "true")

	_, err := run(t, "account", "create", "--username", "bob", "--password", "12345678")
	assert.ErrorContains(t, err, "entirely_numeric")

	_, err = run(t, "account", "create", "--username", "facebook_123", "--password", "correct-horse")
	assert.Error(t, err)

	_, err = run(t, "account", "create", "--username", "carol")
	assert.Error(t, err, "password flag is required")

	_, err = run(t, "account", "token", "--username", "nobody")
	assert.Error(t, err)
}

func TestCLI_InvalidConfig(t *testing.T) {
	t.Setenv("MELON_STORAGE_DRIVER", "mysql")
	_, err := run(t, "migrate")
	assert.ErrorContains(t, err, "storage.driver")
}
