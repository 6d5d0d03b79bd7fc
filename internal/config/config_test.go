package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	evberrors "github.com/evbook/evbook/internal/errors"
)

func emptyConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), emptyConfigFile(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, time.Duration(0), cfg.API.Timeout)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(Dir(), "session.json"), cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 4*time.Second, cfg.UI.NotificationTTL)
	assert.Equal(t, 1500*time.Millisecond, cfg.UI.NavigateDelay)
	assert.Equal(t, "admin@evbook.local", cfg.Sandbox.AdminEmail)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `api:
  url: http://localhost:5000/api
  timeout: 10s
storage:
  driver: sqlite
  path: ~/evbook-test.db
ui:
  notification_ttl: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, "http://localhost:5000/api", cfg.API.URL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(home, "evbook-test.db"), cfg.Storage.Path)
	assert.Equal(t, 2*time.Second, cfg.UI.NotificationTTL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("EVBOOK_API_URL", "http://127.0.0.1:5050")
	t.Setenv("EVBOOK_STORAGE_DRIVER", "memory")

	cfg, err := Load(New(), emptyConfigFile(t))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:5050", cfg.API.URL)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("EVBOOK_STORAGE_DRIVER", "postgres")

	_, err := Load(New(), emptyConfigFile(t))
	require.Error(t, err)

	code, ok := evberrors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, evberrors.ErrCodeConfigInvalid, code)
	assert.Contains(t, err.Error(), "driver")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	code, _ := evberrors.CodeOf(err)
	assert.Equal(t, evberrors.ErrCodeConfigLoad, code)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", expandHome(""))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, filepath.Join(home, "x", "y"), expandHome("~/x/y"))
}
