package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9100"
database:
  path: "/tmp/risk.db"
models:
  dir: "/tmp/models"
notifier:
  enabled: true
  chat_id: 42
  min_severity: 80
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Port)
	assert.Equal(t, "/tmp/risk.db", cfg.Database.Path)
	assert.Equal(t, "/tmp/models", cfg.Models.Dir)
	assert.True(t, cfg.Notifier.Enabled)
	assert.Equal(t, int64(42), cfg.Notifier.ChatID)
	assert.Equal(t, 80, cfg.Notifier.MinSeverity)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "server: {}\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Port)
	assert.Equal(t, "./data/url_risk.db", cfg.Database.Path)
	assert.Equal(t, "./data/models", cfg.Models.Dir)
	assert.Equal(t, 70, cfg.Notifier.MinSeverity)
}

func TestLoadConfigExpandsSecrets(t *testing.T) {
	t.Setenv("URLRISK_TEST_JWT_SECRET", "from-env")
	path := writeConfig(t, `
auth:
  jwt_secret: "${URLRISK_TEST_JWT_SECRET}"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
