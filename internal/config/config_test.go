package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "does-not-exist.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "docutrack", cfg.App.Name)
	assert.Equal(t, "mysql", cfg.App.Storage)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.Equal(t, "docutrack.notification.persist", cfg.RabbitMQ.NotificationPersistQueue)
	assert.Equal(t, "0 0 8 * * *", cfg.Reminder.Schedule)
	assert.Equal(t, 3, cfg.Reminder.WindowDays)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[app]
port = 9090
storage = "memory"

[auth]
jwt_secret = "file-secret"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "memory", cfg.App.Storage)
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	// untouched sections keep their defaults
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "does-not-exist.toml"))
	t.Setenv("APP_STORAGE", "memory")
	t.Setenv("APP_PORT", "7070")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.App.Storage)
	assert.Equal(t, 7070, cfg.App.Port)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestMySQLDSN(t *testing.T) {
	cfg := defaultConfig()
	cfg.MySQL.User = "app"
	cfg.MySQL.Password = "pw"
	cfg.MySQL.DB = "docs"
	assert.Equal(t, "app:pw@tcp(127.0.0.1:3306)/docs?parseTime=true&loc=Local&charset=utf8mb4", cfg.MySQLDSN())
}
