package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5000, c.App.HTTP.Port)
	assert.Equal(t, "http://localhost:3000", c.App.ClientURL)
	assert.Equal(t, 168, c.JWT.TTLHours)
	assert.Equal(t, 100, c.Limits.RateLimitMax)
	assert.Equal(t, 15, c.Limits.RateLimitWindowMin)
	assert.Equal(t, int64(50), c.Limits.UploadMaxMB)
	assert.Equal(t, "mongo", c.DB.Driver)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
app:
  http:
    port: 8081
db:
  driver: sqlite
  dsn: data.db
redis:
  addr: localhost:6379
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8081, c.App.HTTP.Port)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, "data.db", c.DB.DSN)
	assert.Equal(t, "localhost:6379", c.Redis.Addr)
}

func TestLoadLegacyEnvNames(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-legacy")
	t.Setenv("ADMIN_EMAIL", "boss@example.com")
	t.Setenv("PORT", "7070")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("CLIENT_URL", "https://app.example.com")

	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-legacy", c.JWT.Secret)
	assert.Equal(t, "boss@example.com", c.Auth.AdminEmail)
	assert.Equal(t, 7070, c.App.HTTP.Port)
	assert.Equal(t, "mongodb://db:27017", c.DB.DSN)
	assert.Equal(t, "https://app.example.com", c.App.ClientURL)
}

func TestPrefixedEnvWinsOverLegacy(t *testing.T) {
	t.Setenv("JWT_SECRET", "legacy")
	t.Setenv("APP_JWT_SECRET", "prefixed")
	t.Setenv("APP_DB_DRIVER", "postgres")

	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "prefixed", c.JWT.Secret)
	assert.Equal(t, "postgres", c.DB.Driver)
}
