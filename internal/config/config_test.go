package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Asia/Manila", cfg.App.Timezone)
	assert.Equal(t, "₱", cfg.App.Currency)
	assert.Equal(t, 5, cfg.App.DashboardCacheTTLMinutes)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.False(t, cfg.Storage.Enabled)
}

func TestLoadFile_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
database:
  host: db.internal
  name: shop
jwt:
  secret: from-file
app:
  timezone: UTC
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_HOST", "override-host")
	t.Setenv("S3_BUCKET", "invoices")
	t.Setenv("S3_ACCESS_KEY", "ak")
	t.Setenv("S3_SECRET_KEY", "sk")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "override-host", cfg.Database.Host)
	assert.Equal(t, "shop", cfg.Database.Name)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "UTC", cfg.App.Timezone)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "postgres://postgres:@override-host:5432/shop", cfg.DSN())
}

func TestLoadFile_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
