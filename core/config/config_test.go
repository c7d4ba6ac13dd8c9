package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30, cfg.Database.TimeoutSeconds)
	assert.True(t, cfg.Reconcile.Transactional)
	assert.Equal(t, 60, cfg.Drafts.TTLMinutes)
	assert.Equal(t, 720, cfg.Auth.TokenTTLMinutes)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("RECONCILE_TRANSACTIONAL", "false")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Reconcile.Transactional)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DRAFTS_TTL_MINUTES=5\nSERVER_PORT=9090\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DRAFTS_TTL_MINUTES")
		os.Unsetenv("SERVER_PORT")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Drafts.TTLMinutes)
	assert.Equal(t, "9090", cfg.Server.Port)
}
