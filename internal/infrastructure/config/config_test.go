package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8600", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Transport.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Transport.MaxRetries)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TRANSPORT_RETRIES", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 7, cfg.Transport.MaxRetries)
}

func TestLoadFileOverridesEnvironment(t *testing.T) {
	t.Setenv("PORT", "9001")

	path := filepath.Join(t.TempDir(), "lumen.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[Server]
port = "7000"

[Logging]
level = "warn"
`), 0o600))
	t.Setenv("LUMEN_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o600))
	t.Setenv("LUMEN_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	t.Setenv("LUMEN_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg := LoadOrDefault()
	assert.Equal(t, "8600", cfg.Server.Port)
}
