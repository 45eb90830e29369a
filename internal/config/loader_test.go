package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  mode: debug
registry:
  kosha:
    service_key: test-kosha-key
  courtesy_delay: 100ms
batch:
  workers: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "test-kosha-key", cfg.Registry.KOSHA.ServiceKey)
	assert.Equal(t, 100*time.Millisecond, cfg.Registry.CourtesyDelay)
	assert.Equal(t, 3, cfg.Batch.Workers)

	// Defaults fill everything the file omits.
	assert.Equal(t, DefaultDatabaseHost, cfg.Database.Host)
	assert.Equal(t, DefaultKOSHABaseURL, cfg.Registry.KOSHA.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	path := writeConfigFile(t, `
server:
  mode: staging
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHEMREG_SERVER_PORT", "7070")
	t.Setenv("CHEMREG_REGISTRY_COURTESY_DELAY", "150ms")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 150*time.Millisecond, cfg.Registry.CourtesyDelay)
	assert.Equal(t, DefaultBatchWorkers, cfg.Batch.Workers)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}

func TestMustLoad_EmptyPathUsesEnv(t *testing.T) {
	cfg := MustLoad("")
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
}
