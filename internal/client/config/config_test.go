package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"sshm"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "https://api.sshm.io", cfg.ServerURL)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
}

func TestParseEnvOverlay(t *testing.T) {
	t.Setenv("SSHM_SERVER_URL", "http://localhost:8080")
	t.Setenv("SSHM_API_KEY", "env-key")
	t.Setenv("SSHM_SESSION_TIMEOUT", "10m")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, 10*time.Minute, cfg.SessionTimeout)
}

func TestParseJsonOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"server_url": "http://json.example", "session_timeout": "15m"}`), 0o600))
	setArgs(t, "-config", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "http://json.example", cfg.ServerURL)
	assert.Equal(t, 15*time.Minute, cfg.SessionTimeout)
	assert.Empty(t, cfg.APIKey)
}

func TestParseFlags(t *testing.T) {
	setArgs(t, "-s", "http://flags.example", "-k", "flag-key", "-t", "5")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "http://flags.example", cfg.ServerURL)
	assert.Equal(t, "flag-key", cfg.APIKey)
	assert.Equal(t, 5*time.Minute, cfg.SessionTimeout)
}
