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
	os.Args = append([]string{"server"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "secretKey", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 5, cfg.RateLimitAttempts)
	assert.Equal(t, 5*time.Minute, cfg.RateLimitWindow)
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestParseEnvOverlay(t *testing.T) {
	t.Setenv("SSHM_ADDRESS", ":9090")
	t.Setenv("SSHM_SECRET_KEY", "env-secret")
	t.Setenv("SSHM_SESSION_TIMEOUT", "45m")
	t.Setenv("SSHM_RATE_LIMIT_ATTEMPTS", "10")
	t.Setenv("SSHM_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 45*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 10, cfg.RateLimitAttempts)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestParseEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("SSHM_SESSION_TIMEOUT", "not-a-duration")
	t.Setenv("SSHM_RATE_LIMIT_ATTEMPTS", "many")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 5, cfg.RateLimitAttempts)
}

func TestParseJsonOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"address": ":7070",
		"secret_key": "json-secret",
		"session_timeout": "20m",
		"rate_limit_window": 60000000000,
		"allowed_origins": ["https://panel.example"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	setArgs(t, "-c", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "json-secret", cfg.SecretKey)
	assert.Equal(t, 20*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, []string{"https://panel.example"}, cfg.AllowedOrigins)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, 5, cfg.RateLimitAttempts)
}

func TestParseJsonMissingFlagLoadsNothing(t *testing.T) {
	setArgs(t)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":8080", cfg.Addr)
}

func TestParseFlags(t *testing.T) {
	setArgs(t, "-a", ":6060", "-d", "postgres://x", "-t", "15", "-l", "3", "-o", "https://one.example,https://two.example")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":6060", cfg.Addr)
	assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 3, cfg.RateLimitAttempts)
	assert.Equal(t, []string{"https://one.example", "https://two.example"}, cfg.AllowedOrigins)
}
