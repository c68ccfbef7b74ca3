// Package config handles configuration for the sshm CLI: defaults,
// environment overlay (.env aware), optional JSON file and command-line
// flags, applied in that order.
package config

import "time"

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the sync server.
//   - APIKey: long-lived account key; usually written by "login".
//   - SessionTimeout: inactivity lifetime of the in-memory encryption key.
type Config struct {
	ServerURL      string
	APIKey         string
	SessionTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "https://api.sshm.io"
	c.SessionTimeout = 30 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
