package config

import (
	"encoding/json"
	"os"

	"github.com/kofany/sshm.io/internal/flagx"
	"github.com/kofany/sshm.io/internal/timex"
)

// JsonConfig is the JSON-file shape of the server configuration. It uses
// timex.Duration for interval fields, which parses both string values such
// as "30m" and integer nanoseconds. After unmarshalling, non-zero fields are
// copied into the runtime Config.
type JsonConfig struct {
	Addr              string         `json:"address"`
	DatabaseDSN       string         `json:"database_dsn"`
	SecretKey         string         `json:"secret_key"`
	SessionTimeout    timex.Duration `json:"session_timeout"`
	RateLimitAttempts int            `json:"rate_limit_attempts"`
	RateLimitWindow   timex.Duration `json:"rate_limit_window"`
	AllowedOrigins    []string       `json:"allowed_origins"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag. When neither flag is set, no file is loaded. Fields absent
// from the file keep their current values. An unreadable or invalid file
// panics: a config file that was asked for but cannot be used is fatal.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionTimeout.Duration != 0 {
		config.SessionTimeout = c.SessionTimeout.Duration
	}
	if c.RateLimitAttempts != 0 {
		config.RateLimitAttempts = c.RateLimitAttempts
	}
	if c.RateLimitWindow.Duration != 0 {
		config.RateLimitWindow = c.RateLimitWindow.Duration
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
}
