package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from SSHM_* environment variables. A .env
// file in the working directory is loaded first; real environment variables
// win over it.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("SSHM_SERVER_URL"); ok {
		config.ServerURL = v
	}
	if v, ok := os.LookupEnv("SSHM_API_KEY"); ok {
		config.APIKey = v
	}
	if v, ok := os.LookupEnv("SSHM_SESSION_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionTimeout = d
		}
	}
}
