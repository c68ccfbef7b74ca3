package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from SSHM_* environment variables. A .env
// file in the working directory is loaded first; real environment variables
// win over it. Unset variables leave the current value alone.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("SSHM_ADDRESS"); ok {
		config.Addr = v
	}
	if v, ok := os.LookupEnv("SSHM_DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SSHM_SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("SSHM_SESSION_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionTimeout = d
		}
	}
	if v, ok := os.LookupEnv("SSHM_RATE_LIMIT_ATTEMPTS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.RateLimitAttempts = n
		}
	}
	if v, ok := os.LookupEnv("SSHM_RATE_LIMIT_WINDOW"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.RateLimitWindow = d
		}
	}
	if v, ok := os.LookupEnv("SSHM_ALLOWED_ORIGINS"); ok {
		config.AllowedOrigins = splitOrigins(v)
	}
}

func splitOrigins(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
