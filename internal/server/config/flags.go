package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/kofany/sshm.io/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   session cookie HMAC secret
//	-t int      session timeout, minutes
//	-l int      rate limit: attempts per window
//	-w int      rate limit: window, minutes
//	-o string   comma-separated CORS origins
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-l", "-w", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTimeout := fs.Int("t", int(config.SessionTimeout.Minutes()), "session timeout (in minutes)")
	fs.IntVar(&config.RateLimitAttempts, "l", config.RateLimitAttempts, "rate limit attempts per window")
	rateLimitWindow := fs.Int("w", int(config.RateLimitWindow.Minutes()), "rate limit window (in minutes)")
	origins := fs.String("o", strings.Join(config.AllowedOrigins, ","), "allowed CORS origins, comma-separated")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTimeout = time.Duration(*sessionTimeout) * time.Minute
	config.RateLimitWindow = time.Duration(*rateLimitWindow) * time.Minute
	config.AllowedOrigins = splitOrigins(*origins)
}
