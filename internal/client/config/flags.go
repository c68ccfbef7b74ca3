package config

import (
	"flag"
	"os"
	"time"

	"github.com/kofany/sshm.io/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   server base URL
//	-k string   API key
//	-t int      encryption session timeout, minutes
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-k", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "s", config.ServerURL, "server base URL")
	fs.StringVar(&config.APIKey, "k", config.APIKey, "API key")
	sessionTimeout := fs.Int("t", int(config.SessionTimeout.Minutes()), "session timeout (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTimeout = time.Duration(*sessionTimeout) * time.Minute
}
