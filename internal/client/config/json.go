package config

import (
	"encoding/json"
	"os"

	"github.com/kofany/sshm.io/internal/flagx"
	"github.com/kofany/sshm.io/internal/timex"
)

// JsonConfig is the JSON-file shape of the CLI configuration.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	APIKey         string         `json:"api_key"`
	SessionTimeout timex.Duration `json:"session_timeout"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c or -config flag. Absent fields keep their current values.
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

	if c.ServerURL != "" {
		config.ServerURL = c.ServerURL
	}
	if c.APIKey != "" {
		config.APIKey = c.APIKey
	}
	if c.SessionTimeout.Duration != 0 {
		config.SessionTimeout = c.SessionTimeout.Duration
	}
}
