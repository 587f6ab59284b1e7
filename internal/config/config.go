package config

import (
	"os"
)

const defaultDatabasePath = "gold_vault.db"

// Config holds process configuration.
type Config struct {
	DatabasePath string
}

// Load reads configuration from the environment, falling back to defaults
// suitable for a local run.
func Load() *Config {
	path := os.Getenv("GOLDVAULT_DB")
	if path == "" {
		path = defaultDatabasePath
	}

	return &Config{
		DatabasePath: path,
	}
}
