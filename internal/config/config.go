// Package config loads the bean settings from the environment.
//
// Settings are read from environment variables, after loading a .env file from
// the current directory when there is one. Command line flags take precedence
// over these values.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/etnz/ledger/internal/logger"
	"github.com/joho/godotenv"
)

// Config represents the bean configuration.
type Config struct {
	Log     logger.Config
	Mapping string   // default importer mapping file
	Plugins []string // plugins enabled on every imported ledger
}

// Load loads configuration from environment variables.
// An explicit envPath must exist, the default .env file is optional.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	defaults := logger.DefaultConfig()
	return &Config{
		Log: logger.Config{
			Level:      getEnvOrDefault("BEAN_LOG_LEVEL", defaults.Level),
			Format:     getEnvOrDefault("BEAN_LOG_FORMAT", defaults.Format),
			TimeFormat: defaults.TimeFormat,
			Output:     getEnvOrDefault("BEAN_LOG_OUTPUT", defaults.Output),
		},
		Mapping: os.Getenv("BEAN_MAPPING"),
		Plugins: splitList(os.Getenv("BEAN_PLUGINS")),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
