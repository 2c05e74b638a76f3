// Package config loads runtime settings from the environment and map
// profiles from TOML.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/pable/go-lol-positions/internal/riot"
)

// ErrMissingAPIKey is returned by RequireAPIKey when RIOT_API_KEY is unset.
var ErrMissingAPIKey = errors.New("RIOT_API_KEY is not set")

// Config holds settings read from the environment.
type Config struct {
	APIKey      string        `env:"RIOT_API_KEY"`
	Region      string        `env:"LOLPOS_REGION" envDefault:"americas"`
	MatchCount  int           `env:"LOLPOS_MATCH_COUNT" envDefault:"10"`
	QueueType   string        `env:"LOLPOS_QUEUE_TYPE" envDefault:"ranked"`
	Workers     int           `env:"LOLPOS_WORKERS" envDefault:"4"`
	HTTPTimeout time.Duration `env:"LOLPOS_HTTP_TIMEOUT" envDefault:"30s"`
	MapsFile    string        `env:"LOLPOS_MAPS_FILE"`
}

// envFiles are tried in order; the first one found is loaded.
var envFiles = []string{".env", "../.env"}

// LoadDotEnv loads the first .env file found. Existing variables win.
// Returns the path loaded, or "" when none exists.
func LoadDotEnv() string {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	cfg.Region = strings.ToLower(strings.TrimSpace(cfg.Region))
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. The API key is only required by commands
// that call Riot, see RequireAPIKey.
func (c *Config) Validate() error {
	if !riot.ValidRegion(c.Region) {
		return fmt.Errorf("invalid region %q (want one of %s)", c.Region, strings.Join(riot.Regions(), ", "))
	}
	if c.MatchCount < 1 || c.MatchCount > 100 {
		return fmt.Errorf("match count must be 1-100, got %d", c.MatchCount)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.HTTPTimeout < time.Second {
		return fmt.Errorf("http timeout must be at least 1 second")
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey when no key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
