// Package config handles configuration loading and validation for tchi.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	API  APIConfig  `yaml:"api"`
	Sync SyncConfig `yaml:"sync"`
	TUI  TUIConfig  `yaml:"tui"`
}

// APIConfig describes how to reach the remote Motivatchi API.
type APIConfig struct {
	// BaseURL is the API origin, e.g. http://localhost:8000.
	BaseURL string `yaml:"base_url"`
	// SessionCookie is the value of the server session cookie. The server
	// determines task ownership from it; tchi never handles tokens.
	SessionCookie string `yaml:"session_cookie"`
	// CookieName defaults to the Django session cookie name.
	CookieName string `yaml:"cookie_name"`
	// Timeout bounds each request round trip.
	Timeout time.Duration `yaml:"timeout"`
}

// SyncConfig controls the background reconciliation loop.
type SyncConfig struct {
	// Interval between reconciliation ticks.
	Interval time.Duration `yaml:"interval"`
}

// TUIConfig holds presentation settings.
type TUIConfig struct {
	// PetRefresh is the cadence of the pet-health display poll.
	PetRefresh time.Duration `yaml:"pet_refresh"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:    "http://localhost:8000",
			CookieName: "sessionid",
			Timeout:    10 * time.Second,
		},
		Sync: SyncConfig{
			Interval: 5 * time.Second,
		},
		TUI: TUIConfig{
			PetRefresh: 10 * time.Second,
		},
	}
}

// Load reads configuration from the given path. A missing file is not an
// error; defaults are returned unchanged.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
