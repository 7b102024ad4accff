package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/hay-kot/criterio"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("api.base_url", c.API.BaseURL, validBaseURL),
		criterio.Run("api.timeout", c.API.Timeout, positiveDuration),
		criterio.Run("sync.interval", c.Sync.Interval, positiveDuration),
		criterio.Run("tui.pet_refresh", c.TUI.PetRefresh, positiveDuration),
	)
}

func validBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func positiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be a positive duration")
	}
	return nil
}
