package api

import (
	"fmt"
	"time"

	"pwcards/internal/cards"
	"pwcards/internal/config"
)

// NewAPIFromConfig creates a cards.API implementation based on the api config type.
func NewAPIFromConfig(cfg config.APIConfig) (cards.API, error) {
	switch cfg.Type {
	case "http", "":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("http api requires base_url to be set")
		}
		timeout := config.DefaultAPITimeout
		if cfg.Timeout != "" {
			d, err := time.ParseDuration(cfg.Timeout)
			if err != nil {
				return nil, fmt.Errorf("parsing api timeout %q: %w", cfg.Timeout, err)
			}
			timeout = d
		}
		return NewHTTPClient(cfg.BaseURL, timeout)
	case "memory":
		return NewMemoryAPI(), nil
	default:
		return nil, fmt.Errorf("unknown api type: %s", cfg.Type)
	}
}
