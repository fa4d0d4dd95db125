package config

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct tags and cross-field constraints.
func Validate(v *validator.Validate, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme must be http or https, got: %s", u.Scheme)
	}
	if cfg.Redis.Enabled {
		if cfg.Redis.URL == "" {
			return fmt.Errorf("redis.url is required when redis is enabled")
		}
		if cfg.Redis.Channel == "" {
			return fmt.Errorf("redis.channel is required when redis is enabled")
		}
		if cfg.Redis.MaxBackoff > 0 && cfg.Redis.MaxBackoff < cfg.Redis.MinBackoff {
			return fmt.Errorf("redis.max_backoff must not be lower than redis.min_backoff")
		}
	}
	return nil
}
