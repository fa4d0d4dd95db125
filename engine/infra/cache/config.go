package cache

import (
	"fmt"
	"time"

	"github.com/fieldnet/fieldnet/pkg/config"
)

// Resolution decides which of two overlapping fetches for one key is stored.
type Resolution string

const (
	// ResolutionIssued stores a result only when no invalidation happened
	// after its fetch was issued.
	ResolutionIssued Resolution = "issued"
	// ResolutionResolved stores whichever fetch completes last.
	ResolutionResolved Resolution = "resolved"
)

// Config holds the in-process cache settings.
type Config struct {
	Size       int
	TTL        time.Duration
	Resolution Resolution
}

// FromAppConfig creates a cache Config from the application configuration.
func FromAppConfig(appConfig *config.Config) Config {
	return Config{
		Size:       appConfig.Cache.Size,
		TTL:        appConfig.Cache.TTL,
		Resolution: Resolution(appConfig.Cache.Resolution),
	}
}

func (c Config) validate() error {
	switch c.Resolution {
	case "", ResolutionIssued, ResolutionResolved:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownResolution, c.Resolution)
	}
	if c.Size < 0 {
		return fmt.Errorf("cache size must not be negative, got %d", c.Size)
	}
	return nil
}
