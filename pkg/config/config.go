package config

import (
	"encoding/json"
	"time"
)

// Config is the complete fieldnet client configuration.
type Config struct {
	API     APIConfig     `koanf:"api"     validate:"required"`
	Cache   CacheConfig   `koanf:"cache"   validate:"required"`
	Redis   RedisConfig   `koanf:"redis"`
	Runtime RuntimeConfig `koanf:"runtime" validate:"required"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	BaseURL    string          `koanf:"base_url"    validate:"required,url"  env:"FIELDNET_API_BASE_URL"`
	Token      SensitiveString `koanf:"token"                                env:"FIELDNET_API_TOKEN"       sensitive:"true"`
	Timeout    time.Duration   `koanf:"timeout"     validate:"gt=0"          env:"FIELDNET_API_TIMEOUT"`
	RetryCount int             `koanf:"retry_count" validate:"gte=0,lte=10"  env:"FIELDNET_API_RETRY_COUNT"`
	RateLimit  float64         `koanf:"rate_limit"  validate:"gte=0"         env:"FIELDNET_API_RATE_LIMIT"`
	RateBurst  int             `koanf:"rate_burst"  validate:"gte=0"         env:"FIELDNET_API_RATE_BURST"`
}

// CacheConfig controls the in-process query cache.
type CacheConfig struct {
	Size int           `koanf:"size" validate:"gt=0" env:"FIELDNET_CACHE_SIZE"`
	TTL  time.Duration `koanf:"ttl"  validate:"gte=0" env:"FIELDNET_CACHE_TTL"`
	// Resolution selects which of two overlapping fetches for one key is kept:
	// "issued" keeps the fetch issued after the latest invalidation,
	// "resolved" keeps whichever completes last.
	Resolution string `koanf:"resolution" validate:"oneof=issued resolved" env:"FIELDNET_CACHE_RESOLUTION"`
}

// RedisConfig enables cross-process cache invalidation over Redis pub/sub.
type RedisConfig struct {
	Enabled       bool            `koanf:"enabled"        env:"FIELDNET_REDIS_ENABLED"`
	URL           string          `koanf:"url"            env:"FIELDNET_REDIS_URL"`
	Password      SensitiveString `koanf:"password"       env:"FIELDNET_REDIS_PASSWORD"       sensitive:"true"`
	Channel       string          `koanf:"channel"        env:"FIELDNET_REDIS_CHANNEL"`
	PingTimeout   time.Duration   `koanf:"ping_timeout"   env:"FIELDNET_REDIS_PING_TIMEOUT"`
	MinBackoff    time.Duration   `koanf:"min_backoff"    env:"FIELDNET_REDIS_MIN_BACKOFF"`
	MaxBackoff    time.Duration   `koanf:"max_backoff"    env:"FIELDNET_REDIS_MAX_BACKOFF"`
	MaxReconnects uint64          `koanf:"max_reconnects" env:"FIELDNET_REDIS_MAX_RECONNECTS"`
}

// RuntimeConfig contains process-level behavior.
type RuntimeConfig struct {
	LogLevel  string `koanf:"log_level"  validate:"oneof=debug info warn error disabled" env:"FIELDNET_LOG_LEVEL"`
	LogJSON   bool   `koanf:"log_json"                                                   env:"FIELDNET_LOG_JSON"`
	LogSource bool   `koanf:"log_source"                                                 env:"FIELDNET_LOG_SOURCE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "http://localhost:8000/api/v2",
			Timeout:    30 * time.Second,
			RetryCount: 0,
			RateLimit:  0,
			RateBurst:  1,
		},
		Cache: CacheConfig{
			Size:       256,
			TTL:        5 * time.Minute,
			Resolution: "issued",
		},
		Redis: RedisConfig{
			Enabled:       false,
			URL:           "redis://localhost:6379/0",
			Channel:       "fieldnet:invalidations",
			PingTimeout:   5 * time.Second,
			MinBackoff:    200 * time.Millisecond,
			MaxBackoff:    30 * time.Second,
			MaxReconnects: 0,
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
	}
}

// SensitiveString hides secrets from logs and serialized output.
type SensitiveString string

const redacted = "[REDACTED]"

func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// Value returns the underlying secret.
func (s SensitiveString) Value() string {
	return string(s)
}

func (s SensitiveString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
