package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fieldnet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Run("Should load defaults when no sources are provided", func(t *testing.T) {
		cfg, err := NewLoader().Load(t.Context(), "", nil)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8000/api/v2", cfg.API.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.API.Timeout)
		assert.Equal(t, 256, cfg.Cache.Size)
		assert.Equal(t, "issued", cfg.Cache.Resolution)
		assert.False(t, cfg.Redis.Enabled)
	})

	t.Run("Should merge YAML over defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
api:
  base_url: https://api.example.org/api/v2
  timeout: 10s
cache:
  size: 32
  resolution: resolved
`)
		l := NewLoader()
		cfg, err := l.Load(t.Context(), path, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.org/api/v2", cfg.API.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.API.Timeout)
		assert.Equal(t, 32, cfg.Cache.Size)
		assert.Equal(t, "resolved", cfg.Cache.Resolution)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, SourceYAML, l.Source("cache.size"))
		assert.Equal(t, SourceDefault, l.Source("cache.ttl"))
	})

	t.Run("Should let environment override YAML", func(t *testing.T) {
		path := writeConfigFile(t, "cache:\n  size: 32\n")
		t.Setenv("FIELDNET_CACHE_SIZE", "64")
		t.Setenv("FIELDNET_API_TOKEN", "secret-token")
		l := NewLoader()
		cfg, err := l.Load(t.Context(), path, nil)
		require.NoError(t, err)
		assert.Equal(t, 64, cfg.Cache.Size)
		assert.Equal(t, "secret-token", cfg.API.Token.Value())
		assert.Equal(t, SourceEnv, l.Source("cache.size"))
	})

	t.Run("Should apply CLI overrides last", func(t *testing.T) {
		t.Setenv("FIELDNET_API_BASE_URL", "https://env.example.org")
		cfg, err := NewLoader().Load(t.Context(), "", map[string]any{"api.base_url": "https://flag.example.org"})
		require.NoError(t, err)
		assert.Equal(t, "https://flag.example.org", cfg.API.BaseURL)
	})

	t.Run("Should reject an unknown resolution policy", func(t *testing.T) {
		t.Setenv("FIELDNET_CACHE_RESOLUTION", "random")
		_, err := NewLoader().Load(t.Context(), "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation")
	})

	t.Run("Should reject a non-http base URL", func(t *testing.T) {
		_, err := NewLoader().Load(t.Context(), "", map[string]any{"api.base_url": "ftp://example.org"})
		require.Error(t, err)
	})

	t.Run("Should fail on a missing file", func(t *testing.T) {
		_, err := NewLoader().Load(t.Context(), filepath.Join(t.TempDir(), "missing.yaml"), nil)
		require.Error(t, err)
	})
}

func TestSensitiveString(t *testing.T) {
	t.Run("Should redact non-empty values", func(t *testing.T) {
		s := SensitiveString("token-123")
		assert.Equal(t, "[REDACTED]", s.String())
		assert.Equal(t, "token-123", s.Value())
		assert.Equal(t, "", SensitiveString("").String())
	})

	t.Run("Should marshal as redacted string", func(t *testing.T) {
		data, err := json.Marshal(struct {
			Token SensitiveString `json:"token"`
		}{Token: "abc"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"token":"[REDACTED]"}`, string(data))
	})
}

func TestEnvMappings(t *testing.T) {
	t.Run("Should map env vars from struct tags", func(t *testing.T) {
		m := GenerateEnvToConfigMap()
		assert.Equal(t, "api.base_url", m["FIELDNET_API_BASE_URL"])
		assert.Equal(t, "redis.max_reconnects", m["FIELDNET_REDIS_MAX_RECONNECTS"])
		assert.True(t, IsSensitiveConfigPath("api.token"))
		assert.False(t, IsSensitiveConfigPath("api.timeout"))
	})

	t.Run("Should transform unmapped keys into dotted paths", func(t *testing.T) {
		assert.Equal(t, "cache.resolution", transformEnvKey("FIELDNET_CACHE_RESOLUTION"))
		assert.Equal(t, "runtime.log_level", transformEnvKey("FIELDNET_RUNTIME_LOG_LEVEL"))
	})
}
