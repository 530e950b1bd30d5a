package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8080
rateLimit:
  backend: redis
  failOpen: true
  sweepInterval: 10m
  endpoints:
    search:
      window: 30s
      quota: 20
trending:
  refreshInterval: 15m
  snapshotSize: 50
search:
  maxPageSize: 40
  timeout: 2s
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.RateLimit.Backend)
	assert.True(t, cfg.RateLimit.FailOpen)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.SweepInterval.Duration())

	lim := cfg.RateLimit.Limit("search")
	assert.Equal(t, 30*time.Second, lim.Window.Duration())
	assert.Equal(t, uint32(20), lim.Quota)

	assert.Equal(t, 15*time.Minute, cfg.Trending.RefreshInterval.Duration())
	assert.Equal(t, 50, cfg.Trending.SnapshotSize)
	assert.Equal(t, uint32(40), cfg.Search.MaxPageSize)
	assert.Equal(t, 2*time.Second, cfg.Search.Timeout.Duration())
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 0\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3030, cfg.Server.Port)
	assert.Equal(t, "./data", cfg.Storage.Path)
	assert.Equal(t, "sqlite", cfg.RateLimit.Backend)
	assert.False(t, cfg.RateLimit.FailOpen, "the fail policy defaults to closed")
	assert.Equal(t, 2*time.Hour, cfg.Trending.RefreshInterval.Duration())
	assert.Equal(t, 4*time.Hour, cfg.Trending.MaxAge.Duration(), "maxAge defaults to twice the refresh interval")
	assert.Equal(t, 100, cfg.Trending.SnapshotSize)
	assert.Equal(t, uint32(100), cfg.Search.MaxPageSize)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	path := writeConfigFile(t, "search:\n  timeout: soon\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLimit_UnknownEndpointDefault(t *testing.T) {
	cfg := &RateLimitConfig{}
	lim := cfg.Limit("unknown")
	assert.Equal(t, time.Minute, lim.Window.Duration())
	assert.Equal(t, uint32(60), lim.Quota)
}

func TestLoadConfigFromEnv(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 3030\n")

	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("RATE_LIMIT_BACKEND", "redis")
	t.Setenv("RATE_LIMIT_FAIL_OPEN", "true")
	t.Setenv("TRENDING_REFRESH_INTERVAL", "30m")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.RateLimit.Backend)
	assert.True(t, cfg.RateLimit.FailOpen)
	assert.Equal(t, 30*time.Minute, cfg.Trending.RefreshInterval.Duration())
}
