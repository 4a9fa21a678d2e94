package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("NODE_ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.ServerPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 100, cfg.RateLimitMaxRequests)
	assert.Equal(t, int64(5*1024*1024), cfg.UploadMaxBytes)
	assert.Empty(t, cfg.JWTSecret, "missing secret must not fail at boot")
	assert.False(t, cfg.IsProduction())
}

func TestLoad_NodeEnvFallback(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("NODE_ENV", "Production")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "7")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 7, cfg.RateLimitMaxRequests)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "forever")

	_, err := Load()

	assert.Error(t, err)
}
