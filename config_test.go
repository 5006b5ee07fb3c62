package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDBEnv(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_USER", "checkout")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "checkout")
	t.Setenv("AWS_USE_SECRETS", "")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setDBEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("SHIPPING_BUFFER_PERCENT", "")
	t.Setenv("QUOTE_CACHE_TTL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 0.15, cfg.BufferPercent)
	assert.Equal(t, 0.10, cfg.RangeSpread)
	assert.Equal(t, 10*time.Minute, cfg.QuoteCacheTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)

	origin := cfg.OriginAddress()
	assert.Equal(t, "IN", origin.Country)
	assert.Equal(t, "Jaipur", origin.City)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setDBEnv(t)
	t.Setenv("SHIPPING_BUFFER_PERCENT", "0.2")
	t.Setenv("QUOTE_CACHE_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 0.2, cfg.BufferPercent)
	assert.Equal(t, 90*time.Second, cfg.QuoteCacheTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestLoadConfig_Invalid(t *testing.T) {
	setDBEnv(t)
	t.Setenv("POSTGRES_PASSWORD", "")
	_, err := LoadConfig()
	assert.Error(t, err)

	setDBEnv(t)
	t.Setenv("SHIPPING_RANGE_SPREAD", "1.5")
	_, err = LoadConfig()
	assert.Error(t, err)
}
