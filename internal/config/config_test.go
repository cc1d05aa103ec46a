package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "./data/bleed_model.json", cfg.Model.BundlePath)

	thresholds := cfg.Risk.Thresholds()
	assert.Equal(t, 0.5, thresholds.Decision)
	assert.Equal(t, 0.3, thresholds.ModerateFloor)
	assert.Equal(t, 0.7, thresholds.HighFloor)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Empty(t, cfg.RateLimit.RedisAddr)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMin)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BLEEDRISK_SERVER_PORT", "9090")
	t.Setenv("BLEEDRISK_RISK_DECISION_THRESHOLD", "0.4")
	t.Setenv("BLEEDRISK_CACHE_ENABLED", "false")
	t.Setenv("BLEEDRISK_RATE_LIMIT_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 0.4, cfg.Risk.Thresholds().Decision)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "localhost:6379", cfg.RateLimit.RedisAddr)
}

func TestLoadRejectsBadThresholds(t *testing.T) {
	t.Setenv("BLEEDRISK_RISK_DECISION_THRESHOLD", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "risk config")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = -1 }},
		{name: "empty bundle path", mutate: func(c *Config) { c.Model.BundlePath = "" }},
		{name: "zero cache ttl while enabled", mutate: func(c *Config) { c.Cache.TTL = 0 }},
		{name: "zero rate while limiting enabled", mutate: func(c *Config) { c.RateLimit.RequestsPerMin = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
