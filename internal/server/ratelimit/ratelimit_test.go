package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow_WithinBurst(t *testing.T) {
	l := NewLimiter(Config{Enabled: true, RequestsPerSecond: 1, BurstSize: 3})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d within burst should pass", i)
	}
	assert.False(t, l.Allow("10.0.0.1"), "request beyond burst should be limited")
}

func TestAllow_ClientsAreIndependent(t *testing.T) {
	l := NewLimiter(Config{Enabled: true, RequestsPerSecond: 1, BurstSize: 1})
	defer l.Stop()

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "a different client has its own bucket")
}

func TestAllow_Disabled(t *testing.T) {
	l := NewLimiter(Config{Enabled: false, RequestsPerSecond: 1, BurstSize: 1})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")
	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, DefaultRequestsPerSecond, cfg.RequestsPerSecond)
	assert.Equal(t, DefaultBurstSize, cfg.BurstSize)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "7")
	cfg = LoadConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
	assert.Equal(t, 7, cfg.BurstSize)

	t.Setenv("RATE_LIMIT_RPS", "-1")
	cfg = LoadConfig()
	assert.Equal(t, DefaultRequestsPerSecond, cfg.RequestsPerSecond)
}
