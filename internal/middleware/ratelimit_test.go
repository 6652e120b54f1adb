package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewIPRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("1.2.3.4"))
}

func TestIPRateLimiterIsolatesClients(t *testing.T) {
	rl := NewIPRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1})

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"))
}

func TestIPRateLimiterCleanup(t *testing.T) {
	rl := NewIPRateLimiter(DefaultRateLimiterConfig())

	rl.Allow("1.1.1.1")
	rl.Allow("2.2.2.2")
	assert.Len(t, rl.clients, 2)

	time.Sleep(10 * time.Millisecond)
	rl.Cleanup(time.Millisecond)
	assert.Empty(t, rl.clients)
}
