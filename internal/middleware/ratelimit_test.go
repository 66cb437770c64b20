package middleware

import (
	"testing"

	"github.com/rina-librarian-go/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(enabled bool, rpm, burst int) RateLimiter {
	cfg := &config.Config{}
	cfg.RateLimit.Enabled = enabled
	cfg.RateLimit.RequestsPerMinute = rpm
	cfg.RateLimit.Burst = burst

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewRateLimiter(cfg, logger)
}

func TestRateLimiterBurstThenRejects(t *testing.T) {
	rl := newTestLimiter(true, 1, 2)

	assert.True(t, rl.Allow(1))
	assert.True(t, rl.Allow(1))
	assert.False(t, rl.Allow(1))

	// Other users have their own budget
	assert.True(t, rl.Allow(2))
}

func TestRateLimiterReset(t *testing.T) {
	rl := newTestLimiter(true, 1, 1)

	assert.True(t, rl.Allow(1))
	assert.False(t, rl.Allow(1))

	rl.Reset(1)
	assert.True(t, rl.Allow(1))
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := newTestLimiter(false, 1, 1)

	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow(1))
	}
}
