package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rina-librarian-go/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestCache(enabled bool) Service {
	cfg := &config.Config{}
	cfg.Cache.Enabled = enabled
	cfg.Cache.TTL = time.Minute
	cfg.Cache.MaxSize = 100

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewCache(cfg, logger)
}

func TestCacheSetAndGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(true)

	_, found := c.Get(ctx, "ce carte imi recomanzi?", "gpt-4o-mini")
	assert.False(t, found)

	err := c.Set(ctx, "ce carte imi recomanzi?", "gpt-4o-mini", "Incearca Dune.")
	assert.NoError(t, err)

	answer, found := c.Get(ctx, "ce carte imi recomanzi?", "gpt-4o-mini")
	assert.True(t, found)
	assert.Equal(t, "Incearca Dune.", answer)
}

func TestCacheKeyFoldsQuestion(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(true)

	assert.NoError(t, c.Set(ctx, "Spune-mi despre Dune", "gpt-4o-mini", "raspuns"))

	answer, found := c.Get(ctx, "  spune-mi despre dune  ", "gpt-4o-mini")
	assert.True(t, found)
	assert.Equal(t, "raspuns", answer)

	// Different model, different entry
	_, found = c.Get(ctx, "Spune-mi despre Dune", "alt-model")
	assert.False(t, found)
}

func TestCacheDisabled(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(false)

	assert.NoError(t, c.Set(ctx, "intrebare", "model", "raspuns"))
	_, found := c.Get(ctx, "intrebare", "model")
	assert.False(t, found)

	assert.NoError(t, c.Clear(ctx))
}

func TestCacheClear(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(true)

	assert.NoError(t, c.Set(ctx, "intrebare", "model", "raspuns"))
	assert.NoError(t, c.Clear(ctx))

	_, found := c.Get(ctx, "intrebare", "model")
	assert.False(t, found)
}
