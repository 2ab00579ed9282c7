package application

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSessionCacheReusesEntries(t *testing.T) {
	t.Parallel()

	clock := &stepClock{now: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)}
	cache := newSessionCache(clock)

	entry, created := cache.acquire("user-1")
	require.True(t, created)
	first := entry.session
	entry.release()

	entry, created = cache.acquire("user-1")
	assert.False(t, created)
	assert.Same(t, first, entry.session)
	entry.release()
}

func TestSessionCacheSweepsIdleEntries(t *testing.T) {
	t.Parallel()

	clock := &stepClock{now: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)}
	cache := newSessionCache(clock)

	entry, _ := cache.acquire("user-1")
	entry.release()

	clock.advance(defaultIdleTTL + time.Minute)

	// Touching another key sweeps the stale one.
	entry, _ = cache.acquire("user-2")
	entry.release()

	entry, created := cache.acquire("user-1")
	assert.True(t, created)
	entry.release()
}

func TestSessionCacheKeepsActiveEntries(t *testing.T) {
	t.Parallel()

	clock := &stepClock{now: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)}
	cache := newSessionCache(clock)

	entry, _ := cache.acquire("user-1")
	first := entry.session
	entry.release()

	clock.advance(defaultIdleTTL - time.Minute)

	entry, created := cache.acquire("user-1")
	assert.False(t, created)
	assert.Same(t, first, entry.session)
	entry.release()
}
