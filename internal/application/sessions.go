package application

import (
	"sync"
	"time"

	"github.com/olivia-0916/storybot/internal/domain"
	"github.com/olivia-0916/storybot/internal/ports"
)

// defaultIdleTTL is how long an untouched session stays cached before it is
// evicted. Evicted sessions rebuild from the snapshot repository on the next
// message.
const defaultIdleTTL = 6 * time.Hour

type sessionEntry struct {
	mu       sync.Mutex
	session  *domain.Session
	lastSeen time.Time
}

func (e *sessionEntry) release() {
	e.mu.Unlock()
}

// sessionCache holds the in-memory sessions keyed by user. acquire hands out
// the entry with its per-user mutex already held, so concurrent utterances
// from one user serialize instead of racing on the card map. Idle entries are
// swept opportunistically on every acquire.
type sessionCache struct {
	mu      sync.Mutex
	entries map[domain.SessionKey]*sessionEntry
	clock   ports.Clock
	idleTTL time.Duration
}

func newSessionCache(clock ports.Clock) *sessionCache {
	return &sessionCache{
		entries: make(map[domain.SessionKey]*sessionEntry),
		clock:   clock,
		idleTTL: defaultIdleTTL,
	}
}

// acquire returns the entry for key with its mutex held, creating it if
// needed. The second return reports whether the session is new to the cache.
func (c *sessionCache) acquire(key domain.SessionKey) (*sessionEntry, bool) {
	c.mu.Lock()
	now := c.clock.Now()
	c.sweep(now)

	entry, ok := c.entries[key]
	if !ok {
		entry = &sessionEntry{session: domain.NewSession(key)}
		c.entries[key] = entry
	}
	entry.lastSeen = now
	c.mu.Unlock()

	entry.mu.Lock()
	return entry, !ok
}

// sweep drops idle entries. Caller holds c.mu.
func (c *sessionCache) sweep(now time.Time) {
	for key, entry := range c.entries {
		if now.Sub(entry.lastSeen) > c.idleTTL {
			delete(c.entries, key)
		}
	}
}
