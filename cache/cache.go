// Package cache implements the TTL result cache used by capability plugins
// to memoize computed results between dispatches.
package cache

import (
	"time"

	"github.com/hupe1980/capkit/core"
	"github.com/hupe1980/capkit/internal/util"
)

// DefaultTTL is applied when Set receives a non-positive ttl.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value     any
	createdAt time.Time
	ttl       time.Duration
}

// expired reports whether the entry is logically absent at now. An entry is
// valid iff now - createdAt <= ttl.
func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// TTLCache is the process-local core.ResultCache implementation. Eviction is
// lazy-on-read plus explicit Sweep only; an entry that is never read nor
// swept stays resident indefinitely. There is deliberately no background
// reaper.
//
// The cache performs no locking of its own: every call must happen under
// the runtime's global lock. It is not safe to use directly outside the
// dispatcher.
type TTLCache struct {
	entries     map[string]*entry
	hits        uint64
	lastCleanup time.Time
}

// NewTTLCache returns an empty TTL cache.
func NewTTLCache() *TTLCache {
	return &TTLCache{entries: make(map[string]*entry)}
}

// Set stores a copy of value under key, overwriting any existing entry and
// stamping the creation time. A ttl <= 0 selects DefaultTTL.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.entries[key] = &entry{value: util.DeepCopy(value), createdAt: time.Now(), ttl: ttl}
}

// Get returns a copy of the cached value and true on a hit, counting the
// hit. An expired entry is deleted and reported as a miss; the miss is
// permanent, a repeated Get stays a miss.
func (c *TTLCache) Get(key string) (any, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(time.Now()) {
		delete(c.entries, key)
		return nil, false
	}
	c.hits++
	return util.DeepCopy(e.value), true
}

// Delete removes an entry if present. Idempotent.
func (c *TTLCache) Delete(key string) {
	delete(c.entries, key)
}

// Sweep scans all entries once, evicts every expired one, updates the
// last-cleanup timestamp and returns the eviction count. A second
// consecutive sweep with no intervening writes evicts 0.
func (c *TTLCache) Sweep() int {
	now := time.Now()
	evicted := 0
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
			evicted++
		}
	}
	c.lastCleanup = now
	return evicted
}

// Len returns the number of physically resident entries, expired or not.
func (c *TTLCache) Len() int { return len(c.entries) }

// Hits returns the total number of hits served.
func (c *TTLCache) Hits() uint64 { return c.hits }

// LastCleanup returns the time of the most recent Sweep (zero if never).
func (c *TTLCache) LastCleanup() time.Time { return c.lastCleanup }

var _ core.ResultCache = (*TTLCache)(nil)
