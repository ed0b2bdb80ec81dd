package catalog

import (
	"sync"
	"time"
)

// Reference lookups cache for ten minutes; the units-for-indicators
// resolver changes per interaction and keeps a shorter interval.
const (
	refTTL   = 10 * time.Minute
	unitsTTL = 2 * time.Minute
)

// ttlCache is a keyed cache with per-entry expiry. Reads take the read
// lock and return the stored value as-is; callers hand out copies.
// Concurrent misses both recompute and both write, which is fine: the
// data is reference data and at-least-once refresh is the contract.
type ttlCache[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]ttlEntry[T]
}

type ttlEntry[T any] struct {
	value   T
	expires time.Time
}

func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	return &ttlCache[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]ttlEntry[T]),
	}
}

func (c *ttlCache[T]) get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (c *ttlCache[T]) put(key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = ttlEntry[T]{value: v, expires: c.now().Add(c.ttl)}
}
