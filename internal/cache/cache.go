// Package cache provides the caller-owned TTL store for finished avatar
// specs. The engine never touches it; the service layer checks it before
// fetching and fills it after synthesis.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long a generated spec stays fresh.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a TTL map keyed by "owner/name:variant". Values are stored as
// marshaled JSON so cached responses are byte-identical to fresh ones.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a Cache. If ttl <= 0, DefaultTTL is used.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key, or ok=false when absent or expired.
// Expired entries are removed on access.
func (c *Cache) Get(key string) (value []byte, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL.
func (c *Cache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Len reports the number of entries, including any not yet evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
