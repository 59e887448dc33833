// Package cache provides a generic in-memory key/value store with TTL expiry.
//
// Each provider owns its own cache instance; there is no process-global state.
// Entries expire lazily: an expired entry is treated as a miss on Get and
// physically removed on the next write or CleanExpired call. The cache is safe
// for concurrent use by independent in-flight requests.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is applied when Set is called with a non-positive ttl.
const DefaultTTL = 300 * time.Second

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a string-keyed TTL store for values of type V.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	now     func() time.Time
}

// New creates an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// NewWithClock creates a cache that reads time from now instead of time.Now.
// Used by tests to simulate expiry without sleeping.
func NewWithClock[V any](now func() time.Time) *Cache[V] {
	c := New[V]()
	c.now = now
	return c
}

// Get returns the value stored under key if it has not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with expiry now+ttl. Last write wins.
// A non-positive ttl falls back to DefaultTTL.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Deferred removal: sweep dead entries on write rather than on read.
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry[V]{value: value, expiresAt: now.Add(ttl)}
}

// CleanExpired removes all expired entries and reports how many were removed.
func (c *Cache[V]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Clear drops every entry, expired or not.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Size returns the number of stored entries, including not-yet-swept
// expired ones.
func (c *Cache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
