package result

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Cache memoizes Results with a TTL. Keys are serialized to JSON so any
// comparable-by-value key shape works (structs, slices of parameters).
// Entries are evicted lazily: an expired entry is removed on the next lookup
// that misses it, never proactively.
type Cache[K any, T any] struct {
	mu      sync.Mutex
	entries map[string]cacheEntry[T]
	ttl     time.Duration
}

type cacheEntry[T any] struct {
	result   Result[T]
	storedAt time.Time
}

// NewCache builds a Cache with the given TTL. A non-positive TTL falls back
// to five minutes.
func NewCache[K any, T any](ttl time.Duration) *Cache[K, T] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache[K, T]{
		entries: make(map[string]cacheEntry[T]),
		ttl:     ttl,
	}
}

func (c *Cache[K, T]) key(key K) string {
	b, err := json.Marshal(key)
	if err != nil {
		return fmt.Sprintf("%v", key)
	}
	return string(b)
}

// Get returns the cached Result for key, or ok=false when absent or expired.
func (c *Cache[K, T]) Get(key K) (Result[T], bool) {
	ck := c.key(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[ck]
	if !found || time.Since(entry.storedAt) > c.ttl {
		delete(c.entries, ck)
		var zero Result[T]
		return zero, false
	}
	return entry.result, true
}

// Set stores a Result under key, resetting its TTL.
func (c *Cache[K, T]) Set(key K, r Result[T]) {
	ck := c.key(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[ck] = cacheEntry[T]{result: r, storedAt: time.Now()}
}

// Clear drops every entry.
func (c *Cache[K, T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[T])
}

// GetOrCompute returns the cached Result when fresh, otherwise runs compute,
// stores its outcome (success or failure) and returns it.
func (c *Cache[K, T]) GetOrCompute(ctx context.Context, key K, compute Operation[T]) Result[T] {
	if cached, ok := c.Get(key); ok {
		return cached
	}

	r := compute(ctx)
	c.Set(key, r)
	return r
}
