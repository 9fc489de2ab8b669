package cache

import (
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// TTLCache is a bounded key value store with a fixed time to live
// entries expire relative to their write time, a read never refreshes them
// the underlying lru cache is safe for concurrent use, so concurrent
// populate races only cost a duplicate upstream fetch
type TTLCache[V any] struct {
	entries *lru.Cache
	ttl     time.Duration
	now     func() time.Time // replaceable in tests
}

type entry[V any] struct {
	storedAt time.Time
	value    V
}

// New creates a cache holding at most size entries with the given ttl
func New[V any](size int, ttl time.Duration) (*TTLCache[V], error) {
	if size <= 0 {
		return nil, errors.New("cache size must be greater than 0")
	}

	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("creating lru cache: %w", err)
	}

	return &TTLCache[V]{
		entries: entries,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// Get returns the value stored under key
// an entry that lived for at least the ttl is evicted and reported absent
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V

	val, ok := c.entries.Get(key)
	if !ok {
		return zero, false
	}

	stored := val.(entry[V])

	if c.now().Sub(stored.storedAt) >= c.ttl {
		c.entries.Remove(key)
		return zero, false
	}

	return stored.value, true
}

// Set stores value under key, resetting its time to live
func (c *TTLCache[V]) Set(key string, value V) {
	c.entries.Add(key, entry[V]{storedAt: c.now(), value: value})
}

// Len returns the number of entries currently held, expired ones included
func (c *TTLCache[V]) Len() int {
	return c.entries.Len()
}
