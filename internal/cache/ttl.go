// Package cache provides a small thread-safe TTL key/value cache shared by
// the raw-fetch and enrichment paths.
package cache

import (
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// TTL is a mutex-guarded expiring cache. Expired entries are dropped lazily
// on read; there is no background sweeper. Safe for concurrent use. Duplicate
// in-flight fills for the same key are acceptable (no single-flight).
type TTL[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	clock   clockwork.Clock
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// New creates an empty cache using the real clock.
func New[V any]() *TTL[V] {
	return NewWithClock[V](clockwork.NewRealClock())
}

// NewWithClock creates an empty cache with an injected time source, so tests
// can advance expiry deterministically.
func NewWithClock[V any](clock clockwork.Clock) *TTL[V] {
	return &TTL[V]{
		entries: make(map[string]entry[V]),
		clock:   clock,
	}
}

// Get returns the cached value when present and unexpired.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.clock.Now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores a value for the given lifetime. A non-positive ttl stores
// nothing, so callers can disable caching by configuration.
func (c *TTL[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.clock.Now().Add(ttl)}
}

// Len reports the number of entries, including any not yet lazily expired.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Key builds a stable cache key from an endpoint and its query parameters,
// with parameter names sorted so equivalent requests collide.
func Key(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(endpoint)
	for _, name := range names {
		for _, value := range params[name] {
			b.WriteByte('?')
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(value)
		}
	}
	return b.String()
}
