// Package cache memoizes successful API responses for a TTL window so
// repeated reads of the same logical request skip the network entirely.
//
// Entries expire lazily: an expired entry is evicted on the Get that
// observes it. There is no size bound and no LRU; the cache lives for a
// single process session and the working set is small.
package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is used when Set is called with a non-positive ttl and the
// cache was constructed without an explicit default.
const DefaultTTL = 5 * time.Minute

type entry struct {
	data     []byte
	storedAt time.Time
	ttl      time.Duration
}

// Cache is a key → serialized-snapshot map with per-entry TTL.
// Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// New constructs an empty cache. defaultTTL <= 0 falls back to DefaultTTL.
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Set stores a snapshot of data under key, overwriting any existing entry.
// The stored bytes are copied so later mutation of the caller's slice
// cannot corrupt the snapshot. ttl <= 0 uses the cache default.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	snapshot := make([]byte, len(data))
	copy(snapshot, data)

	c.mu.Lock()
	c.entries[key] = entry{data: snapshot, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

// Get returns the stored snapshot for key if it is still live.
// Expired or malformed entries are evicted and reported as a miss;
// a miss is never an error.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > e.ttl {
		delete(c.entries, key)
		return nil, false
	}
	// A snapshot that no longer parses is treated exactly like a miss.
	if !json.Valid(e.data) {
		delete(c.entries, key)
		return nil, false
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, true
}

// Delete removes a single entry. Removing a missing key is a no-op.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// DeletePrefix evicts every entry whose key starts with prefix and
// returns the number of evictions. Used for cache-busting after
// mutations (for example, all keys for one customer).
func (c *Cache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Clear evicts everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports the number of stored entries, including any that have
// expired but have not been observed by a Get yet.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
