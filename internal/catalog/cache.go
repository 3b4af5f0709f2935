package catalog

import (
	"strings"
	"sync"
	"time"
)

// searchCache is a TTL cache for normalized search results, bounded by entry
// count with oldest-first eviction. Keys are derived from keyword and ZIP.
//
// Requests are served on concurrent goroutines, so all access is
// mutex-guarded.
type searchCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	order      []string // insertion order, oldest first
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type cacheEntry struct {
	products  []Product
	timestamp time.Time
}

func newSearchCache(ttl time.Duration, maxEntries int, now func() time.Time) *searchCache {
	return &searchCache{
		entries:    make(map[string]cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
	}
}

// cacheKey normalizes the lookup key: lowercased trimmed keyword plus ZIP,
// so "Birthday " and "birthday" share an entry.
func cacheKey(keyword, zip string) string {
	return strings.ToLower(strings.TrimSpace(keyword)) + "|" + zip
}

// get returns the cached products for the key, or false when the entry is
// absent or older than the TTL. Expired entries are removed on read.
func (c *searchCache) get(key string) ([]Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.timestamp) > c.ttl {
		c.remove(key)
		return nil, false
	}
	return entry.products, true
}

// put stores products under the key, evicting the oldest entry when the
// entry cap is exceeded.
func (c *searchCache) put(key string, products []Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{products: products, timestamp: c.now()}

	if len(c.entries) > c.maxEntries {
		c.remove(c.order[0])
	}
}

// len reports the number of live entries.
func (c *searchCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove deletes an entry and its position record. Caller must hold mu.
func (c *searchCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
