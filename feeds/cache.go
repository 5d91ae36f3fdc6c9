package feeds

import (
	"sync"
	"time"

	"civfeed/models"
)

// Cache is an explicit TTL cache for trending responses. It is
// constructed once at service startup and passed to the ranker; there
// is no package-level state. Entries expire after the configured TTL
// and are dropped lazily on lookup.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry

	// now is swapped out in tests
	now func() time.Time
}

type cacheEntry struct {
	response *models.TrendingResponse
	storedAt time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached response for key if it is still fresh.
func (c *Cache) Get(key string) (*models.TrendingResponse, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.mu.Lock()
		// Re-check under the write lock, another goroutine may have
		// refreshed the entry in the meantime.
		if entry, ok = c.entries[key]; ok && c.now().Sub(entry.storedAt) > c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.response, true
}

// Put stores a response under key, resetting its TTL.
func (c *Cache) Put(key string, response *models.TrendingResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{response: response, storedAt: c.now()}
}

// Len reports the number of entries currently held, fresh or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
