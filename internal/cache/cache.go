// Package cache holds the last aggregated article batch per category.
package cache

import (
	"sync"
	"time"

	"github.com/habari-news/habari/internal/domain"
)

// DefaultTTL is how long an aggregated batch is considered fresh.
const DefaultTTL = 15 * time.Minute

// Entry is one cached batch together with the time it was produced.
type Entry struct {
	Articles   []domain.Article
	ProducedAt time.Time
}

// Age returns how long ago the entry was produced.
func (e Entry) Age() time.Duration {
	return time.Since(e.ProducedAt)
}

// BatchCache is a TTL cache of aggregated batches keyed by category.
// Stale entries are kept so callers can fall back to them when live
// aggregation fails entirely.
type BatchCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]Entry

	// now is swappable for tests.
	now func() time.Time
}

func New(ttl time.Duration) *BatchCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &BatchCache{
		ttl:     ttl,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Key maps a requested category to its cache key, collapsing the empty
// category onto the "all" sentinel.
func Key(category string) string {
	if category == "" {
		return domain.CategoryAll
	}
	return category
}

// Get returns the entry for a key whether fresh or stale.
func (c *BatchCache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	return entry, ok
}

// GetFresh returns the batch for a key only while it is within the TTL.
func (c *BatchCache) GetFresh(key string) ([]domain.Article, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.ProducedAt) >= c.ttl {
		return nil, false
	}
	return entry.Articles, true
}

// Put replaces the entry for a key. The write is atomic per key: readers
// see either the previous batch or the complete new one.
func (c *BatchCache) Put(key string, articles []domain.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Articles:   articles,
		ProducedAt: c.now(),
	}
}
