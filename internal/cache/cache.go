package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/clinsight/bleedrisk/internal/assessment"
)

// item is one cached assessment with its expiry.
type item struct {
	result    *assessment.Result
	expiresAt time.Time
}

func (i *item) expired() bool {
	return time.Now().After(i.expiresAt)
}

// Cache is a thread-safe TTL cache of assessment results keyed by patient
// record. Identical inputs within the TTL window are served without
// re-scoring; the model is deterministic, so cached results never go stale
// for a fixed bundle. This is in-memory only: predictions are never
// persisted.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*item
	ttl   time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache with the given TTL and starts its cleanup loop.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		items: make(map[string]*item),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Stop terminates the cleanup loop. Idempotent; cached entries remain
// readable afterwards.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Key derives a stable cache key from a patient record.
func Key(rec assessment.PatientRecord) string {
	raw, err := json.Marshal(rec)
	if err != nil {
		// PatientRecord contains only scalars; marshal cannot fail. Fall
		// back to an uncacheable key rather than panic.
		return fmt.Sprintf("nocache-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", md5.Sum(raw))
}

// Get returns the cached result for the key, if present and fresh.
func (c *Cache) Get(key string) (*assessment.Result, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || it.expired() {
		return nil, false
	}
	return it.result, true
}

// Set stores an assessment result under the key.
func (c *Cache) Set(key string, result *assessment.Result) {
	c.mu.Lock()
	c.items[key] = &item{result: result, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Size returns the number of cached entries, expired ones included.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]*item)
	c.mu.Unlock()
}

func (c *Cache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			for key, it := range c.items {
				if it.expired() {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
