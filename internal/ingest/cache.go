package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CacheKey identifies a load by file content and name
func CacheKey(data []byte, filename string) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) + ":" + filename
}

// cacheEntry is a memoized load result
type cacheEntry struct {
	result   *LoadResult
	cachedAt time.Time
	expires  time.Time
	hits     int
}

// CacheStats is a snapshot of cache counters
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxSize    int     `json:"max_size"`
	Hits       int64   `json:"hit_count"`
	Misses     int64   `json:"miss_count"`
	HitRatio   float64 `json:"hit_ratio"`
	TTLSeconds float64 `json:"ttl_seconds"`
}

// Cache memoizes successful loads for a bounded time. Failed loads are
// never stored. Concurrent loads of the same key share one computation.
type Cache struct {
	entries  map[string]cacheEntry
	mutex    sync.RWMutex
	ttl      time.Duration
	maxSize  int
	hits     int64
	misses   int64
	group    singleflight.Group
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewCache creates a cache and starts its expiry sweep. A maxSize of zero
// disables storage.
func NewCache(ttl time.Duration, maxSize int) *Cache {
	c := &Cache{
		entries:  make(map[string]cacheEntry),
		ttl:      ttl,
		maxSize:  maxSize,
		stopChan: make(chan struct{}),
	}

	go c.cleanup(sweepInterval(ttl))

	return c
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > 5*time.Minute {
		return 5 * time.Minute
	}
	return ttl
}

// Get returns a live entry
func (c *Cache) Get(key string) (*LoadResult, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expires) {
		c.misses++
		return nil, false
	}

	entry.hits++
	c.entries[key] = entry
	c.hits++

	return entry.result, true
}

// Set stores a result, evicting the oldest entry when full
func (c *Cache) Set(key string, result *LoadResult) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.maxSize <= 0 {
		return
	}

	if _, replacing := c.entries[key]; !replacing && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	now := time.Now()
	c.entries[key] = cacheEntry{
		result:   result,
		cachedAt: now,
		expires:  now.Add(c.ttl),
	}
}

// GetOrLoad returns the cached result for key or runs load once for all
// concurrent callers. cached reports whether the value came from the cache.
func (c *Cache) GetOrLoad(key string, load func() (*LoadResult, error)) (result *LoadResult, cached bool, err error) {
	if r, ok := c.Get(key); ok {
		return r, true, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		r, err := load()
		if err != nil {
			return nil, err
		}
		c.Set(key, r)
		return r, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*LoadResult), false, nil
}

// Invalidate removes an entry
func (c *Cache) Invalidate(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	total := c.hits + c.misses
	ratio := float64(0)
	if total > 0 {
		ratio = float64(c.hits) / float64(total)
	}

	return CacheStats{
		Entries:    len(c.entries),
		MaxSize:    c.maxSize,
		Hits:       c.hits,
		Misses:     c.misses,
		HitRatio:   ratio,
		TTLSeconds: c.ttl.Seconds(),
	}
}

func (c *Cache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.cachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.cachedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Stop ends the expiry sweep. It is safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *Cache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expires) {
					delete(c.entries, key)
				}
			}
			c.mutex.Unlock()
		case <-c.stopChan:
			return
		}
	}
}
