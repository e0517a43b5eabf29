// Package service provides caching for seeded simulation results.
package service

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/challenge-blueprint/internal/metrics"
	"github.com/yourusername/challenge-blueprint/internal/models"
)

// CacheKey identifies a seeded simulation request. Unseeded requests are never cached.
type CacheKey struct {
	Profile models.TraderProfile
	Style   models.RiskStyle
	Trials  int
	Seed    int64
}

// NewCacheKey builds the key for req.
func NewCacheKey(req models.SimulationRequest) CacheKey {
	return CacheKey{Profile: req.Profile, Style: req.Style, Trials: req.Trials, Seed: req.Seed}
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	p := k.Profile
	return fmt.Sprintf("%s:%d:%d:%g:%g:%d:%g:%g:%g:%d:%t",
		k.Style, k.Trials, k.Seed,
		p.AccountSize, p.ProfitTarget, p.PassDays, p.WinRate, p.RiskRewardRatio, p.RiskPerTrade, p.TradesPerDay, p.IsAccelerated)
}

// ResultCache provides in-memory caching for seeded simulation results
type ResultCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a new result cache
func NewResultCache(ttl time.Duration, maxSize int) *ResultCache {
	return &ResultCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached result
func (rc *ResultCache) Get(key CacheKey) (models.SimulationResult, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if item, found := rc.cache.Get(key.String()); found {
		if res, ok := item.(models.SimulationResult); ok {
			rc.hitCount++
			metrics.RecordCacheLookup(true)
			return res, true
		}
	}

	rc.missCount++
	metrics.RecordCacheLookup(false)
	return models.SimulationResult{}, false
}

// Set stores a result. When the cache is full, expired entries are dropped
// first; if it is still full the new result is not stored.
func (rc *ResultCache) Set(key CacheKey, result models.SimulationResult) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.maxSize > 0 && rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
		if rc.cache.ItemCount() >= rc.maxSize {
			return
		}
	}

	rc.cache.Set(key.String(), result, rc.ttl)
}

// Clear flushes the entire cache
func (rc *ResultCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns cache statistics
func (rc *ResultCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	hits = rc.hitCount
	misses = rc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (rc *ResultCache) ItemCount() int {
	return rc.cache.ItemCount()
}
