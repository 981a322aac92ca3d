package service

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/race-ev/internal/datasource"
	"github.com/yourusername/race-ev/internal/engine"
	"github.com/yourusername/race-ev/internal/metrics"
)

// fingerprintNamespace scopes name-based event fingerprints
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("race-ev/event-input"))

// Fingerprint derives a stable identifier from an event and its field. Identical
// inputs always produce the same fingerprint.
func Fingerprint(input datasource.EventInput) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to encode event %s: %w", input.Event.ID, err)
	}
	return uuid.NewSHA1(fingerprintNamespace, payload).String(), nil
}

// ResultCache memoizes engine results by event fingerprint
type ResultCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewResultCache creates a result cache. A non-positive maxSize disables the size limit.
func NewResultCache(ttl time.Duration, maxSize int) *ResultCache {
	return &ResultCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached result
func (rc *ResultCache) Get(fingerprint string) (*engine.Result, bool) {
	if v, found := rc.cache.Get(fingerprint); found {
		if result, ok := v.(*engine.Result); ok {
			rc.hitCount.Add(1)
			metrics.RecordCacheLookup(true)
			return result, true
		}
	}

	rc.missCount.Add(1)
	metrics.RecordCacheLookup(false)
	return nil, false
}

// Set stores a result. When the cache is full, expired entries are evicted
// first and the write is dropped if that frees nothing.
func (rc *ResultCache) Set(fingerprint string, result *engine.Result) {
	if rc.maxSize > 0 && rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
		if rc.cache.ItemCount() >= rc.maxSize {
			return
		}
	}
	rc.cache.Set(fingerprint, result, rc.ttl)
}

// Clear flushes the entire cache
func (rc *ResultCache) Clear() {
	rc.cache.Flush()
	rc.hitCount.Store(0)
	rc.missCount.Store(0)
}

// Stats returns cache statistics
func (rc *ResultCache) Stats() (hits, misses uint64, ratio float64) {
	hits = rc.hitCount.Load()
	misses = rc.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return hits, misses, ratio
}

// ItemCount returns the number of items in cache
func (rc *ResultCache) ItemCount() int {
	return rc.cache.ItemCount()
}
