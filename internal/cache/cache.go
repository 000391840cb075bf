// Package cache memoizes full analysis results keyed by normalized
// (text, language-set, mode) triples. The store is a bounded LRU with TTL
// expiry; a single-flight group guarantees at most one in-flight
// computation per key under concurrent load.
package cache

import (
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/codeboard-app/codeswitch/internal/langcodes"
	"github.com/codeboard-app/codeswitch/internal/pipeline"
)

// Defaults matching the bridge service this replaces.
const (
	DefaultMaxSize = 1000
	DefaultTTL     = 60 * time.Minute
)

// topEntriesLimit bounds the ranked entry list in Stats.
const topEntriesLimit = 10

// entry is a cached result with its bookkeeping. Entries are owned
// exclusively by the cache; the contained result is shared read-only.
type entry struct {
	result      *pipeline.AnalysisResult
	createdAt   time.Time
	accessCount atomic.Int64
}

// Cache is the shared analysis result cache. Safe for concurrent use.
// Eviction policy: least-recently-used once maxSize is exceeded; entries
// older than the TTL are treated as absent. Both are part of the public
// contract.
type Cache struct {
	lru     *expirable.LRU[string, *entry]
	group   singleflight.Group
	maxSize int
	ttl     time.Duration
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// New creates a cache bounded to maxSize entries with the given TTL.
// Non-positive arguments fall back to the defaults.
func New(maxSize int, ttl time.Duration) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{maxSize: maxSize, ttl: ttl}
	c.lru = expirable.NewLRU[string, *entry](maxSize, func(string, *entry) {
		evictionsTotal.Inc()
	}, ttl)
	return c
}

// Key derives the cache key. Text is trimmed and lowercased (lookups are
// case-insensitive by documented choice); languages are normalized to
// sorted lowercase ISO codes so declared-language order cannot split
// entries.
func Key(text string, languages []string, mode string) string {
	norm := strings.ToLower(strings.TrimSpace(text))
	langs := strings.Join(langcodes.NormalizeList(languages), ",")
	return norm + "|" + langs + "|" + mode
}

// Get returns the cached result for the key, or nil on miss. Expired
// entries count as misses.
func (c *Cache) Get(text string, languages []string, mode string) *pipeline.AnalysisResult {
	ent, ok := c.lru.Get(Key(text, languages, mode))
	if !ok {
		c.misses.Add(1)
		missesTotal.Inc()
		return nil
	}
	ent.accessCount.Add(1)
	c.hits.Add(1)
	hitsTotal.Inc()
	return ent.result
}

// Set stores a result under the derived key, replacing any expired or
// stale entry. Inserting beyond capacity evicts the least-recently-used
// entry.
func (c *Cache) Set(text string, languages []string, mode string, result *pipeline.AnalysisResult) {
	c.lru.Add(Key(text, languages, mode), &entry{
		result:    result,
		createdAt: time.Now(),
	})
}

// GetOrCompute returns the cached result when present; otherwise it runs
// compute exactly once per key regardless of how many callers arrive
// concurrently, stores the result, and shares it with all waiters. The
// returned flag reports whether this caller was served from cache (or from
// another caller's in-flight computation).
func (c *Cache) GetOrCompute(text string, languages []string, mode string,
	compute func() (*pipeline.AnalysisResult, error),
) (*pipeline.AnalysisResult, bool, error) {
	if res := c.Get(text, languages, mode); res != nil {
		return res, true, nil
	}

	key := Key(text, languages, mode)
	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		res, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(text, languages, mode, res)
		return res, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*pipeline.AnalysisResult), shared, nil
}

// Clear removes all entries. Cumulative hit/miss counters are kept so the
// observed hit rate stays meaningful across administrative clears.
func (c *Cache) Clear() {
	c.lru.Purge()
}

// Stats is a point-in-time snapshot of cache state and cumulative
// performance.
type Stats struct {
	Size       int          `json:"size"`
	MaxSize    int          `json:"maxSize"`
	TTLMinutes float64      `json:"ttlMinutes"`
	Hits       uint64       `json:"hits"`
	Misses     uint64       `json:"misses"`
	HitRate    float64      `json:"hitRate"`
	TopEntries []EntryStats `json:"topEntries"`
}

// EntryStats describes one cached entry for observability.
type EntryStats struct {
	Key         string  `json:"key"`
	AccessCount int64   `json:"accessCount"`
	AgeSeconds  float64 `json:"ageSeconds"`
}

// GetStats returns current size, configuration, cumulative hit rate, and
// the entries ranked by access count.
func (c *Cache) GetStats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	stats := Stats{
		Size:       c.lru.Len(),
		MaxSize:    c.maxSize,
		TTLMinutes: c.ttl.Minutes(),
		Hits:       hits,
		Misses:     misses,
	}
	if total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}

	now := time.Now()
	for _, key := range c.lru.Keys() {
		ent, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		stats.TopEntries = append(stats.TopEntries, EntryStats{
			Key:         key,
			AccessCount: ent.accessCount.Load(),
			AgeSeconds:  now.Sub(ent.createdAt).Seconds(),
		})
	}
	sort.Slice(stats.TopEntries, func(i, j int) bool {
		return stats.TopEntries[i].AccessCount > stats.TopEntries[j].AccessCount
	})
	if len(stats.TopEntries) > topEntriesLimit {
		stats.TopEntries = stats.TopEntries[:topEntriesLimit]
	}
	return stats
}
