package strmap

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// MapperCache keeps compiled mappers keyed by target type and template, so that
// callers holding only a template string (Format, Parse, Match) do not rescan
// and recompile it on every call.
type MapperCache struct {
	mu        sync.RWMutex
	entries   map[mapperCacheKey]any // *Mapper[T]
	config    MapperCacheConfig
	stats     MapperCacheStats
	evictList []mapperCacheKey // least recently used first
}

type mapperCacheKey struct {
	typ      reflect.Type
	template string
}

// MapperCacheConfig configures the mapper cache behavior.
type MapperCacheConfig struct {
	// MaxEntries is the maximum number of cached mappers. Default: 256.
	MaxEntries int

	// Options are applied to every mapper the cache creates.
	Options []Option

	// Logger receives eviction events. Default: no logging.
	Logger *zap.Logger
}

// MapperCacheStats tracks cache performance metrics.
type MapperCacheStats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	EntryCount int
}

// DefaultMapperCacheConfig returns the default mapper cache configuration.
func DefaultMapperCacheConfig() MapperCacheConfig {
	return MapperCacheConfig{
		MaxEntries: DefaultCacheMaxEntries,
	}
}

// NewMapperCache creates a new mapper cache.
func NewMapperCache(config MapperCacheConfig) *MapperCache {
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &MapperCache{
		entries:   make(map[mapperCacheKey]any),
		config:    config,
		evictList: make([]mapperCacheKey, 0, config.MaxEntries),
	}
}

// CachedMapper returns the cached Mapper for T and template, creating it on a miss.
// Templates that fail to construct are not cached.
func CachedMapper[T any](c *MapperCache, template string) (*Mapper[T], error) {
	key := mapperCacheKey{typ: typeOf[T](), template: template}

	if cached, ok := c.get(key); ok {
		return cached.(*Mapper[T]), nil
	}

	m, err := New[T](template, c.config.Options...)
	if err != nil {
		return nil, err
	}
	return c.put(key, m).(*Mapper[T]), nil
}

func (c *MapperCache) get(key mapperCacheKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.touch(key)
	return entry, true
}

// put stores m unless another goroutine stored the same key first, and returns the stored entry
func (c *MapperCache) put(key mapperCacheKey, m any) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.entries[key]; exists {
		return existing
	}

	if len(c.entries) >= c.config.MaxEntries {
		c.evictOldest()
	}

	c.entries[key] = m
	c.evictList = append(c.evictList, key)
	c.stats.EntryCount = len(c.entries)
	return m
}

// touch moves key to the most recently used end of the eviction list
func (c *MapperCache) touch(key mapperCacheKey) {
	for i, k := range c.evictList {
		if k == key {
			c.evictList = append(c.evictList[:i], c.evictList[i+1:]...)
			c.evictList = append(c.evictList, key)
			return
		}
	}
}

// evictOldest removes the least recently used entry
func (c *MapperCache) evictOldest() {
	if len(c.evictList) == 0 {
		return
	}

	oldestKey := c.evictList[0]
	c.evictList = c.evictList[1:]

	if _, exists := c.entries[oldestKey]; exists {
		delete(c.entries, oldestKey)
		c.stats.Evictions++
		c.config.Logger.Debug(LogMsgCacheEvicted,
			zap.String(LogFieldTemplate, oldestKey.template),
			zap.Stringer(LogFieldType, oldestKey.typ))
	}
}

// InvalidateTemplate removes the cached mappers of every type for template and
// returns how many were removed.
func (c *MapperCache) InvalidateTemplate(template string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	kept := c.evictList[:0]
	for _, key := range c.evictList {
		if key.template == template {
			delete(c.entries, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	c.evictList = kept
	c.stats.EntryCount = len(c.entries)
	return removed
}

// Clear removes all entries from the cache.
func (c *MapperCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[mapperCacheKey]any)
	c.evictList = make([]mapperCacheKey, 0, c.config.MaxEntries)
	c.stats.EntryCount = 0
}

// Len returns the number of cached mappers.
func (c *MapperCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns current cache statistics.
func (c *MapperCache) Stats() MapperCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (c *MapperCache) HitRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total)
}

// defaultCache backs the package-level Format, Parse and Match helpers
var defaultCache = NewMapperCache(DefaultMapperCacheConfig())

// Format renders entity through template.
//
//	s, err := strmap.Format("orders/{ID}/lines/{Line}", line)
func Format[T any](template string, entity T) (string, error) {
	m, err := CachedMapper[T](defaultCache, template)
	if err != nil {
		return "", err
	}
	return m.MapToString(entity)
}

// FormatPartial renders entity through template, truncating at the first absent value.
func FormatPartial[T any](template string, entity T) (string, error) {
	m, err := CachedMapper[T](defaultCache, template)
	if err != nil {
		return "", err
	}
	return m.MapToStringPartial(entity)
}

// Parse parses text into a T through template. It returns false on no match, on a
// malformed value and when template is not valid for T.
func Parse[T any](template, text string) (T, bool) {
	m, err := CachedMapper[T](defaultCache, template)
	if err != nil {
		var zero T
		return zero, false
	}
	return m.MapFromString(text)
}

// Match reports whether text matches template for T.
func Match[T any](template, text string) bool {
	m, err := CachedMapper[T](defaultCache, template)
	if err != nil {
		return false
	}
	return m.IsMatch(text)
}
