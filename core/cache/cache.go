package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache is a thread-safe key-value store with optional TTLs and tag-based
// invalidation. Catalog reads cache material rows under the "materials" tag;
// stock summaries are never cached here (they must be recomputed after every
// batch mutation).
type Cache struct {
	m sync.Map
	// tagIndex maps tag string to the set of keys carrying that tag
	tagIndex sync.Map // map[string]*sync.Map
}

var (
	once     sync.Once
	instance *Cache
)

// GetInstance returns the process-wide cache.
func GetInstance() *Cache {
	once.Do(func() {
		instance = NewCache()
	})
	return instance
}

// NewCache creates a new Cache instance.
func NewCache() *Cache {
	return &Cache{}
}

// cacheItem holds a value and its expiration time.
type cacheItem struct {
	Value     interface{}
	ExpiresAt int64 // Unix nanoseconds; 0 means no expiration
}

// Set stores a value for a key with an optional TTL (in seconds) and optional
// tags. A ttl of 0 means the value does not expire.
func (c *Cache) Set(key, value interface{}, ttl int64, tags []string) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(time.Duration(ttl) * time.Second).UnixNano()
	}
	c.m.Store(key, cacheItem{Value: value, ExpiresAt: expiresAt})
	if len(tags) > 0 {
		c.TagKey(key, tags)
	}
}

// Get retrieves a value for a key. Returns (value, true) if found and not
// expired, (nil, false) otherwise. Expired entries are dropped on read.
func (c *Cache) Get(key interface{}) (interface{}, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	item, isItem := v.(cacheItem)
	if !isItem {
		return v, true
	}
	if item.ExpiresAt > 0 && time.Now().UnixNano() > item.ExpiresAt {
		c.Delete(key)
		return nil, false
	}
	return item.Value, true
}

// GetOrDefault retrieves a value for a key, or returns defaultValue when the
// key is missing or expired.
func (c *Cache) GetOrDefault(key, defaultValue interface{}) interface{} {
	if v, ok := c.Get(key); ok {
		return v
	}
	return defaultValue
}

// Delete removes a key from the cache and from every tag set it belongs to.
func (c *Cache) Delete(key interface{}) {
	c.m.Delete(key)
	c.tagIndex.Range(func(_, val interface{}) bool {
		val.(*sync.Map).Delete(key)
		return true
	})
}

// DeleteMany removes multiple keys from the cache.
func (c *Cache) DeleteMany(keys ...interface{}) {
	for _, key := range keys {
		c.Delete(key)
	}
}

func makeCompositeKey(keys ...interface{}) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%v", k)
	}
	return strings.Join(parts, "|")
}

// SetN stores a value under a composite key ("a|b|c").
func (c *Cache) SetN(keys []interface{}, value interface{}, ttl int64, tags []string) {
	c.Set(makeCompositeKey(keys...), value, ttl, tags)
}

// GetN retrieves a value for a composite key.
func (c *Cache) GetN(keys ...interface{}) (interface{}, bool) {
	return c.Get(makeCompositeKey(keys...))
}

// DeleteN removes a composite key.
func (c *Cache) DeleteN(keys ...interface{}) {
	c.Delete(makeCompositeKey(keys...))
}

// TagKey assigns one or more tags to a cache key.
func (c *Cache) TagKey(key interface{}, tags []string) {
	for _, tag := range tags {
		val, _ := c.tagIndex.LoadOrStore(tag, &sync.Map{})
		val.(*sync.Map).Store(key, struct{}{})
	}
}

// GetKeysByTag returns all keys assigned to a tag.
func (c *Cache) GetKeysByTag(tag string) []interface{} {
	var keys []interface{}
	if val, ok := c.tagIndex.Load(tag); ok {
		val.(*sync.Map).Range(func(key, _ interface{}) bool {
			keys = append(keys, key)
			return true
		})
	}
	return keys
}

// DeleteByTag deletes all cache entries assigned to a tag.
func (c *Cache) DeleteByTag(tag string) {
	if val, ok := c.tagIndex.Load(tag); ok {
		val.(*sync.Map).Range(func(key, _ interface{}) bool {
			c.m.Delete(key)
			val.(*sync.Map).Delete(key)
			return true
		})
		c.tagIndex.Delete(tag)
	}
}
