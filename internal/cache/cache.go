package cache

import (
	"encoding/json"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a TTL cache for rendered responses with prefix invalidation. A
// zero TTL disables it: Set is a no-op and every lookup misses.
type Cache struct {
	items *gocache.Cache
	ttl   time.Duration
}

func New(defaultTTL time.Duration) *Cache {
	cleanup := 2 * defaultTTL
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &Cache{
		items: gocache.New(defaultTTL, cleanup),
		ttl:   defaultTTL,
	}
}

func (c *Cache) Enabled() bool { return c != nil && c.ttl > 0 }

// Set stores value under key for the default TTL, or ttl[0] when given.
func (c *Cache) Set(key string, value any, ttl ...time.Duration) {
	if !c.Enabled() {
		return
	}
	d := c.ttl
	if len(ttl) > 0 {
		d = ttl[0]
	}
	c.items.Set(key, value, d)
}

func (c *Cache) GetValue(key string) (any, bool) {
	if !c.Enabled() {
		return nil, false
	}
	return c.items.Get(key)
}

func (c *Cache) Delete(key string) {
	if c.Enabled() {
		c.items.Delete(key)
	}
}

// DeleteByPrefix drops every key starting with prefix.
func (c *Cache) DeleteByPrefix(prefix string) {
	if !c.Enabled() {
		return
	}
	for key := range c.items.Items() {
		if strings.HasPrefix(key, prefix) {
			c.items.Delete(key)
		}
	}
}

func (c *Cache) Clear() {
	if c.Enabled() {
		c.items.Flush()
	}
}

func (c *Cache) Size() int {
	if !c.Enabled() {
		return 0
	}
	return c.items.ItemCount()
}

// Marshal encodes value as JSON, stores the bytes and returns them.
func (c *Cache) Marshal(key string, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	c.Set(key, data)
	return data, nil
}

// Bytes returns what Marshal stored under key.
func (c *Cache) Bytes(key string) ([]byte, bool) {
	v, ok := c.GetValue(key)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}
