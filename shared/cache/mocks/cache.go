package mocks

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"arena/shared/cache"
)

// Cache is an in-memory RedisCache used by service tests. Services touch the cache from
// background goroutines, so it never fails a test on unexpected calls.
type Cache struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewCache() *Cache {
	return &Cache{values: map[string][]byte{}}
}

// Save implements cache.RedisCache.
func (c *Cache) Save(_ context.Context, key string, value any, _ int) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = raw

	return nil
}

// Get implements cache.RedisCache.
func (c *Cache) Get(_ context.Context, key string, value any) error {
	c.mu.Lock()
	raw, ok := c.values[key]
	c.mu.Unlock()

	if !ok {
		return cache.Nil
	}

	return json.Unmarshal(raw, value)
}

// Delete implements cache.RedisCache.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.values, key)

	return nil
}

// Clear implements cache.RedisCache. Only trailing-asterisk patterns are supported.
func (c *Cache) Clear(_ context.Context, prefix string) error {
	prefix = strings.TrimSuffix(prefix, "*")

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.values {
		if strings.HasPrefix(key, prefix) {
			delete(c.values, key)
		}
	}

	return nil
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.values)
}
