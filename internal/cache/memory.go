package cache

import (
	"encoding/json"
	"sort"
	"sync"
)

// MemoryCache is an in-memory implementation of the Cache interface.
// Store uses it as the mirror of the on-disk document; on its own it lives
// only for the duration of the process.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemoryCache creates a new in-memory cache instance.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]json.RawMessage),
	}
}

// newMemoryCacheFrom adopts entries loaded from a document.
func newMemoryCacheFrom(entries map[string]json.RawMessage) *MemoryCache {
	if entries == nil {
		entries = make(map[string]json.RawMessage)
	}
	return &MemoryCache{
		data: entries,
	}
}

// Get retrieves a value from the cache by key.
// Returns the cached value and true if the key exists,
// or nil and false if the key is not found.
func (c *MemoryCache) Get(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, exists := c.data[key]
	return value, exists
}

// Put stores a key-value pair in the cache.
// If the key already exists, the value is overwritten.
// The value must be valid JSON; it is stored compacted.
func (c *MemoryCache) Put(key string, value json.RawMessage) error {
	compacted, err := compactValue(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = compacted
	return nil
}

// Delete removes key from the cache. Deleting an absent key is a no-op.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]json.RawMessage)
}

// Size returns the number of entries in the cache.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}

// Keys returns every key in lexical order.
func (c *MemoryCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of all entries.
func (c *MemoryCache) Snapshot() map[string]json.RawMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(map[string]json.RawMessage, len(c.data))
	for k, v := range c.data {
		snapshot[k] = v
	}
	return snapshot
}
