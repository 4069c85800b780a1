package cache

import "encoding/json"

// Cache is the port every fetching component reads and writes through.
//
// Values are JSON documents: page markup is stored as a JSON string,
// decoded API responses as the JSON structure itself. Implementations
// compact values on Put, so Get returns the compact form of what was put.
type Cache interface {
	// Get retrieves a value by key.
	// Returns the cached value and true if found, or nil and false if not found.
	// This method is read-only and must not modify cache state.
	Get(key string) (json.RawMessage, bool)

	// Put stores a key-value pair. If the key already exists, the value is
	// overwritten.
	Put(key string, value json.RawMessage) error
}
