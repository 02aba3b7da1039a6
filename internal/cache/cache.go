package cache

// EvictCallback is called when an entry is evicted from the cache.
// The Redis provider passes a nil value since fetching it would cost an extra roundtrip.
type EvictCallback func(key string, value []byte)

// Logger receives errors from backends whose operations cannot return them (Get/Set on Redis).
type Logger interface {
	Error(msg string, err error)
}

// Cache is a byte-oriented key-value cache with LRU eviction and per-entry TTL.
// The metadata client stores raw API response bodies in it, keyed by request URL.
type Cache interface {
	// Get retrieves a value by key. Returns the value and true if found, or nil and false if not.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given key, overwriting any previous value.
	Set(key string, value []byte)

	// Delete removes a key. Deleting an absent key is a no-op.
	Delete(key string)

	// Contains checks whether a key exists without affecting LRU ordering.
	Contains(key string) bool

	// Len returns the number of entries currently in the cache.
	Len() int

	// Close releases any resources held by the cache (e.g., network connections).
	Close() error
}
