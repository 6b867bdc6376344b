// Package cache provides a bounded in-memory LRU cache.
package cache

// Cache defines the basic interface for a generic cache
type Cache[K comparable, V any] interface {
	// Set adds or updates an item in the cache
	Set(key K, value V)
	// Get retrieves an item from the cache
	Get(key K) (V, bool)
	// Del removes an item from the cache
	Del(key K)
	// Len returns the number of items in the cache
	Len() int
	// Clear removes all items from the cache
	Clear()
	// Contains checks if a key exists without affecting recency
	Contains(key K) bool
}

// Stats holds cache hit/miss counters.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Size      int    `json:"size"`
	Capacity  int    `json:"capacity"`
}
