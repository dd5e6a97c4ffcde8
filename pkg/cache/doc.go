// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry expiry.
//
// The cache evicts the least recently used item once it holds more than its
// capacity. With WithTTL, entries also expire a fixed time after they were
// written; expired entries are dropped lazily on access.
//
//	c := cache.NewLRUCache[string, []Result](1000, cache.WithTTL(5*time.Minute))
//	c.Put(key, results)
//	if v, ok := c.Get(key); ok {
//	    // use v
//	}
//
// An eviction callback set with SetEvictCallback is invoked for evicted,
// expired, removed and cleared items.
package cache
