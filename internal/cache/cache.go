// Package cache provides a small generic TTL cache. The jobs tracker keeps
// active and recent dataset runs in it.
package cache

import "time"

// Cache is a key-value store with optional per-entry TTL.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	Get(key K) (V, bool)

	// Set stores the value. ttl <= 0 means the entry never expires.
	Set(key K, value V, ttl time.Duration)

	// SetIfAbsent stores the value only when no live entry exists for key and
	// reports whether it did. The check and the write are atomic.
	SetIfAbsent(key K, value V, ttl time.Duration) bool

	Delete(key K)

	Len() int

	// PurgeExpired removes expired entries.
	PurgeExpired()
}
