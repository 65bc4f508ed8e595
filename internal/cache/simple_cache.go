package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

func (e entry[V]) live(at time.Time) bool {
	return e.expiresAt.IsZero() || at.Before(e.expiresAt)
}

// SimpleCache is a map guarded by a RWMutex. Expired entries are hidden on
// read and dropped by PurgeExpired or when overwritten.
type SimpleCache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]
}

// NewSimpleCache returns an empty cache.
func NewSimpleCache[K comparable, V any]() *SimpleCache[K, V] {
	return &SimpleCache[K, V]{items: make(map[K]entry[V])}
}

// now is swapped in tests.
var now = time.Now

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now().Add(ttl)
}

func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || !e.live(now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[V]{value: value, expiresAt: expiry(ttl)}
}

func (c *SimpleCache[K, V]) SetIfAbsent(key K, value V, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok && e.live(now()) {
		return false
	}
	c.items[key] = entry[V]{value: value, expiresAt: expiry(ttl)}
	return true
}

func (c *SimpleCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len counts live entries only.
func (c *SimpleCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	at := now()
	n := 0
	for _, e := range c.items {
		if e.live(at) {
			n++
		}
	}
	return n
}

func (c *SimpleCache[K, V]) PurgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	at := now()
	for k, e := range c.items {
		if !e.live(at) {
			delete(c.items, k)
		}
	}
}

var _ Cache[string, int] = (*SimpleCache[string, int])(nil)
