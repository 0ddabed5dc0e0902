package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	val V
	exp time.Time
}

// TTLCache is a small concurrency-safe map whose entries expire after a
// fixed duration. Expired entries are dropped lazily on read.
type TTLCache[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]entry[V]
	ttl  time.Duration
}

func NewTTL[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{data: make(map[K]entry[V]), ttl: ttl}
}

func (c *TTLCache[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	e, ok := c.data[k]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.exp) {
		if ok {
			c.Delete(k)
		}
		var zero V
		return zero, false
	}
	return e.val, true
}

func (c *TTLCache[K, V]) Set(k K, v V) {
	c.mu.Lock()
	c.data[k] = entry[V]{val: v, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *TTLCache[K, V]) Delete(k K) {
	c.mu.Lock()
	delete(c.data, k)
	c.mu.Unlock()
}
