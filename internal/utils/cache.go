package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem pairs a value with its expiry.
type cacheItem[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a bounded LRU whose entries also expire after a fixed age.
type TTLCache[K comparable, V any] struct {
	lru *lru.Cache[K, cacheItem[V]]
	ttl time.Duration
	now func() time.Time
}

func NewTTLCache[K comparable, V any](size int, ttl time.Duration) (*TTLCache[K, V], error) {
	l, err := lru.New[K, cacheItem[V]](size)
	if err != nil {
		return nil, err
	}
	return &TTLCache[K, V]{lru: l, ttl: ttl, now: time.Now}, nil
}

// SetClock replaces time.Now. Tests only.
func (c *TTLCache[K, V]) SetClock(now func() time.Time) {
	c.now = now
}

func (c *TTLCache[K, V]) Set(key K, value V) {
	c.lru.Add(key, cacheItem[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Get returns the value unless it is missing or expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	item, ok := c.lru.Get(key)
	if !ok {
		return zero, false
	}
	if c.now().After(item.expiresAt) {
		c.lru.Remove(key)
		return zero, false
	}
	return item.value, true
}

func (c *TTLCache[K, V]) Delete(key K) {
	c.lru.Remove(key)
}

func (c *TTLCache[K, V]) Len() int {
	return c.lru.Len()
}
