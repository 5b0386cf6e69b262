package cache

import (
	"sync"
	"time"
)

// Expiring is a single-value cache with a TTL. The zero TTL means
// entries never expire until invalidated.
type Expiring[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	populated bool
	value     T
	expiresAt time.Time
}

// NewExpiring creates an empty cache whose entries live for ttl.
func NewExpiring[T any](ttl time.Duration) *Expiring[T] {
	return &Expiring[T]{
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached value and whether it is still fresh.
func (c *Expiring[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.populated {
		var zero T
		return zero, false
	}
	if c.ttl > 0 && c.now().After(c.expiresAt) {
		c.populated = false
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set stores a value and restarts its TTL.
func (c *Expiring[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.populated = true
	c.value = value
	if c.ttl > 0 {
		c.expiresAt = c.now().Add(c.ttl)
	}
}

// Invalidate drops the cached value.
func (c *Expiring[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.populated = false
	var zero T
	c.value = zero
}
