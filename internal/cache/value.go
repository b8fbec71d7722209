// Package cache provides the time-bounded caches the pipeline and the
// HTTP layer sit behind. Invalidation is explicit or TTL-based, never
// content-based.
package cache

import (
	"sync"
	"time"
)

// Value is a single-slot TTL cache: the dataset cache is keyed on "no
// arguments", so one slot is the whole keyspace.
type Value[T any] struct {
	mu        sync.Mutex
	data      T
	loadedAt  time.Time
	expiresAt time.Time
	ttl       time.Duration
}

// NewValue builds a Value cache with the given TTL.
func NewValue[T any](ttl time.Duration) *Value[T] {
	return &Value[T]{ttl: ttl}
}

// Get returns the cached value and true while it is fresh. An expired
// slot is cleared on the way out so the stale value can be collected.
func (v *Value[T]) Get() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var zero T
	if v.expiresAt.IsZero() {
		return zero, false
	}
	if time.Now().After(v.expiresAt) {
		v.data = zero
		v.expiresAt = time.Time{}
		return zero, false
	}
	return v.data, true
}

// Set stores a value and restarts the TTL clock.
func (v *Value[T]) Set(data T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	v.data = data
	v.loadedAt = now
	v.expiresAt = now.Add(v.ttl)
}

// Invalidate expires the slot immediately.
func (v *Value[T]) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()

	var zero T
	v.data = zero
	v.expiresAt = time.Time{}
}

// LoadedAt reports when the current value was stored, zero when empty.
func (v *Value[T]) LoadedAt() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadedAt
}

// CleanExpired drops an expired value, reporting how many slots were
// cleared (0 or 1).
func (v *Value[T]) CleanExpired() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.expiresAt.IsZero() || time.Now().Before(v.expiresAt) {
		return 0
	}
	var zero T
	v.data = zero
	v.expiresAt = time.Time{}
	return 1
}
