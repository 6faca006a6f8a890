// Package cache holds the deduplicating caches shared by a rendering
// context: a keyed cache that builds each value at most once, and a
// population cache whose values live only while consumers hold leases.
//
// Both caches serialize writers with a lock, but callbacks and factories run
// while that lock is held: they must not call back into the same cache.
package cache

import (
	"errors"
	"sync"
)

// ErrReleased is returned when a keyed cache is used after Release.
var ErrReleased = errors.New("cache: used after release")

// Keyed maps a key to a lazily constructed, shared value. For a given key
// at most one value is constructed during the cache lifetime and values are
// never evicted or replaced. Access is scoped: callers get the value inside
// a callback and must not retain it beyond the call.
type Keyed[K comparable, V any] struct {
	mu       sync.RWMutex
	values   map[K]V
	released bool
}

// NewKeyed returns an empty keyed cache.
func NewKeyed[K comparable, V any]() *Keyed[K, V] {
	return &Keyed[K, V]{values: make(map[K]V)}
}

// GetOrCreate builds the value for key with factory if it is absent and
// then calls fn with it. A factory error is returned unchanged and leaves
// the cache untouched. The value cannot be released while fn runs.
func (c *Keyed[K, V]) GetOrCreate(key K, factory func() (V, error), fn func(V) error) error {
	if err := c.ensure(key, factory); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	if !ok {
		return ErrReleased
	}
	return fn(v)
}

// Modify is GetOrCreate with exclusive access, for values that are updated
// in place on every use.
func (c *Keyed[K, V]) Modify(key K, factory func() (V, error), fn func(V) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, err := c.createLocked(key, factory)
	if err != nil {
		return err
	}
	return fn(v)
}

func (c *Keyed[K, V]) ensure(key K, factory func() (V, error)) error {
	c.mu.RLock()
	_, ok := c.values[key]
	released := c.released
	c.mu.RUnlock()
	if released {
		return ErrReleased
	}
	if ok {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.createLocked(key, factory)
	return err
}

func (c *Keyed[K, V]) createLocked(key K, factory func() (V, error)) (V, error) {
	var zero V
	if c.released {
		return zero, ErrReleased
	}
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	v, err := factory()
	if err != nil {
		return zero, err
	}
	c.values[key] = v
	return v, nil
}

// Contains reports whether a value was constructed for key.
func (c *Keyed[K, V]) Contains(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.values[key]
	return ok
}

// Len returns the number of cached values.
func (c *Keyed[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}

// Release ends the cache lifetime, passing every value to destroy (which
// may be nil). Later calls to GetOrCreate and Modify fail with ErrReleased.
func (c *Keyed[K, V]) Release(destroy func(K, V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if destroy != nil {
		for k, v := range c.values {
			destroy(k, v)
		}
	}
	c.values = make(map[K]V)
	c.released = true
}
