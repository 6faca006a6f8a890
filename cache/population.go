package cache

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrPopulationUnderflow is returned when more consumers are released
	// than were registered.
	ErrPopulationUnderflow = errors.New("cache: population released below zero")
	// ErrLeaseReleased is returned by Ensure on a released lease.
	ErrLeaseReleased = errors.New("cache: lease already released")
	// ErrPopulationClosed is returned by Ensure after Close.
	ErrPopulationClosed = errors.New("cache: population closed")
)

// Population is a set of optional slots shared by one class of consumers.
// Each slot is built lazily on first use. Consumers register by acquiring a
// Lease; when the last lease is released every slot is destroyed and emptied,
// so the next consumer rebuilds them.
type Population[S comparable, V any] struct {
	mu      sync.RWMutex
	slots   map[S]V
	count   int
	closed  bool
	destroy func(S, V)
}

// NewPopulation returns an empty population cache. destroy, which may be
// nil, is called for each populated slot on teardown.
func NewPopulation[S comparable, V any](destroy func(S, V)) *Population[S, V] {
	return &Population[S, V]{
		slots:   make(map[S]V),
		destroy: destroy,
	}
}

// Acquire registers a consumer.
func (p *Population[S, V]) Acquire() *Lease[S, V] {
	p.mu.Lock()
	p.count++
	p.mu.Unlock()
	return &Lease[S, V]{p: p}
}

// Count returns the number of live consumers.
func (p *Population[S, V]) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.count
}

// Populated reports whether slot currently holds a value.
func (p *Population[S, V]) Populated(slot S) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.slots[slot]
	return ok
}

// Len returns the number of populated slots.
func (p *Population[S, V]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.slots)
}

func (p *Population[S, V]) release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.count == 0 {
		return ErrPopulationUnderflow
	}
	p.count--
	if p.count > 0 {
		return nil
	}
	p.clearLocked()
	return nil
}

// Close destroys every slot now, whether or not leases are outstanding.
// Afterwards Ensure fails with ErrPopulationClosed and releasing the
// remaining leases destroys nothing.
func (p *Population[S, V]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.clearLocked()
}

func (p *Population[S, V]) clearLocked() {
	for slot, v := range p.slots {
		if p.destroy != nil {
			p.destroy(slot, v)
		}
		delete(p.slots, slot)
	}
}

// Lease is one consumer's registration. Holding an unreleased lease keeps
// the population above zero, so values returned by Ensure stay valid until
// Release.
type Lease[S comparable, V any] struct {
	p        *Population[S, V]
	released atomic.Bool
}

// Ensure returns the value of slot, building it with build if the slot is
// empty. A build error leaves the slot empty.
func (l *Lease[S, V]) Ensure(slot S, build func() (V, error)) (V, error) {
	var zero V
	if l.released.Load() {
		return zero, ErrLeaseReleased
	}
	p := l.p
	p.mu.RLock()
	v, ok := p.slots[slot]
	p.mu.RUnlock()
	if ok {
		return v, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return zero, ErrPopulationClosed
	}
	if v, ok := p.slots[slot]; ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		return zero, err
	}
	p.slots[slot] = v
	return v, nil
}

// Release unregisters the consumer. It is safe to call more than once; only
// the first call counts.
func (l *Lease[S, V]) Release() {
	if l.released.CompareAndSwap(false, true) {
		_ = l.p.release()
	}
}

// Released reports whether Release was called.
func (l *Lease[S, V]) Released() bool {
	return l.released.Load()
}
