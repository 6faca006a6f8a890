package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulationTeardownAfterLastRelease(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		var destroyed []string
		p := NewPopulation[string, *resource](func(slot string, _ *resource) {
			destroyed = append(destroyed, slot)
		})

		leases := make([]*Lease[string, *resource], n)
		for i := range leases {
			leases[i] = p.Acquire()
		}
		for _, slot := range []string{"color+ambient", "texture+ambient"} {
			_, err := leases[0].Ensure(slot, func() (*resource, error) { return &resource{}, nil })
			require.NoError(t, err)
		}
		assert.Equal(t, n, p.Count())

		for i, l := range leases {
			l.Release()
			if i < n-1 {
				assert.Equal(t, 2, p.Len(), "slots must survive while consumers remain")
			}
		}
		assert.Equal(t, 0, p.Count())
		assert.Equal(t, 0, p.Len())
		assert.ElementsMatch(t, []string{"color+ambient", "texture+ambient"}, destroyed)
	}
}

func TestPopulationEnsureBuildsOnce(t *testing.T) {
	p := NewPopulation[string, *resource](nil)
	a, b := p.Acquire(), p.Acquire()
	built := 0
	build := func() (*resource, error) {
		built++
		return &resource{id: built}, nil
	}
	ra, err := a.Ensure("slot", build)
	require.NoError(t, err)
	rb, err := b.Ensure("slot", build)
	require.NoError(t, err)
	assert.Same(t, ra, rb)
	assert.Equal(t, 1, built)
}

func TestPopulationRebuildsAfterTeardown(t *testing.T) {
	p := NewPopulation[string, *resource](nil)
	built := 0
	build := func() (*resource, error) {
		built++
		return &resource{id: built}, nil
	}
	l := p.Acquire()
	first, err := l.Ensure("slot", build)
	require.NoError(t, err)
	l.Release()

	l = p.Acquire()
	second, err := l.Ensure("slot", build)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, built)
}

func TestPopulationDoubleReleaseIsNoop(t *testing.T) {
	p := NewPopulation[string, *resource](nil)
	a := p.Acquire()
	b := p.Acquire()
	a.Release()
	a.Release()
	assert.Equal(t, 1, p.Count())
	assert.True(t, a.Released())
	assert.False(t, b.Released())

	_, err := a.Ensure("slot", func() (*resource, error) { return &resource{}, nil })
	assert.ErrorIs(t, err, ErrLeaseReleased)
}

func TestPopulationRejectsUnderflow(t *testing.T) {
	p := NewPopulation[string, *resource](nil)
	assert.ErrorIs(t, p.release(), ErrPopulationUnderflow)
	assert.Equal(t, 0, p.Count())
}

func TestPopulationBuildErrorLeavesSlotEmpty(t *testing.T) {
	p := NewPopulation[string, *resource](nil)
	l := p.Acquire()
	boom := errors.New("link failed")
	_, err := l.Ensure("slot", func() (*resource, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, p.Populated("slot"))
}

func TestPopulationCloseWithLiveLeases(t *testing.T) {
	destroyed := 0
	p := NewPopulation[string, *resource](func(string, *resource) { destroyed++ })
	a, b := p.Acquire(), p.Acquire()
	_, err := a.Ensure("slot", func() (*resource, error) { return &resource{}, nil })
	require.NoError(t, err)

	p.Close()
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, 0, p.Len())

	_, err = b.Ensure("slot", func() (*resource, error) { return &resource{}, nil })
	assert.ErrorIs(t, err, ErrPopulationClosed)
	assert.Equal(t, 0, p.Len())

	a.Release()
	b.Release()
	assert.Equal(t, 1, destroyed)
	assert.Equal(t, 0, p.Count())
}
