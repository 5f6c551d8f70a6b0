package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityPoolCreateAssignsIncreasingIndices(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	b := p.Create()

	assert.Equal(t, uint32(1), a.Index())
	assert.Equal(t, uint32(2), b.Index())
	assert.True(t, p.Alive(a))
	assert.True(t, p.Alive(b))
}

func TestEntityPoolDestroyBumpsGeneration(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	p.Destroy(a)

	assert.False(t, p.Alive(a), "stale id must not read as alive")

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "freed index should be reused")
	assert.NotEqual(t, a.Generation(), b.Generation())
	assert.True(t, p.Alive(b))
	assert.False(t, p.Alive(a), "old generation must stay dead after reuse")
}

func TestEntityPoolZeroIndexNeverAllocated(t *testing.T) {
	p := NewEntityPool()
	var zero EntityID
	assert.True(t, zero.IsZero())
	assert.False(t, p.Alive(zero))
}

func TestEntityPoolDestroyUnknownIsNoop(t *testing.T) {
	p := NewEntityPool()
	// Destroying an id that was never created, or an out-of-range index,
	// must not panic and must not disturb subsequent allocation.
	p.Destroy(NewEntityID(999, 0))
	a := p.Create()
	assert.Equal(t, uint32(1), a.Index())
}

func TestEntityIDEncodesIndexAndGeneration(t *testing.T) {
	id := NewEntityID(42, 7)
	assert.Equal(t, uint32(42), id.Index())
	assert.Equal(t, uint32(7), id.Generation())
}
