package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSetGetRemove(t *testing.T) {
	s := NewStore[int]()
	id := EntityID(1)

	_, ok := s.Get(id)
	assert.False(t, ok)

	v := 5
	s.Set(id, &v)
	got, ok := s.Get(id)
	assert.True(t, ok)
	assert.Equal(t, 5, *got)
	assert.Equal(t, 1, s.Len())

	s.Remove(id)
	assert.False(t, s.Has(id))
	assert.Equal(t, 0, s.Len())
}

func TestStoreSetIsIdempotentReplace(t *testing.T) {
	s := NewStore[int]()
	id := EntityID(1)
	a, b := 1, 2
	s.Set(id, &a)
	s.Set(id, &b)
	assert.Equal(t, 1, s.Len(), "replacing an existing id must not grow the store")
	got, _ := s.Get(id)
	assert.Equal(t, 2, *got)
}

func TestStoreEachVisitsEveryEntry(t *testing.T) {
	s := NewStore[int]()
	for i := 1; i <= 3; i++ {
		v := i * 10
		s.Set(EntityID(i), &v)
	}
	seen := map[EntityID]int{}
	s.Each(func(id EntityID, v *int) { seen[id] = *v })
	assert.Equal(t, map[EntityID]int{1: 10, 2: 20, 3: 30}, seen)
}

func TestRegistryRemoveAllClearsEveryStore(t *testing.T) {
	reg := NewRegistry()
	a, b := NewStore[int](), NewStore[string]()
	reg.Register(a)
	reg.Register(b)

	id := EntityID(1)
	av, bv := 1, "x"
	a.Set(id, &av)
	b.Set(id, &bv)

	reg.RemoveAll(id)
	assert.False(t, a.Has(id))
	assert.False(t, b.Has(id))
}
