package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEach2JoinsOnlyCommonEntities(t *testing.T) {
	a := NewStore[int]()
	b := NewStore[string]()

	av1, av2 := 1, 2
	a.Set(EntityID(1), &av1)
	a.Set(EntityID(2), &av2)

	bv := "only-one"
	b.Set(EntityID(1), &bv)

	var visited []EntityID
	Each2(a, b, func(id EntityID, ai *int, bi *string) {
		visited = append(visited, id)
	})
	assert.Equal(t, []EntityID{1}, visited)
}

func TestEach2WalksSmallerStoreRegardlessOfArgumentOrder(t *testing.T) {
	big := NewStore[int]()
	small := NewStore[int]()
	for i := 1; i <= 100; i++ {
		v := i
		big.Set(EntityID(i), &v)
	}
	sv := 7
	small.Set(EntityID(7), &sv)

	var count int
	Each2(big, small, func(id EntityID, bi, si *int) { count++ })
	assert.Equal(t, 1, count)

	count = 0
	Each2(small, big, func(id EntityID, si, bi *int) { count++ })
	assert.Equal(t, 1, count, "join result must not depend on argument order")
}

func TestEach3RequiresAllThreeStores(t *testing.T) {
	a, b, c := NewStore[int](), NewStore[int](), NewStore[int]()
	one := 1
	a.Set(EntityID(1), &one)
	b.Set(EntityID(1), &one)
	// entity 1 has no C component
	a.Set(EntityID(2), &one)
	b.Set(EntityID(2), &one)
	c.Set(EntityID(2), &one)

	var visited []EntityID
	Each3(a, b, c, func(id EntityID, pa, pb, pc *int) { visited = append(visited, id) })
	assert.Equal(t, []EntityID{2}, visited)
}

func TestEach4RequiresAllFourStores(t *testing.T) {
	a, b, c, d := NewStore[int](), NewStore[int](), NewStore[int](), NewStore[int]()
	one := 1
	for _, s := range []*Store[int]{a, b, c, d} {
		s.Set(EntityID(5), &one)
	}
	a.Set(EntityID(6), &one)
	b.Set(EntityID(6), &one)
	c.Set(EntityID(6), &one)
	// entity 6 missing from d

	var visited []EntityID
	Each4(a, b, c, d, func(id EntityID, pa, pb, pc, pd *int) { visited = append(visited, id) })
	assert.Equal(t, []EntityID{5}, visited)
}
