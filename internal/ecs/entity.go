// Package ecs implements the entity-component-system runtime: a
// generational entity pool, typed component storage, and join queries
// over those stores. Systems live in internal/system and operate on the
// stores exposed here; the ecs package itself knows nothing about game
// semantics.
package ecs

// EntityID encodes a 32-bit index in the lower bits and a 32-bit
// generation in the upper bits. Generation increments on destroy so a
// stale reference never aliases a reused index. Entity 0 is reserved:
// index 0 is never handed out by EntityPool, so the zero value of
// EntityID always means "invalid/none".
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// EntityPool allocates entity ids with generational indices and a free
// list. Index 0 is burned at construction so it never gets reused.
type EntityPool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewEntityPool() *EntityPool {
	p := &EntityPool{
		generations: make([]uint32, 1, 1024), // index 0 reserved, never allocated
		freeList:    make([]uint32, 0, 256),
	}
	p.nextIndex = 1
	return p
}

func (p *EntityPool) Create() EntityID {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return NewEntityID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return NewEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

func (p *EntityPool) Destroy(id EntityID) {
	idx := id.Index()
	if idx == 0 || idx >= p.nextIndex {
		return
	}
	if p.generations[idx] != id.Generation() {
		return // stale reference, already destroyed
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}
