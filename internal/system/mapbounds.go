package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
)

// MapBoundsSystem clamps every positioned entity inside [0, Width] x
// [0, Height]. Clamping is idempotent: applying it twice in a row to the
// same position yields the same result (spec §8 testable property).
type MapBoundsSystem struct {
	position     *ecs.Store[component.Position]
	width, height float32
}

func NewMapBoundsSystem(position *ecs.Store[component.Position], width, height float32) *MapBoundsSystem {
	return &MapBoundsSystem{position: position, width: width, height: height}
}

func (s *MapBoundsSystem) Update(dt float32) {
	s.position.Each(func(_ ecs.EntityID, pos *component.Position) {
		pos.X = clamp(pos.X, 0, s.width)
		pos.Y = clamp(pos.Y, 0, s.height)
	})
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
