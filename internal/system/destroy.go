package system

import "github.com/l1jgo/arcade-server/internal/ecs"

// DestroySystem is the terminal system in every session's registration
// order: it flushes World's destroy queue so every component store is
// cleared for each ToDestroy entity before the tick's snapshot is built
// (spec §3 "removed before the next snapshot is serialized"). Session
// reads LastDestroyed after Tick to build SERVER_ENTITY_DESTROY packets.
type DestroySystem struct {
	world         *ecs.World
	LastDestroyed []ecs.EntityID
}

func NewDestroySystem(world *ecs.World) *DestroySystem {
	return &DestroySystem{world: world}
}

func (s *DestroySystem) Update(dt float32) {
	s.LastDestroyed = s.world.FlushDestroyQueue()
}
