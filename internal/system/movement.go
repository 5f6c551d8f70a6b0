package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
)

// PhysiqueSystem integrates Position += Velocity*dt for every entity
// that has both components. It is the sole place Position.X/Y are
// advanced by velocity, so its float-add order is exactly reproducible
// run to run (spec §8 testable property: no drift beyond one ULP for a
// fixed sequence of equal-size steps).
type PhysiqueSystem struct {
	position *ecs.Store[component.Position]
	velocity *ecs.Store[component.Velocity]
}

func NewPhysiqueSystem(position *ecs.Store[component.Position], velocity *ecs.Store[component.Velocity]) *PhysiqueSystem {
	return &PhysiqueSystem{position: position, velocity: velocity}
}

func (s *PhysiqueSystem) Update(dt float32) {
	ecs.Each2(s.position, s.velocity, func(_ ecs.EntityID, pos *component.Position, vel *component.Velocity) {
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
	})
}
