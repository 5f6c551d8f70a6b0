package system

import (
	"math"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
)

// MovementTargetSystem drives Bagario cell velocity toward MovementTarget
// at Controllable.Speed, with any active SplitVelocity boost added on
// top and decaying each tick (spec §4.4 "split" behavior).
type MovementTargetSystem struct {
	position *ecs.Store[component.Position]
	target   *ecs.Store[component.MovementTarget]
	control  *ecs.Store[component.Controllable]
	velocity *ecs.Store[component.Velocity]
	splitVel *ecs.Store[component.SplitVelocity]
}

func NewMovementTargetSystem(
	position *ecs.Store[component.Position],
	target *ecs.Store[component.MovementTarget],
	control *ecs.Store[component.Controllable],
	velocity *ecs.Store[component.Velocity],
	splitVel *ecs.Store[component.SplitVelocity],
) *MovementTargetSystem {
	return &MovementTargetSystem{
		position: position,
		target:   target,
		control:  control,
		velocity: velocity,
		splitVel: splitVel,
	}
}

func (s *MovementTargetSystem) Update(dt float32) {
	ecs.Each3(s.position, s.target, s.control, func(id ecs.EntityID, pos *component.Position, tgt *component.MovementTarget, ctl *component.Controllable) {
		vel, ok := s.velocity.Get(id)
		if !ok {
			return
		}
		dx := tgt.X - pos.X
		dy := tgt.Y - pos.Y
		dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		if dist > 1e-4 {
			vel.X = dx / dist * ctl.Speed
			vel.Y = dy / dist * ctl.Speed
		} else {
			vel.X, vel.Y = 0, 0
		}
		if sv, ok := s.splitVel.Get(id); ok {
			vel.X += sv.VX
			vel.Y += sv.VY
			sv.VX -= sv.VX * sv.DecayRate * dt
			sv.VY -= sv.VY * sv.DecayRate * dt
			if sv.VX*sv.VX+sv.VY*sv.VY < 1.0 {
				s.splitVel.Remove(id)
			}
		}
	})
}
