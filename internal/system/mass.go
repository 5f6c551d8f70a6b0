package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
)

// MassSystem keeps a Bagario cell's CircleCollider.Radius and
// Controllable.Speed synchronized with its current Mass, per the
// radius = 10*sqrt(mass/pi) and speed = 220/sqrt(mass) formulas (spec
// §3). The Bagario session runs it after movement and before circle
// collision, so collision sees radii for the mass held at that point;
// mass gained by eating or merging in collision reaches the derived
// values on the next tick.
type MassSystem struct {
	mass     *ecs.Store[component.Mass]
	collider *ecs.Store[component.CircleCollider]
	control  *ecs.Store[component.Controllable]
}

func NewMassSystem(mass *ecs.Store[component.Mass], collider *ecs.Store[component.CircleCollider], control *ecs.Store[component.Controllable]) *MassSystem {
	return &MassSystem{mass: mass, collider: collider, control: control}
}

func (s *MassSystem) Update(dt float32) {
	s.mass.Each(func(id ecs.EntityID, m *component.Mass) {
		if c, ok := s.collider.Get(id); ok {
			c.Radius = component.MassToRadius(m.Value)
		}
		if c, ok := s.control.Get(id); ok {
			c.Speed = component.MassToSpeed(m.Value)
		}
	})
}
