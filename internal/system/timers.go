package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
)

// ProjectileLifetimeSystem tags a projectile ToDestroy once TimeAlive
// exceeds Lifetime (spec §4.5).
type ProjectileLifetimeSystem struct {
	proj      *ecs.Store[component.Projectile]
	toDestroy *ecs.Store[component.ToDestroy]
}

func NewProjectileLifetimeSystem(proj *ecs.Store[component.Projectile], toDestroy *ecs.Store[component.ToDestroy]) *ProjectileLifetimeSystem {
	return &ProjectileLifetimeSystem{proj: proj, toDestroy: toDestroy}
}

func (s *ProjectileLifetimeSystem) Update(dt float32) {
	s.proj.Each(func(id ecs.EntityID, p *component.Projectile) {
		p.TimeAlive += dt
		if p.TimeAlive >= p.Lifetime {
			s.toDestroy.Set(id, &component.ToDestroy{})
		}
	})
}

// InvulnerabilitySystem counts down Invulnerability.TimeRemaining and
// removes the component once it expires.
type InvulnerabilitySystem struct {
	invuln *ecs.Store[component.Invulnerability]
}

func NewInvulnerabilitySystem(invuln *ecs.Store[component.Invulnerability]) *InvulnerabilitySystem {
	return &InvulnerabilitySystem{invuln: invuln}
}

func (s *InvulnerabilitySystem) Update(dt float32) {
	var expired []ecs.EntityID
	s.invuln.Each(func(id ecs.EntityID, inv *component.Invulnerability) {
		inv.TimeRemaining -= dt
		if inv.TimeRemaining <= 0 {
			expired = append(expired, id)
		}
	})
	for _, id := range expired {
		s.invuln.Remove(id)
	}
}

// SpeedBoostSystem counts down an active SpeedBoost and restores
// Controllable.Speed to OriginalSpeed when it expires.
type SpeedBoostSystem struct {
	boost   *ecs.Store[component.SpeedBoost]
	control *ecs.Store[component.Controllable]
}

func NewSpeedBoostSystem(boost *ecs.Store[component.SpeedBoost], control *ecs.Store[component.Controllable]) *SpeedBoostSystem {
	return &SpeedBoostSystem{boost: boost, control: control}
}

func (s *SpeedBoostSystem) Update(dt float32) {
	var expired []ecs.EntityID
	s.boost.Each(func(id ecs.EntityID, b *component.SpeedBoost) {
		b.TimeRemaining -= dt
		if b.TimeRemaining <= 0 {
			if c, ok := s.control.Get(id); ok {
				c.Speed = b.OriginalSpeed
			}
			expired = append(expired, id)
		}
	})
	for _, id := range expired {
		s.boost.Remove(id)
	}
}
