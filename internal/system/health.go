package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
)

// HealthSystem subscribes to DamageEvent synchronously: within the tick
// a hit is registered, Health.Current is already updated for every
// system that runs afterward. Reaching 0 tags ToDestroy and publishes
// EntityDeathEvent once.
type HealthSystem struct {
	health    *ecs.Store[component.Health]
	toDestroy *ecs.Store[component.ToDestroy]
	bus       *event.Bus
}

func NewHealthSystem(bus *event.Bus, health *ecs.Store[component.Health], toDestroy *ecs.Store[component.ToDestroy]) *HealthSystem {
	s := &HealthSystem{health: health, toDestroy: toDestroy, bus: bus}
	event.Subscribe(bus, s.onDamage)
	return s
}

func (s *HealthSystem) onDamage(ev event.DamageEvent) {
	h, ok := s.health.Get(ev.Target)
	if !ok {
		return
	}
	if s.toDestroy.Has(ev.Target) {
		return
	}
	h.Current -= ev.Amount
	if h.Current <= 0 {
		h.Current = 0
		s.toDestroy.Set(ev.Target, &component.ToDestroy{})
		event.Publish(s.bus, event.EntityDeathEvent{Entity: ev.Target, Killer: ev.Source})
	}
}

// Update is a no-op: all of HealthSystem's work happens in the
// synchronous DamageEvent subscriber, which fires inline from whichever
// collision system publishes the hit.
func (s *HealthSystem) Update(dt float32) {}
