package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
)

// PowerupSystem subscribes to PowerupPickedUpEvent and applies the
// effect for the bonus kind the player walked into (spec §4.6).
type PowerupSystem struct {
	health  *ecs.Store[component.Health]
	shield  *ecs.Store[component.Shield]
	boost   *ecs.Store[component.SpeedBoost]
	control *ecs.Store[component.Controllable]
}

func NewPowerupSystem(
	bus *event.Bus,
	health *ecs.Store[component.Health],
	shield *ecs.Store[component.Shield],
	boost *ecs.Store[component.SpeedBoost],
	control *ecs.Store[component.Controllable],
) *PowerupSystem {
	s := &PowerupSystem{health: health, shield: shield, boost: boost, control: control}
	event.Subscribe(bus, s.onPickup)
	return s
}

func (s *PowerupSystem) onPickup(ev event.PowerupPickedUpEvent) {
	switch component.BonusKind(ev.Kind) {
	case component.BonusHealth:
		if h, ok := s.health.Get(ev.Player); ok {
			h.Current += 50
			if h.Current > h.Max {
				h.Current = h.Max
			}
		}
	case component.BonusShield:
		s.shield.Set(ev.Player, &component.Shield{Active: true})
	case component.BonusSpeed:
		if c, ok := s.control.Get(ev.Player); ok {
			s.boost.Set(ev.Player, &component.SpeedBoost{TimeRemaining: 5, Multiplier: 1.5, OriginalSpeed: c.Speed})
			c.Speed *= 1.5
		}
	}
}

func (s *PowerupSystem) Update(dt float32) {}
