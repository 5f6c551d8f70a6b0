package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
)

// EjectedMassSystem counts down DecayTimer and tags expired ejected mass
// ToDestroy (spec §4.4: ejected mass despawns after a fixed lifetime if
// nothing eats it).
type EjectedMassSystem struct {
	ejected   *ecs.Store[component.EjectedMass]
	toDestroy *ecs.Store[component.ToDestroy]
}

func NewEjectedMassSystem(ejected *ecs.Store[component.EjectedMass], toDestroy *ecs.Store[component.ToDestroy]) *EjectedMassSystem {
	return &EjectedMassSystem{ejected: ejected, toDestroy: toDestroy}
}

func (s *EjectedMassSystem) Update(dt float32) {
	s.ejected.Each(func(id ecs.EntityID, e *component.EjectedMass) {
		e.DecayTimer -= dt
		if e.DecayTimer <= 0 {
			s.toDestroy.Set(id, &component.ToDestroy{})
		}
	})
}

// MergeTimerSystem counts down a freshly split cell's merge cooldown;
// once it reaches zero the cell becomes eligible to re-merge with its
// siblings (spec §4.4).
type MergeTimerSystem struct {
	timers *ecs.Store[component.MergeTimer]
}

func NewMergeTimerSystem(timers *ecs.Store[component.MergeTimer]) *MergeTimerSystem {
	return &MergeTimerSystem{timers: timers}
}

func (s *MergeTimerSystem) Update(dt float32) {
	s.timers.Each(func(_ ecs.EntityID, t *component.MergeTimer) {
		if t.CanMerge {
			return
		}
		t.TimeRemaining -= dt
		if t.TimeRemaining <= 0 {
			t.TimeRemaining = 0
			t.CanMerge = true
		}
	})
}
