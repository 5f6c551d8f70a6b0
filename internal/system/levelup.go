package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
)

// LevelUpSystem watches each R-Type player's Score and raises
// PlayerLevel.CurrentLevel when a new threshold is crossed (spec §4.7
// "level-up totality": every score that crosses a threshold produces
// exactly one LevelUpEvent per level gained).
type LevelUpSystem struct {
	score    *ecs.Store[component.Score]
	level    *ecs.Store[component.PlayerLevel]
	weapon   *ecs.Store[component.Weapon]
	collider *ecs.Store[component.Collider]
	bus      *event.Bus
}

func NewLevelUpSystem(
	bus *event.Bus,
	score *ecs.Store[component.Score],
	level *ecs.Store[component.PlayerLevel],
	weapon *ecs.Store[component.Weapon],
	collider *ecs.Store[component.Collider],
) *LevelUpSystem {
	return &LevelUpSystem{score: score, level: level, weapon: weapon, collider: collider, bus: bus}
}

func (s *LevelUpSystem) Update(dt float32) {
	ecs.Each2(s.score, s.level, func(id ecs.EntityID, sc *component.Score, lvl *component.PlayerLevel) {
		target := component.LevelForScore(sc.Value)
		for lvl.CurrentLevel < target {
			lvl.CurrentLevel++
			lvl.LevelUpPending = true
			lvl.LevelUpTimer = 2.0
			if w, ok := s.weapon.Get(id); ok {
				w.Kind = component.WeaponForLevel(lvl.CurrentLevel)
			}
			if col, ok := s.collider.Get(id); ok {
				col.Width, col.Height = component.ShipHitbox(component.ShipForLevel(lvl.CurrentLevel))
			}
			event.Publish(s.bus, event.LevelUpEvent{Player: id, NewLevel: lvl.CurrentLevel})
		}
		if lvl.LevelUpPending {
			lvl.LevelUpTimer -= dt
			if lvl.LevelUpTimer <= 0 {
				lvl.LevelUpPending = false
			}
		}
	})
}
