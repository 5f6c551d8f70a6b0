package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
)

// enemyScoreValue maps an EnemyKind to the score credited for killing
// it (spec §4.7 "score-per-kill exactness").
func enemyScoreValue(kind component.EnemyKind) int {
	switch kind {
	case component.EnemyFast:
		return 150
	case component.EnemyTank:
		return 300
	case component.EnemyBoss:
		return 1000
	default:
		return 100
	}
}

// ScoreSystem subscribes to EntityDeathEvent and credits Killer's Score
// when the dead entity was an Enemy, publishing EnemyKilledEvent.
type ScoreSystem struct {
	enemy *ecs.Store[component.Enemy]
	score *ecs.Store[component.Score]
	bus   *event.Bus
}

func NewScoreSystem(bus *event.Bus, enemy *ecs.Store[component.Enemy], score *ecs.Store[component.Score]) *ScoreSystem {
	s := &ScoreSystem{enemy: enemy, score: score, bus: bus}
	event.Subscribe(bus, s.onDeath)
	return s
}

func (s *ScoreSystem) onDeath(ev event.EntityDeathEvent) {
	enemy, ok := s.enemy.Get(ev.Entity)
	if !ok {
		return
	}
	value := enemyScoreValue(enemy.Kind)
	if sc, ok := s.score.Get(ev.Killer); ok {
		sc.Value += value
	}
	event.Publish(s.bus, event.EnemyKilledEvent{Enemy: ev.Entity, Killer: ev.Killer, ScoreValue: value})
}

func (s *ScoreSystem) Update(dt float32) {}
