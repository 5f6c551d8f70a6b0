package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
)

const (
	levelStartDuration      = 0.5
	bossTransitionDuration  = 3.0
	levelCompleteDuration   = 5.0
)

// LevelSystem drives the level-scoped state machine: LEVEL_START ->
// WAVES -> BOSS_TRANSITION -> BOSS_FIGHT -> LEVEL_COMPLETE ->
// FINAL_VICTORY (spec §4.6). It observes WaveManager's progress and the
// surviving Enemy population rather than spawning anything itself.
type LevelSystem struct {
	bus   *event.Bus
	world *ecs.World

	enemy *ecs.Store[component.Enemy]
	wave  *WaveManager

	phase event.LevelPhase
	timer float32
}

func NewLevelSystem(bus *event.Bus, world *ecs.World, enemy *ecs.Store[component.Enemy], wave *WaveManager) *LevelSystem {
	return &LevelSystem{bus: bus, world: world, enemy: enemy, wave: wave, phase: event.LevelPhaseStart}
}

// Phase reports the state machine's current phase.
func (s *LevelSystem) Phase() event.LevelPhase {
	return s.phase
}

func (s *LevelSystem) Update(dt float32) {
	switch s.phase {
	case event.LevelPhaseStart:
		s.timer += dt
		if s.timer >= levelStartDuration {
			s.transition(event.LevelPhaseWaves)
		}
	case event.LevelPhaseWaves:
		if s.wave.AtFinalWave() && !s.wave.WaveActive() && s.noEnemiesRemaining() {
			s.transition(event.LevelPhaseBossTransition)
		}
	case event.LevelPhaseBossTransition:
		s.timer += dt
		if s.timer >= bossTransitionDuration {
			s.transition(event.LevelPhaseBossFight)
		}
	case event.LevelPhaseBossFight:
		if s.bossDefeated() {
			s.transition(event.LevelPhaseComplete)
		}
	case event.LevelPhaseComplete:
		s.timer += dt
		if s.timer >= levelCompleteDuration {
			// Single-level sessions have no next level to chain into, so
			// LEVEL_COMPLETE always resolves to FINAL_VICTORY.
			s.transition(event.LevelPhaseFinalVictory)
		}
	case event.LevelPhaseFinalVictory:
		// terminal
	}
}

func (s *LevelSystem) noEnemiesRemaining() bool {
	remaining := false
	s.enemy.Each(func(id ecs.EntityID, _ *component.Enemy) {
		if s.world.Alive(id) {
			remaining = true
		}
	})
	return !remaining
}

func (s *LevelSystem) bossDefeated() bool {
	bossAlive := false
	s.enemy.Each(func(id ecs.EntityID, e *component.Enemy) {
		if e.Kind == component.EnemyBoss && s.world.Alive(id) {
			bossAlive = true
		}
	})
	return !bossAlive && s.wave.Complete()
}

func (s *LevelSystem) transition(phase event.LevelPhase) {
	s.phase = phase
	s.timer = 0
	event.Publish(s.bus, event.LevelPhaseChangedEvent{Phase: phase})
}
