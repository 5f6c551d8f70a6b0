package event

import "github.com/l1jgo/arcade-server/internal/ecs"

// Event payload types published on the Bus during a tick. Field shapes
// follow spec §4.4-§4.7's event descriptions.

// DamageEvent is published synchronously by the collision systems;
// HealthSystem subscribes and applies Amount to Target.
type DamageEvent struct {
	Target ecs.EntityID
	Source ecs.EntityID
	Amount int
}

// EntityDeathEvent fires when HealthSystem observes current HP reach 0.
// Killer is the DamageEvent.Source that dealt the fatal blow, zero if
// death was not damage-caused.
type EntityDeathEvent struct {
	Entity ecs.EntityID
	Killer ecs.EntityID
}

// EnemyKilledEvent fires once a killed entity is confirmed to be an
// Enemy; ScoreSystem subscribes to credit the killer.
type EnemyKilledEvent struct {
	Enemy     ecs.EntityID
	Killer    ecs.EntityID
	ScoreValue int
}

// PlayerHitEvent fires on Player×Enemy contact without invulnerability.
type PlayerHitEvent struct {
	Player ecs.EntityID
	Enemy  ecs.EntityID
}

// GameOverEvent fires when every player's lives reach 0.
type GameOverEvent struct{}

// WaveStartedEvent / WaveCompletedEvent bracket a wave's spawn burst.
type WaveStartedEvent struct {
	WaveIndex int
}

type WaveCompletedEvent struct {
	WaveIndex int
}

// LevelUpEvent fires when LevelUpSystem raises a player's level.
type LevelUpEvent struct {
	Player   ecs.EntityID
	NewLevel int
}

// CellAteFoodEvent / CellAteCellEvent / CellMergedEvent / CellHitVirusEvent
// / PlayerEliminatedEvent are the Bagario circle-phase outcomes (spec §4.4).
type CellAteFoodEvent struct {
	Cell ecs.EntityID
	Food ecs.EntityID
}

type CellAteCellEvent struct {
	Eater ecs.EntityID
	Eaten ecs.EntityID
}

type CellMergedEvent struct {
	Survivor ecs.EntityID
	Absorbed ecs.EntityID
}

type CellHitVirusEvent struct {
	Cell  ecs.EntityID
	Virus ecs.EntityID
}

type PlayerEliminatedEvent struct {
	PlayerID uint32
	KillerID uint32
}

// PlayerRespawnEvent fires when CheckpointSystem queues a respawn.
type PlayerRespawnEvent struct {
	Player ecs.EntityID
	AtX, AtY float32
}

// PowerupPickedUpEvent fires when a player's AABB overlaps a Bonus
// entity; PowerupSystem subscribes to apply the effect for Kind.
type PowerupPickedUpEvent struct {
	Player ecs.EntityID
	Bonus  ecs.EntityID
	Kind   int
}

// LevelPhase names a state in LevelSystem's level state machine (spec
// §4.6): LEVEL_START -> WAVES -> BOSS_TRANSITION -> BOSS_FIGHT ->
// LEVEL_COMPLETE -> FINAL_VICTORY. A session plays a single level, so
// LEVEL_COMPLETE always resolves to FINAL_VICTORY.
type LevelPhase int

const (
	LevelPhaseStart LevelPhase = iota
	LevelPhaseWaves
	LevelPhaseBossTransition
	LevelPhaseBossFight
	LevelPhaseComplete
	LevelPhaseFinalVictory
)

// LevelPhaseChangedEvent fires every time LevelSystem transitions phase.
type LevelPhaseChangedEvent struct {
	Phase LevelPhase
}
