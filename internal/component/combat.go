package component

import "github.com/l1jgo/arcade-server/internal/ecs"

// Health is (current, max) integer hit points. Reaching 0 current
// triggers an EntityDeathEvent (published by HealthSystem).
type Health struct {
	Current, Max int
}

// Damage is the integer amount a projectile deals on a successful hit.
type Damage struct {
	Amount int
}

// Faction distinguishes which side a projectile belongs to, used to pick
// the correct AABB collision pair.
type Faction int

const (
	FactionPlayer Faction = iota
	FactionEnemy
)

// Projectile carries R-Type bullet/laser state. TimeAlive increments
// each tick; exceeding Lifetime tags ToDestroy. Owner is the firing
// entity, used to credit kills and to stamp SERVER_PROJECTILE_SPAWN.
type Projectile struct {
	AngleDeg   float32
	Lifetime   float32
	TimeAlive  float32
	Faction    Faction
	Owner      ecs.EntityID
}

// Invulnerability counts down time remaining during which the entity
// cannot take further hit events.
type Invulnerability struct {
	TimeRemaining float32
}

// Enemy is a tag marking an AI-controlled hostile entity.
type Enemy struct {
	Kind EnemyKind
}

type EnemyKind int

const (
	EnemyBasic EnemyKind = iota
	EnemyFast
	EnemyTank
	EnemyBoss
)

// Wall is a tag marking a static obstacle.
type Wall struct{}

// Bonus is a pickup: its Kind determines the effect applied on contact.
type Bonus struct {
	Kind   BonusKind
	Radius float32
}

type BonusKind int

const (
	BonusHealth BonusKind = iota
	BonusShield
	BonusSpeed
)

// Shield marks a player as protected for exactly one hit.
type Shield struct {
	Active bool
}

// SpeedBoost is a timed Controllable.Speed multiplier.
type SpeedBoost struct {
	TimeRemaining  float32
	Multiplier     float32
	OriginalSpeed  float32
}

// Player is a tag marking a player-owned entity (R-Type ship or Bagario
// account, distinguished by which other components accompany it).
type Player struct {
	ID   uint32
	Name string
}
