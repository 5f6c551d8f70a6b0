package system

import (
	"math"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
)

// enemyProjectileSpeed is the fixed leftward speed of an enemy bullet,
// grounded on original_source's AISystem.cpp (createBullet: vx=-400.0f).
const enemyProjectileSpeed = 400.0

// enemyProjectileDamage is the fixed per-hit damage of an enemy bullet.
const enemyProjectileDamage = 8

// tankSpreadOffset is the vertical velocity split between the Tank's
// three simultaneous bullets (AISystem.cpp: createBullet(-100.0f) /
// createBullet(100.0f) either side of the centered shot).
const tankSpreadOffset = 100.0

// EnemyAISystem fires enemy-faction projectiles toward the nearest
// player on a per-enemy cooldown; Tank enemies fire a three-way spread
// (spec §4.5). It produces the only FactionEnemy projectiles in the
// simulation, making CollisionAABBSystem's enemy-projectile-vs-player
// branch reachable.
type EnemyAISystem struct {
	world *ecs.World

	enemy    *ecs.Store[component.Enemy]
	ai       *ecs.Store[component.AI]
	position *ecs.Store[component.Position]
	player   *ecs.Store[component.Player]
	velocity *ecs.Store[component.Velocity]
	collider *ecs.Store[component.Collider]
	proj     *ecs.Store[component.Projectile]
	damage   *ecs.Store[component.Damage]
	networkId *ecs.Store[component.NetworkId]

	nextNetworkID uint32
}

func NewEnemyAISystem(
	world *ecs.World,
	enemy *ecs.Store[component.Enemy],
	ai *ecs.Store[component.AI],
	position *ecs.Store[component.Position],
	player *ecs.Store[component.Player],
	velocity *ecs.Store[component.Velocity],
	collider *ecs.Store[component.Collider],
	proj *ecs.Store[component.Projectile],
	damage *ecs.Store[component.Damage],
	networkId *ecs.Store[component.NetworkId],
) *EnemyAISystem {
	return &EnemyAISystem{
		world: world, enemy: enemy, ai: ai, position: position, player: player,
		velocity: velocity, collider: collider, proj: proj, damage: damage, networkId: networkId,
	}
}

func (s *EnemyAISystem) Update(dt float32) {
	ecs.Each3(s.enemy, s.ai, s.position, func(id ecs.EntityID, e *component.Enemy, ai *component.AI, pos *component.Position) {
		ai.TimeSinceLastShot += dt
		if ai.TimeSinceLastShot < ai.Cooldown {
			return
		}
		target, ok := s.findNearestPlayer(pos, ai.DetectionRange)
		if !ok {
			return
		}
		ai.TimeSinceLastShot = 0

		vy := target.Y - pos.Y
		switch {
		case vy > tankSpreadOffset*1.5:
			vy = tankSpreadOffset * 1.5
		case vy < -tankSpreadOffset*1.5:
			vy = -tankSpreadOffset * 1.5
		}

		s.fire(id, pos, vy)
		if e.Kind == component.EnemyTank {
			s.fire(id, pos, vy-tankSpreadOffset)
			s.fire(id, pos, vy+tankSpreadOffset)
		}
	})
}

func (s *EnemyAISystem) findNearestPlayer(from *component.Position, maxRange float32) (component.Position, bool) {
	var best component.Position
	found := false
	bestDist := float32(math.MaxFloat32)
	ecs.Each2(s.position, s.player, func(_ ecs.EntityID, p *component.Position, _ *component.Player) {
		dx, dy := p.X-from.X, p.Y-from.Y
		d := dx*dx + dy*dy
		if d > maxRange*maxRange {
			return
		}
		if !found || d < bestDist {
			found, bestDist, best = true, d, *p
		}
	})
	return best, found
}

func (s *EnemyAISystem) fire(owner ecs.EntityID, pos *component.Position, vy float32) {
	id := s.world.SpawnEntity()
	s.position.Set(id, &component.Position{X: pos.X, Y: pos.Y})
	s.velocity.Set(id, &component.Velocity{X: -enemyProjectileSpeed, Y: vy})
	s.collider.Set(id, &component.Collider{Width: 10, Height: 6})
	s.proj.Set(id, &component.Projectile{AngleDeg: 180, Lifetime: 4.0, Faction: component.FactionEnemy, Owner: owner})
	s.damage.Set(id, &component.Damage{Amount: enemyProjectileDamage})
	s.nextNetworkID++
	s.networkId.Set(id, &component.NetworkId{Value: s.nextNetworkID})
}
