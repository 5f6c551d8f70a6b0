package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
)

type enemyAIFixture struct {
	sys      *EnemyAISystem
	world    *ecs.World
	enemy    *ecs.Store[component.Enemy]
	ai       *ecs.Store[component.AI]
	position *ecs.Store[component.Position]
	player   *ecs.Store[component.Player]
	velocity *ecs.Store[component.Velocity]
	proj     *ecs.Store[component.Projectile]
}

func newEnemyAIFixture() *enemyAIFixture {
	world := ecs.NewWorld()
	f := &enemyAIFixture{
		world:    world,
		enemy:    ecs.NewStore[component.Enemy](),
		ai:       ecs.NewStore[component.AI](),
		position: ecs.NewStore[component.Position](),
		player:   ecs.NewStore[component.Player](),
		velocity: ecs.NewStore[component.Velocity](),
		proj:     ecs.NewStore[component.Projectile](),
	}
	collider := ecs.NewStore[component.Collider]()
	damage := ecs.NewStore[component.Damage]()
	networkId := ecs.NewStore[component.NetworkId]()
	f.sys = NewEnemyAISystem(world, f.enemy, f.ai, f.position, f.player, f.velocity, collider, f.proj, damage, networkId)
	return f
}

func (f *enemyAIFixture) spawnEnemy(kind component.EnemyKind, x, y, cooldown, detectionRange float32) ecs.EntityID {
	id := f.world.SpawnEntity()
	f.enemy.Set(id, &component.Enemy{Kind: kind})
	f.ai.Set(id, &component.AI{Cooldown: cooldown, DetectionRange: detectionRange})
	f.position.Set(id, &component.Position{X: x, Y: y})
	return id
}

func (f *enemyAIFixture) spawnPlayer(x, y float32) ecs.EntityID {
	id := f.world.SpawnEntity()
	f.player.Set(id, &component.Player{})
	f.position.Set(id, &component.Position{X: x, Y: y})
	return id
}

func countProjectiles(f *enemyAIFixture) int {
	n := 0
	f.proj.Each(func(_ ecs.EntityID, _ *component.Projectile) { n++ })
	return n
}

func TestEnemyAIDoesNotFireBeforeCooldownElapses(t *testing.T) {
	f := newEnemyAIFixture()
	f.spawnEnemy(component.EnemyBasic, 500, 100, 2.0, 800)
	f.spawnPlayer(100, 100)

	f.sys.Update(1.0)
	assert.Equal(t, 0, countProjectiles(f), "must wait out the full cooldown before firing")
}

func TestEnemyAIFiresOnceCooldownElapsesAtNearestPlayer(t *testing.T) {
	f := newEnemyAIFixture()
	f.spawnEnemy(component.EnemyBasic, 500, 100, 2.0, 800)
	f.spawnPlayer(100, 100)

	f.sys.Update(2.0)
	require.Equal(t, 1, countProjectiles(f))
}

func TestEnemyAIIgnoresPlayersOutsideDetectionRange(t *testing.T) {
	f := newEnemyAIFixture()
	f.spawnEnemy(component.EnemyBasic, 500, 100, 1.0, 50)
	f.spawnPlayer(5000, 100)

	f.sys.Update(5.0)
	assert.Equal(t, 0, countProjectiles(f))
}

func TestTankEnemyFiresThreeWaySpread(t *testing.T) {
	f := newEnemyAIFixture()
	f.spawnEnemy(component.EnemyTank, 500, 100, 1.0, 800)
	f.spawnPlayer(100, 100)

	f.sys.Update(1.0)
	assert.Equal(t, 3, countProjectiles(f), "Tank must fire a three-way spread per trigger")
}

func TestNonTankEnemyFiresSingleProjectile(t *testing.T) {
	f := newEnemyAIFixture()
	f.spawnEnemy(component.EnemyFast, 500, 100, 1.0, 800)
	f.spawnPlayer(100, 100)

	f.sys.Update(1.0)
	assert.Equal(t, 1, countProjectiles(f))
}

func TestEnemyAIProjectilesAreEnemyFaction(t *testing.T) {
	f := newEnemyAIFixture()
	f.spawnEnemy(component.EnemyBasic, 500, 100, 1.0, 800)
	f.spawnPlayer(100, 100)

	f.sys.Update(1.0)
	f.proj.Each(func(_ ecs.EntityID, p *component.Projectile) {
		assert.Equal(t, component.FactionEnemy, p.Faction)
	})
}
