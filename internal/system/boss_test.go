package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
)

type bossFixture struct {
	sys      *BossSystem
	world    *ecs.World
	health   *ecs.Store[component.Health]
	enemy    *ecs.Store[component.Enemy]
	state    *ecs.Store[BossState]
	position *ecs.Store[component.Position]
	velocity *ecs.Store[component.Velocity]
	player   *ecs.Store[component.Player]
	proj     *ecs.Store[component.Projectile]
}

func newBossFixture() *bossFixture {
	world := ecs.NewWorld()
	f := &bossFixture{
		world:    world,
		health:   ecs.NewStore[component.Health](),
		enemy:    ecs.NewStore[component.Enemy](),
		state:    ecs.NewStore[BossState](),
		position: ecs.NewStore[component.Position](),
		velocity: ecs.NewStore[component.Velocity](),
		player:   ecs.NewStore[component.Player](),
		proj:     ecs.NewStore[component.Projectile](),
	}
	collider := ecs.NewStore[component.Collider]()
	damage := ecs.NewStore[component.Damage]()
	networkId := ecs.NewStore[component.NetworkId]()
	f.sys = NewBossSystem(world, f.health, f.enemy, f.state, f.position, f.velocity, f.player, collider, f.proj, damage, networkId)
	return f
}

func (f *bossFixture) spawnBoss(current, max int) ecs.EntityID {
	id := f.world.SpawnEntity()
	f.health.Set(id, &component.Health{Current: current, Max: max})
	f.enemy.Set(id, &component.Enemy{Kind: component.EnemyBoss})
	f.position.Set(id, &component.Position{X: 1000, Y: 500})
	f.velocity.Set(id, &component.Velocity{})
	return id
}

func (f *bossFixture) spawnPlayer(x, y float32) {
	id := f.world.SpawnEntity()
	f.player.Set(id, &component.Player{})
	f.position.Set(id, &component.Position{X: x, Y: y})
}

func TestBossEntersPhaseOneAboveSixtySixPercent(t *testing.T) {
	f := newBossFixture()
	boss := f.spawnBoss(2000, 2000)
	f.sys.Update(1.0 / 32.0)

	st, ok := f.state.Get(boss)
	require.True(t, ok)
	assert.Equal(t, bossPhaseOne, st.Phase)
}

func TestBossTransitionsToPhaseTwoAtSixtySixPercent(t *testing.T) {
	f := newBossFixture()
	boss := f.spawnBoss(1300, 2000) // 65% of max
	f.sys.Update(1.0 / 32.0)

	st, ok := f.state.Get(boss)
	require.True(t, ok)
	assert.Equal(t, bossPhaseTwo, st.Phase)
}

func TestBossTransitionsToPhaseThreeAtThirtyThreePercent(t *testing.T) {
	f := newBossFixture()
	boss := f.spawnBoss(600, 2000) // 30% of max
	f.sys.Update(1.0 / 32.0)

	st, ok := f.state.Get(boss)
	require.True(t, ok)
	assert.Equal(t, bossPhaseThree, st.Phase)
}

func TestBossFiresProjectilesOnAttackCooldownExpiry(t *testing.T) {
	f := newBossFixture()
	f.spawnBoss(2000, 2000)
	f.spawnPlayer(100, 100)

	// First tick resolves phase and executes the phase's first attack
	// immediately (AttackCooldown starts at zero).
	f.sys.Update(1.0 / 32.0)

	n := 0
	f.proj.Each(func(_ ecs.EntityID, _ *component.Projectile) { n++ })
	assert.Greater(t, n, 0, "a boss must fire its phase's first attack as soon as it spawns")
}

func TestBossProjectilesAreEnemyFaction(t *testing.T) {
	f := newBossFixture()
	f.spawnBoss(2000, 2000)
	f.spawnPlayer(100, 100)

	f.sys.Update(1.0 / 32.0)
	f.proj.Each(func(_ ecs.EntityID, p *component.Projectile) {
		assert.Equal(t, component.FactionEnemy, p.Faction)
	})
}
