package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
)

func newCheckpointFixture() (*CheckpointSystem, *event.Bus, *ecs.Store[Lives], *ecs.Store[component.Health], ecs.EntityID) {
	bus := event.NewBus()
	player := ecs.NewStore[component.Player]()
	health := ecs.NewStore[component.Health]()
	lives := ecs.NewStore[Lives]()
	invuln := ecs.NewStore[component.Invulnerability]()
	position := ecs.NewStore[component.Position]()
	weapon := ecs.NewStore[component.Weapon]()
	toDestroy := ecs.NewStore[component.ToDestroy]()
	sys := NewCheckpointSystem(bus, player, health, lives, invuln, position, weapon, toDestroy, 150, 150)

	world := ecs.NewWorld()
	id := world.SpawnEntity()
	player.Set(id, &component.Player{})
	health.Set(id, &component.Health{Current: 0, Max: 100})
	lives.Set(id, &Lives{Remaining: 2})
	position.Set(id, &component.Position{X: 900, Y: 400})
	weapon.Set(id, &component.Weapon{Kind: component.WeaponLaser})
	toDestroy.Set(id, &component.ToDestroy{})

	return sys, bus, lives, health, id
}

func TestEliminationWithLivesRemainingDoesNotRespawnImmediately(t *testing.T) {
	_, bus, lives, health, id := newCheckpointFixture()
	event.Publish(bus, event.EntityDeathEvent{Entity: id})

	l, ok := lives.Get(id)
	require.True(t, ok)
	assert.Equal(t, 1, l.Remaining)
	assert.Equal(t, float32(respawnDelaySeconds), l.RespawnTimer, "must queue the respawn rather than applying it immediately")

	h, _ := health.Get(id)
	assert.Equal(t, 0, h.Current, "health must not be restored before the respawn delay elapses")
}

func TestRespawnHappensAfterThreeSecondDelay(t *testing.T) {
	sys, bus, _, health, id := newCheckpointFixture()
	event.Publish(bus, event.EntityDeathEvent{Entity: id})

	sys.Update(1.0)
	h, _ := health.Get(id)
	assert.Equal(t, 0, h.Current, "must still be waiting out the delay at 1s")

	sys.Update(2.5)
	h, _ = health.Get(id)
	assert.Equal(t, 100, h.Current, "must be respawned once the 3s delay has fully elapsed")
}

func TestEliminationWithNoLivesRemainingDoesNotQueueRespawn(t *testing.T) {
	sys, bus, lives, _, id := newCheckpointFixture()
	l, _ := lives.Get(id)
	l.Remaining = 1

	var eliminated bool
	event.Subscribe(bus, func(ev event.PlayerEliminatedEvent) { eliminated = true })
	event.Publish(bus, event.EntityDeathEvent{Entity: id})

	assert.True(t, eliminated)
	l, _ = lives.Get(id)
	assert.Equal(t, float32(0), l.RespawnTimer)

	sys.Update(10)
}
