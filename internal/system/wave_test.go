package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
	"github.com/l1jgo/arcade-server/internal/waveconfig"
)

func newTestWaveManager(cfg *waveconfig.Config) (*WaveManager, *ecs.World) {
	world := ecs.NewWorld()
	bus := event.NewBus()
	position := ecs.NewStore[component.Position]()
	velocity := ecs.NewStore[component.Velocity]()
	collider := ecs.NewStore[component.Collider]()
	health := ecs.NewStore[component.Health]()
	enemy := ecs.NewStore[component.Enemy]()
	ai := ecs.NewStore[component.AI]()
	networkId := ecs.NewStore[component.NetworkId]()
	return NewWaveManager(world, cfg, bus, position, velocity, collider, health, enemy, ai, networkId), world
}

// TestWaveDoesNotFireUntilBothTriggerConditionsHold exercises the
// scroll_distance=200, scroll_speed=50 scenario: the wave must fire
// once exactly, only after 4 s (128 ticks) of scroll accumulation.
func TestWaveDoesNotFireUntilBothTriggerConditionsHold(t *testing.T) {
	cfg := &waveconfig.Config{
		Map: waveconfig.MapConfig{Width: 1600, Height: 900, ScrollSpeed: 50},
		Waves: []waveconfig.Wave{
			{Index: 0, Trigger: waveconfig.WaveTrigger{ScrollDistance: 200, TimeDelay: 0},
				Enemies: []waveconfig.EnemySpawn{{Kind: "basic", Count: 1, Pattern: "line"}}, CompleteOnAllDead: true},
		},
	}
	wm, _ := newTestWaveManager(cfg)

	const dt = 1.0 / 32.0
	const scrollSpeed = 50.0
	var scroll float32
	fired := 0
	for i := 0; i < 32*10; i++ {
		scroll += scrollSpeed * dt
		wm.SetScroll(scroll)
		wasActive := wm.waveActive
		wm.Update(dt)
		if !wasActive && wm.waveActive {
			fired++
		}
	}
	assert.Equal(t, 1, fired, "the wave must fire exactly once across the whole run")
}

func TestWaveTriggerRequiresBothScrollAndTimeConditions(t *testing.T) {
	cfg := &waveconfig.Config{
		Map: waveconfig.MapConfig{Width: 1600, Height: 900, ScrollSpeed: 50},
		Waves: []waveconfig.Wave{
			{Index: 0, Trigger: waveconfig.WaveTrigger{ScrollDistance: 1000, TimeDelay: 10},
				Enemies: []waveconfig.EnemySpawn{{Kind: "basic", Count: 1, Pattern: "line"}}, CompleteOnAllDead: true},
		},
	}
	wm, _ := newTestWaveManager(cfg)

	// Scroll condition satisfied immediately, time condition not yet.
	wm.SetScroll(5000)
	wm.Update(1.0)
	require.False(t, wm.waveActive, "must not fire until time_delay has also elapsed")

	wm.Update(9.5)
	assert.True(t, wm.waveActive, "must fire once both scroll and time conditions hold")
}

func TestSpawnedNonBossEnemiesReceiveAIComponent(t *testing.T) {
	cfg := &waveconfig.Config{
		Map: waveconfig.MapConfig{Width: 1600, Height: 900, ScrollSpeed: 0},
		Waves: []waveconfig.Wave{
			{Index: 0, Trigger: waveconfig.WaveTrigger{}, Enemies: []waveconfig.EnemySpawn{
				{Kind: "tank", Count: 1, Pattern: "line"},
			}, CompleteOnAllDead: true},
		},
	}
	wm, _ := newTestWaveManager(cfg)
	wm.SetScroll(0)
	wm.Update(1.0 / 32.0) // triggers the wave
	wm.Update(1.0 / 32.0) // drains the spawn queue

	require.Len(t, wm.spawnedIDs, 1)
	ai, ok := wm.ai.Get(wm.spawnedIDs[0])
	require.True(t, ok, "a spawned Tank enemy must carry an AI component")
	assert.Equal(t, float32(3.0), ai.Cooldown)
}
