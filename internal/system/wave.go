package system

import (
	"math"
	"math/rand"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
	"github.com/l1jgo/arcade-server/internal/waveconfig"
)

type queuedSpawn struct {
	kind         string
	x, y         float32
	delayAfter   float32
}

// WaveManager drives R-Type wave progression: spawning each wave's
// enemies on their configured pattern/cadence, then waiting for
// completion before advancing (spec §4.7).
type WaveManager struct {
	world *ecs.World
	cfg   *waveconfig.Config
	bus   *event.Bus

	position  *ecs.Store[component.Position]
	velocity  *ecs.Store[component.Velocity]
	collider  *ecs.Store[component.Collider]
	health    *ecs.Store[component.Health]
	enemy     *ecs.Store[component.Enemy]
	ai        *ecs.Store[component.AI]
	networkId *ecs.Store[component.NetworkId]

	currentWave     int
	waveActive      bool
	spawnQueue      []queuedSpawn
	spawnTimer      float32
	spawnedIDs      []ecs.EntityID
	nextNetworkID   uint32
	accumulatedTime float32
	currentScroll   float32
}

func NewWaveManager(
	world *ecs.World,
	cfg *waveconfig.Config,
	bus *event.Bus,
	position *ecs.Store[component.Position],
	velocity *ecs.Store[component.Velocity],
	collider *ecs.Store[component.Collider],
	health *ecs.Store[component.Health],
	enemy *ecs.Store[component.Enemy],
	ai *ecs.Store[component.AI],
	networkId *ecs.Store[component.NetworkId],
) *WaveManager {
	return &WaveManager{
		world: world, cfg: cfg, bus: bus,
		position: position, velocity: velocity, collider: collider,
		health: health, enemy: enemy, ai: ai, networkId: networkId,
	}
}

// Complete reports whether every configured wave has finished.
func (w *WaveManager) Complete() bool {
	return w.currentWave >= len(w.cfg.Waves)
}

// AtFinalWave reports whether the wave currently being awaited or run is
// the level's last configured wave (by convention, its boss wave).
// LevelSystem uses this to gate the WAVES -> BOSS_TRANSITION transition.
func (w *WaveManager) AtFinalWave() bool {
	return w.currentWave == len(w.cfg.Waves)-1
}

// WaveActive reports whether a wave is currently spawning or being
// fought, as opposed to idling on its trigger.
func (w *WaveManager) WaveActive() bool {
	return w.waveActive
}

// SetScroll updates current_scroll so trigger checks run against the
// same value the session advances from its map's scroll_speed (spec
// §4.6/§4.8); the session calls this once per tick before Update.
func (w *WaveManager) SetScroll(v float32) {
	w.currentScroll = v
}

func (w *WaveManager) Update(dt float32) {
	w.accumulatedTime += dt
	if w.Complete() {
		return
	}
	if !w.waveActive {
		w.checkTrigger()
		return
	}

	if len(w.spawnQueue) > 0 {
		w.spawnTimer -= dt
		if w.spawnTimer <= 0 {
			next := w.spawnQueue[0]
			w.spawnQueue = w.spawnQueue[1:]
			w.spawnEnemy(next)
			w.spawnTimer = next.delayAfter
		}
		return
	}

	wave := w.cfg.Waves[w.currentWave]
	if wave.CompleteOnAllDead && w.anyAlive() {
		return
	}
	event.Publish(w.bus, event.WaveCompletedEvent{WaveIndex: wave.Index})
	w.waveActive = false
	w.spawnedIDs = nil
	w.currentWave++
}

func (w *WaveManager) anyAlive() bool {
	for _, id := range w.spawnedIDs {
		if w.world.Alive(id) {
			return true
		}
	}
	return false
}

// checkTrigger fires the next wave once both its trigger conditions
// hold, mirroring original_source's WaveManager::check_wave_triggers:
// current_scroll and accumulated_time are each compared independently
// and the wave only starts once both have been satisfied.
func (w *WaveManager) checkTrigger() {
	wave := w.cfg.Waves[w.currentWave]
	scrollTriggered := w.currentScroll >= wave.Trigger.ScrollDistance
	timeTriggered := w.accumulatedTime >= wave.Trigger.TimeDelay
	if scrollTriggered && timeTriggered {
		w.startWave(wave)
	}
}

func (w *WaveManager) startWave(wave waveconfig.Wave) {
	w.spawnQueue = buildSpawnQueue(wave, w.cfg.Map)
	w.spawnedIDs = nil
	w.spawnTimer = 0
	w.waveActive = true
	event.Publish(w.bus, event.WaveStartedEvent{WaveIndex: wave.Index})
}

func buildSpawnQueue(wave waveconfig.Wave, m waveconfig.MapConfig) []queuedSpawn {
	var queue []queuedSpawn
	for _, spec := range wave.Enemies {
		positions := spawnPositions(spec, m)
		for i, pos := range positions {
			delay := spec.DelayBetween
			if i == len(positions)-1 {
				delay = 0
			}
			queue = append(queue, queuedSpawn{kind: spec.Kind, x: pos[0], y: pos[1], delayAfter: delay})
		}
	}
	return queue
}

func spawnPositions(spec waveconfig.EnemySpawn, m waveconfig.MapConfig) [][2]float32 {
	positions := make([][2]float32, 0, spec.Count)
	switch spec.Pattern {
	case "v":
		mid := float32(spec.Count-1) / 2
		for i := 0; i < spec.Count; i++ {
			offset := (float32(i) - mid) * 60
			positions = append(positions, [2]float32{m.Width + 50, m.Height/2 + offset})
		}
	case "circle":
		for i := 0; i < spec.Count; i++ {
			angle := 2 * math.Pi * float64(i) / float64(spec.Count)
			positions = append(positions, [2]float32{
				m.Width + 50 + float32(math.Cos(angle))*40,
				m.Height/2 + float32(math.Sin(angle))*40,
			})
		}
	case "random":
		for i := 0; i < spec.Count; i++ {
			positions = append(positions, [2]float32{m.Width + 50, rand.Float32() * m.Height})
		}
	default: // "line"
		step := m.Height / float32(spec.Count+1)
		for i := 0; i < spec.Count; i++ {
			positions = append(positions, [2]float32{m.Width + 50, step * float32(i+1)})
		}
	}
	return positions
}

func enemyKindFor(kind string) (component.EnemyKind, int) {
	switch kind {
	case "fast":
		return component.EnemyFast, 30
	case "tank":
		return component.EnemyTank, 150
	case "boss":
		return component.EnemyBoss, 2000
	default:
		return component.EnemyBasic, 50
	}
}

// aiParamsFor returns the per-kind fire-control tuning used by
// EnemyAISystem, grounded on original_source's AISystem.cpp per-type
// wave table (Basic cooldown=2.0s, Fast=1.0s, Tank=3.0s, all with an
// 800-unit detection range).
func aiParamsFor(kind component.EnemyKind) component.AI {
	switch kind {
	case component.EnemyFast:
		return component.AI{Cooldown: 1.0, DetectionRange: 800}
	case component.EnemyTank:
		return component.AI{Cooldown: 3.0, DetectionRange: 800}
	default:
		return component.AI{Cooldown: 2.0, DetectionRange: 800}
	}
}

func (w *WaveManager) spawnEnemy(q queuedSpawn) {
	kind, health := enemyKindFor(q.kind)
	id := w.world.SpawnEntity()
	w.position.Set(id, &component.Position{X: q.x, Y: q.y})
	w.velocity.Set(id, &component.Velocity{X: -80, Y: 0})
	w.collider.Set(id, &component.Collider{Width: 64, Height: 64})
	w.health.Set(id, &component.Health{Current: health, Max: health})
	w.enemy.Set(id, &component.Enemy{Kind: kind})
	if kind != component.EnemyBoss {
		ai := aiParamsFor(kind)
		w.ai.Set(id, &ai)
	}
	w.nextNetworkID++
	w.networkId.Set(id, &component.NetworkId{Value: w.nextNetworkID})
	w.spawnedIDs = append(w.spawnedIDs, id)
}
