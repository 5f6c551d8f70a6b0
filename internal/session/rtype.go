// Package session implements the R-Type and Bagario session types: each
// owns one ECS world, its systems in registration order, its wave/level
// managers, a player_id->entity map, and the per-tick outbound queue
// boundary the network layer drains after the pool barrier (spec §4.8).
package session

import (
	"fmt"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
	"github.com/l1jgo/arcade-server/internal/protocol"
	"github.com/l1jgo/arcade-server/internal/snapshot"
	"github.com/l1jgo/arcade-server/internal/system"
	"github.com/l1jgo/arcade-server/internal/waveconfig"
)

const (
	spawnX           = 150.0
	spawnYBase       = 150.0
	spawnYOffset     = 120.0
	playerSpeed      = 250.0
	playerMaxHealth  = 100
	snapshotInterval = 0.05 // seconds; 20 Hz at the spec's 32 Hz tick
)

// RTypeSession is one scrolling-shooter match: one world, the R-Type
// system pipeline, and the wave/level/boss/checkpoint state machines.
type RTypeSession struct {
	world *ecs.World
	bus   *event.Bus
	runner *system.Runner

	position     *ecs.Store[component.Position]
	velocity     *ecs.Store[component.Velocity]
	collider     *ecs.Store[component.Collider]
	health       *ecs.Store[component.Health]
	damage       *ecs.Store[component.Damage]
	projectile   *ecs.Store[component.Projectile]
	invuln       *ecs.Store[component.Invulnerability]
	enemy        *ecs.Store[component.Enemy]
	wall         *ecs.Store[component.Wall]
	bonus        *ecs.Store[component.Bonus]
	shield       *ecs.Store[component.Shield]
	speedBoost   *ecs.Store[component.SpeedBoost]
	player       *ecs.Store[component.Player]
	control      *ecs.Store[component.Controllable]
	score        *ecs.Store[component.Score]
	playerLevel  *ecs.Store[component.PlayerLevel]
	weapon       *ecs.Store[component.Weapon]
	fireIntent   *ecs.Store[component.FireIntent]
	networkId    *ecs.Store[component.NetworkId]
	toDestroy    *ecs.Store[component.ToDestroy]
	lives        *ecs.Store[system.Lives]
	bossState    *ecs.Store[system.BossState]
	ai           *ecs.Store[component.AI]

	destroySystem *system.DestroySystem
	waveManager   *system.WaveManager
	levelSystem   *system.LevelSystem

	players      map[uint32]ecs.EntityID
	playerSeq    map[uint32]uint16
	tickCount    uint64
	currentScroll float32
	scrollSpeed   float32
	snapshotAccum float32
	mapWidth, mapHeight float32

	lastWaveStart    *protocol.ServerWaveEventPayload
	lastWaveComplete *protocol.ServerWaveEventPayload

	out outboundBuffers
}

// NewRTypeSession builds a fresh session wired to cfg's map/wave layout.
func NewRTypeSession(cfg *waveconfig.Config) *RTypeSession {
	s := &RTypeSession{
		world:  ecs.NewWorld(),
		bus:    event.NewBus(),
		runner: system.NewRunner(),
		players: make(map[uint32]ecs.EntityID),
		playerSeq: make(map[uint32]uint16),
		mapWidth: cfg.Map.Width, mapHeight: cfg.Map.Height,
		scrollSpeed: cfg.Map.ScrollSpeed,
	}

	s.position = ecs.NewStore[component.Position]()
	s.velocity = ecs.NewStore[component.Velocity]()
	s.collider = ecs.NewStore[component.Collider]()
	s.health = ecs.NewStore[component.Health]()
	s.damage = ecs.NewStore[component.Damage]()
	s.projectile = ecs.NewStore[component.Projectile]()
	s.invuln = ecs.NewStore[component.Invulnerability]()
	s.enemy = ecs.NewStore[component.Enemy]()
	s.wall = ecs.NewStore[component.Wall]()
	s.bonus = ecs.NewStore[component.Bonus]()
	s.shield = ecs.NewStore[component.Shield]()
	s.speedBoost = ecs.NewStore[component.SpeedBoost]()
	s.player = ecs.NewStore[component.Player]()
	s.control = ecs.NewStore[component.Controllable]()
	s.score = ecs.NewStore[component.Score]()
	s.playerLevel = ecs.NewStore[component.PlayerLevel]()
	s.weapon = ecs.NewStore[component.Weapon]()
	s.fireIntent = ecs.NewStore[component.FireIntent]()
	s.networkId = ecs.NewStore[component.NetworkId]()
	s.toDestroy = ecs.NewStore[component.ToDestroy]()
	s.lives = ecs.NewStore[system.Lives]()
	s.bossState = ecs.NewStore[system.BossState]()
	s.ai = ecs.NewStore[component.AI]()

	reg := s.world.Registry()
	reg.Register(s.position)
	reg.Register(s.velocity)
	reg.Register(s.collider)
	reg.Register(s.health)
	reg.Register(s.damage)
	reg.Register(s.projectile)
	reg.Register(s.invuln)
	reg.Register(s.enemy)
	reg.Register(s.wall)
	reg.Register(s.bonus)
	reg.Register(s.shield)
	reg.Register(s.speedBoost)
	reg.Register(s.player)
	reg.Register(s.control)
	reg.Register(s.score)
	reg.Register(s.playerLevel)
	reg.Register(s.weapon)
	reg.Register(s.fireIntent)
	reg.Register(s.networkId)
	reg.Register(s.toDestroy)
	reg.Register(s.lives)
	reg.Register(s.bossState)
	reg.Register(s.ai)

	s.waveManager = system.NewWaveManager(s.world, cfg, s.bus, s.position, s.velocity, s.collider, s.health, s.enemy, s.ai, s.networkId)
	s.levelSystem = system.NewLevelSystem(s.bus, s.world, s.enemy, s.waveManager)
	s.destroySystem = system.NewDestroySystem(s.world)

	// Registration order is execution order (spec §4.1/§4.8).
	s.runner.Register(system.NewPhysiqueSystem(s.position, s.velocity))
	s.runner.Register(system.NewCollisionAABBSystem(s.bus, s.position, s.collider, s.projectile, s.damage, s.player, s.enemy, s.wall, s.bonus, s.invuln, s.toDestroy))
	s.runner.Register(system.NewMapBoundsSystem(s.position, cfg.Map.Width, cfg.Map.Height))
	s.runner.Register(system.NewHealthSystem(s.bus, s.health, s.toDestroy))
	s.runner.Register(s.waveManager)
	s.runner.Register(s.levelSystem)
	s.runner.Register(system.NewEnemyAISystem(s.world, s.enemy, s.ai, s.position, s.player, s.velocity, s.collider, s.projectile, s.damage, s.networkId))
	s.runner.Register(system.NewBossSystem(s.world, s.health, s.enemy, s.bossState, s.position, s.velocity, s.player, s.collider, s.projectile, s.damage, s.networkId))
	s.runner.Register(system.NewCheckpointSystem(s.bus, s.player, s.health, s.lives, s.invuln, s.position, s.weapon, s.toDestroy, spawnX, spawnYBase))
	s.runner.Register(system.NewShootingSystem(s.world, s.weapon, s.fireIntent, s.position, s.velocity, s.collider, s.projectile, s.damage, s.networkId))
	s.runner.Register(system.NewProjectileLifetimeSystem(s.projectile, s.toDestroy))
	s.runner.Register(system.NewInvulnerabilitySystem(s.invuln))
	s.runner.Register(system.NewSpeedBoostSystem(s.speedBoost, s.control))
	s.runner.Register(system.NewPowerupSystem(s.bus, s.health, s.shield, s.speedBoost, s.control))
	s.runner.Register(system.NewScoreSystem(s.bus, s.enemy, s.score))
	s.runner.Register(system.NewLevelUpSystem(s.bus, s.score, s.playerLevel, s.weapon, s.collider))
	s.runner.Register(s.destroySystem)

	s.subscribeOutbound()
	return s
}

func (s *RTypeSession) subscribeOutbound() {
	event.Subscribe(s.bus, func(ev event.EnemyKilledEvent) {
		pl := protocol.ServerScoreUpdatePayload{PlayerID: uint32(ev.Killer.Index()), Score: uint32(ev.ScoreValue)}
		s.out.scores = append(s.out.scores, frame(protocol.ServerScoreUpdate, pl.Encode()))
	})
	event.Subscribe(s.bus, func(ev event.LevelUpEvent) {
		pl := protocol.ServerPlayerLevelUpPayload{PlayerID: uint32(ev.Player.Index()), NewLevel: uint8(ev.NewLevel)}
		s.out.levelUps = append(s.out.levelUps, frame(protocol.ServerPlayerLevelUp, pl.Encode()))
	})
	event.Subscribe(s.bus, func(ev event.PlayerRespawnEvent) {
		pl := protocol.ServerPlayerRespawnPayload{PlayerID: uint32(ev.Player.Index()), PositionX: ev.AtX, PositionY: ev.AtY}
		s.out.respawns = append(s.out.respawns, frame(protocol.ServerPlayerRespawn, pl.Encode()))
	})
	event.Subscribe(s.bus, func(ev event.WaveStartedEvent) {
		pl := protocol.ServerWaveEventPayload{WaveIndex: uint32(ev.WaveIndex)}
		s.lastWaveStart = &pl
		s.out.waveEvents = append(s.out.waveEvents, frame(protocol.ServerWaveStart, pl.Encode()))
	})
	event.Subscribe(s.bus, func(ev event.WaveCompletedEvent) {
		pl := protocol.ServerWaveEventPayload{WaveIndex: uint32(ev.WaveIndex)}
		s.lastWaveComplete = &pl
		s.out.waveEvents = append(s.out.waveEvents, frame(protocol.ServerWaveComplete, pl.Encode()))
	})
}

// AddPlayer spawns a player entity for id per spec §4.8's fixed
// component set and queues its EntitySpawn payload.
func (s *RTypeSession) AddPlayer(id uint32, name string, skinID uint8) {
	n := len(s.players)
	ent := s.world.SpawnEntity()
	pos := component.Position{X: spawnX, Y: spawnYBase + float32(n)*spawnYOffset}
	s.position.Set(ent, &pos)
	s.velocity.Set(ent, &component.Velocity{})
	width, height := component.ShipHitbox(component.ShipScout)
	s.collider.Set(ent, &component.Collider{Width: width, Height: height})
	s.control.Set(ent, &component.Controllable{Speed: playerSpeed})
	s.health.Set(ent, &component.Health{Current: playerMaxHealth, Max: playerMaxHealth})
	s.invuln.Set(ent, &component.Invulnerability{TimeRemaining: 3.0})
	s.score.Set(ent, &component.Score{})
	s.playerLevel.Set(ent, &component.PlayerLevel{CurrentLevel: 1, ColorID: int(skinID)})
	s.weapon.Set(ent, &component.Weapon{Kind: component.WeaponBasic, FireRate: 0.5})
	s.fireIntent.Set(ent, &component.FireIntent{})
	s.player.Set(ent, &component.Player{ID: id, Name: name})
	s.lives.Set(ent, &system.Lives{Remaining: 3})
	s.networkId.Set(ent, &component.NetworkId{Value: id})

	s.players[id] = ent
	s.queueSpawn(ent, pos, protocol.EntityPlayer, playerMaxHealth, uint32(skinID), id)
}

// RemovePlayer destroys id's entity and queues an EntityDestroy payload.
func (s *RTypeSession) RemovePlayer(id uint32) {
	ent, ok := s.players[id]
	if !ok {
		return
	}
	pos, _ := s.position.Get(ent)
	var x, y float32
	if pos != nil {
		x, y = pos.X, pos.Y
	}
	s.world.MarkForDestruction(ent)
	s.world.FlushDestroyQueue()
	delete(s.players, id)
	delete(s.playerSeq, id)
	pl := protocol.ServerEntityDestroyPayload{EntityID: uint32(ent.Index()), Reason: protocol.DestroyDisconnected, PositionX: x, PositionY: y}
	s.out.destroys = append(s.out.destroys, frame(protocol.ServerEntityDestroy, pl.Encode()))
}

// HandleInput applies an already-decoded CLIENT_INPUT to id's player
// entity: direction bits drive Velocity, the fire bit drives FireIntent.
func (s *RTypeSession) HandleInput(id uint32, in protocol.ClientInputPayload) {
	ent, ok := s.players[id]
	if !ok {
		return
	}
	flags := protocol.DecodeInputFlags(in.TargetX)
	ctl, ok := s.control.Get(ent)
	if !ok {
		return
	}
	vel, ok := s.velocity.Get(ent)
	if !ok {
		return
	}
	var vx, vy float32
	if flags&protocol.InputLeft != 0 {
		vx -= ctl.Speed
	}
	if flags&protocol.InputRight != 0 {
		vx += ctl.Speed
	}
	if flags&protocol.InputUp != 0 {
		vy -= ctl.Speed
	}
	if flags&protocol.InputDown != 0 {
		vy += ctl.Speed
	}
	vel.X, vel.Y = vx, vy
	if fi, ok := s.fireIntent.Get(ent); ok {
		fi.Held = flags&protocol.InputFire != 0
	}
}

// Tick advances the session by dt seconds, running every registered
// system in registration order, then building/queuing a snapshot once
// the snapshot accumulator crosses snapshotInterval (spec §4.8).
func (s *RTypeSession) Tick(dt float32) {
	s.currentScroll += s.scrollSpeed * dt
	s.waveManager.SetScroll(s.currentScroll)
	s.runner.Tick(dt)
	for _, id := range s.destroySystem.LastDestroyed {
		pl := protocol.ServerEntityDestroyPayload{EntityID: uint32(id.Index()), Reason: protocol.DestroyKilled}
		s.out.destroys = append(s.out.destroys, frame(protocol.ServerEntityDestroy, pl.Encode()))
	}

	s.tickCount++
	s.snapshotAccum += dt
	if s.snapshotAccum >= snapshotInterval {
		s.snapshotAccum -= snapshotInterval
		s.buildSnapshot()
	}
}

func (s *RTypeSession) buildSnapshot() {
	store := &snapshot.Store{
		Position: s.position, Velocity: s.velocity, Health: s.health,
		Player: s.player, Enemy: s.enemy, Projectile: s.projectile,
		Wall: s.wall, Bonus: s.bonus, ToDestroy: s.toDestroy, Invulnerable: s.invuln,
	}
	header, states := snapshot.Build(store, uint32(s.tickCount))
	s.out.snapshot = append(s.out.snapshot, frame(protocol.ServerSnapshot, snapshot.Encode(header, states)))
}

func (s *RTypeSession) queueSpawn(ent ecs.EntityID, pos component.Position, entityType byte, extra float32, color uint32, owner uint32) {
	pl := protocol.ServerEntitySpawnPayload{
		EntityID: uint32(ent.Index()), EntityType: entityType,
		SpawnX: pos.X, SpawnY: pos.Y, Extra: extra, Color: color, OwnerID: owner,
	}
	s.out.spawns = append(s.out.spawns, frame(protocol.ServerEntitySpawn, pl.Encode()))
}

// DrainOutbound returns every frame queued this tick, in priority order,
// for the network layer to frame and send (spec §4.10/§5).
func (s *RTypeSession) DrainOutbound() []Frame {
	return s.out.drain()
}

// NextSequence returns the next strictly-increasing sequence number for
// receiver id (spec §5: "strictly monotonic per session per receiver").
func (s *RTypeSession) NextSequence(id uint32) uint16 {
	s.playerSeq[id]++
	return s.playerSeq[id]
}

// ResyncClient re-emits EntitySpawn for every live entity plus the last
// wave event pair, ordered players -> enemies -> projectiles (spec
// §4.8).
func (s *RTypeSession) ResyncClient(playerID uint32) []Frame {
	var frames []Frame
	s.player.Each(func(id ecs.EntityID, p *component.Player) {
		pos, _ := s.position.Get(id)
		if pos == nil || s.toDestroy.Has(id) {
			return
		}
		pl := protocol.ServerEntitySpawnPayload{EntityID: uint32(id.Index()), EntityType: protocol.EntityPlayer, SpawnX: pos.X, SpawnY: pos.Y, OwnerID: p.ID}
		frames = append(frames, frame(protocol.ServerEntitySpawn, pl.Encode()))
	})
	s.enemy.Each(func(id ecs.EntityID, e *component.Enemy) {
		pos, _ := s.position.Get(id)
		if pos == nil || s.toDestroy.Has(id) {
			return
		}
		frames = append(frames, frame(protocol.ServerEntitySpawn, protocol.ServerEntitySpawnPayload{
			EntityID: uint32(id.Index()), EntityType: enemyEntityType(e.Kind), SpawnX: pos.X, SpawnY: pos.Y,
		}.Encode()))
	})
	s.projectile.Each(func(id ecs.EntityID, p *component.Projectile) {
		pos, _ := s.position.Get(id)
		if pos == nil || s.toDestroy.Has(id) {
			return
		}
		entityType := byte(protocol.EntityProjectileEnemy)
		if p.Faction == component.FactionPlayer {
			entityType = protocol.EntityProjectilePlayer
		}
		frames = append(frames, frame(protocol.ServerEntitySpawn, protocol.ServerEntitySpawnPayload{
			EntityID: uint32(id.Index()), EntityType: entityType, SpawnX: pos.X, SpawnY: pos.Y,
		}.Encode()))
	})
	if s.lastWaveStart != nil {
		frames = append(frames, frame(protocol.ServerWaveStart, s.lastWaveStart.Encode()))
	}
	if s.lastWaveComplete != nil {
		frames = append(frames, frame(protocol.ServerWaveComplete, s.lastWaveComplete.Encode()))
	}
	return frames
}

func enemyEntityType(kind component.EnemyKind) byte {
	switch kind {
	case component.EnemyFast:
		return protocol.EntityEnemyFast
	case component.EnemyTank:
		return protocol.EntityEnemyTank
	case component.EnemyBoss:
		return protocol.EntityEnemyBoss
	default:
		return protocol.EntityEnemyBasic
	}
}

func (s *RTypeSession) String() string {
	return fmt.Sprintf("RTypeSession(players=%d, tick=%d)", len(s.players), s.tickCount)
}
