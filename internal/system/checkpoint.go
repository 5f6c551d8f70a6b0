package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
)

// respawnDelaySeconds is how long a player waits after elimination
// before CheckpointSystem restores them (spec §4.7).
const respawnDelaySeconds = 3.0

// Lives tracks a player's remaining lives for the R-Type respawn loop.
type Lives struct {
	Remaining    int
	RespawnTimer float32
}

// CheckpointSystem subscribes to EntityDeathEvent: on a player entity's
// death, it decrements lives; with lives remaining it queues a respawn
// at the fixed (respawnX, respawnY) point given to NewCheckpointSystem
// with a fresh BASIC weapon (the point does not follow scroll progress
// or any checkpoint marker), otherwise
// it emits PlayerEliminatedEvent and, once every player is out, raises
// GameOverEvent (spec §4.7).
type CheckpointSystem struct {
	player    *ecs.Store[component.Player]
	health    *ecs.Store[component.Health]
	lives     *ecs.Store[Lives]
	invuln    *ecs.Store[component.Invulnerability]
	position  *ecs.Store[component.Position]
	weapon    *ecs.Store[component.Weapon]
	toDestroy *ecs.Store[component.ToDestroy]

	respawnX, respawnY float32
	bus                *event.Bus
}

func NewCheckpointSystem(
	bus *event.Bus,
	player *ecs.Store[component.Player],
	health *ecs.Store[component.Health],
	lives *ecs.Store[Lives],
	invuln *ecs.Store[component.Invulnerability],
	position *ecs.Store[component.Position],
	weapon *ecs.Store[component.Weapon],
	toDestroy *ecs.Store[component.ToDestroy],
	respawnX, respawnY float32,
) *CheckpointSystem {
	s := &CheckpointSystem{
		player: player, health: health, lives: lives, invuln: invuln, position: position,
		weapon: weapon, toDestroy: toDestroy, respawnX: respawnX, respawnY: respawnY, bus: bus,
	}
	event.Subscribe(bus, s.onDeath)
	return s
}

func (s *CheckpointSystem) onDeath(ev event.EntityDeathEvent) {
	if !s.player.Has(ev.Entity) {
		return
	}
	s.eliminate(ev.Entity)
}

func (s *CheckpointSystem) eliminate(player ecs.EntityID) {
	life, ok := s.lives.Get(player)
	if !ok {
		return
	}
	life.Remaining--
	if life.Remaining > 0 {
		life.RespawnTimer = respawnDelaySeconds
		return
	}
	event.Publish(s.bus, event.PlayerEliminatedEvent{PlayerID: uint32(player.Index())})
	if s.allEliminated() {
		event.Publish(s.bus, event.GameOverEvent{})
	}
}

// respawn restores the player in place once the delay timer expires.
// The entity was only tagged ToDestroy by HealthSystem, never actually
// queued for removal, so it is still here to restore.
func (s *CheckpointSystem) respawn(player ecs.EntityID) {
	if h, ok := s.health.Get(player); ok {
		h.Current = h.Max
	}
	if pos, ok := s.position.Get(player); ok {
		pos.X, pos.Y = s.respawnX, s.respawnY
	}
	if w, ok := s.weapon.Get(player); ok {
		*w = component.Weapon{Kind: component.WeaponBasic, FireRate: 0.5}
	}
	s.toDestroy.Remove(player)
	s.invuln.Set(player, &component.Invulnerability{TimeRemaining: 3.0})
	event.Publish(s.bus, event.PlayerRespawnEvent{Player: player, AtX: s.respawnX, AtY: s.respawnY})
}

func (s *CheckpointSystem) allEliminated() bool {
	allOut := true
	s.lives.Each(func(_ ecs.EntityID, l *Lives) {
		if l.Remaining > 0 {
			allOut = false
		}
	})
	return allOut
}

// Update ticks down each eliminated-but-not-out player's respawn timer,
// restoring them once it expires (spec §4.7's 3 s respawn delay).
func (s *CheckpointSystem) Update(dt float32) {
	s.lives.Each(func(id ecs.EntityID, l *Lives) {
		if l.RespawnTimer <= 0 {
			return
		}
		l.RespawnTimer -= dt
		if l.RespawnTimer <= 0 {
			l.RespawnTimer = 0
			s.respawn(id)
		}
	})
}
