// Package snapshot turns live ECS state into SERVER_SNAPSHOT wire records
// each tick (spec §4.10). Entity classification follows a fixed tag
// priority so every live entity maps to exactly one EntityType byte.
package snapshot

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/protocol"
)

// velocityScale converts a float32 units/sec velocity component to the
// int16 wire representation used by EntityState, clamping to the int16
// range rather than overflowing.
const velocityScale = 32.0

func scaleVelocity(v float32) int16 {
	scaled := v * velocityScale
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}

// Store is the minimal read surface builder needs from a World, kept
// narrow so tests can substitute a hand-built world without pulling in
// session wiring.
type Store struct {
	Position       *ecs.Store[component.Position]
	Velocity       *ecs.Store[component.Velocity]
	Health         *ecs.Store[component.Health]
	Player         *ecs.Store[component.Player]
	Enemy          *ecs.Store[component.Enemy]
	Projectile     *ecs.Store[component.Projectile]
	Wall           *ecs.Store[component.Wall]
	Bonus          *ecs.Store[component.Bonus]
	Food           *ecs.Store[component.Food]
	Virus          *ecs.Store[component.Virus]
	EjectedMass    *ecs.Store[component.EjectedMass]
	PlayerCell     *ecs.Store[component.PlayerCell]
	ToDestroy      *ecs.Store[component.ToDestroy]
	Invulnerable   *ecs.Store[component.Invulnerability]
}

// classify returns the wire EntityType for id, following spec §4.10's
// priority order: PLAYER, ENEMY_*, PROJECTILE_*, BONUS_*, WALL, FOOD,
// VIRUS, EJECTED_MASS, PLAYER_CELL. An entity carrying several tags
// (which should not normally happen) resolves to the highest-priority one.
func classify(s *Store, id ecs.EntityID) (byte, bool) {
	if s.Player != nil && s.Player.Has(id) {
		return protocol.EntityPlayer, true
	}
	if s.Enemy != nil {
		if e, ok := s.Enemy.Get(id); ok {
			switch e.Kind {
			case component.EnemyFast:
				return protocol.EntityEnemyFast, true
			case component.EnemyTank:
				return protocol.EntityEnemyTank, true
			case component.EnemyBoss:
				return protocol.EntityEnemyBoss, true
			default:
				return protocol.EntityEnemyBasic, true
			}
		}
	}
	if s.Projectile != nil {
		if p, ok := s.Projectile.Get(id); ok {
			if p.Faction == component.FactionPlayer {
				return protocol.EntityProjectilePlayer, true
			}
			return protocol.EntityProjectileEnemy, true
		}
	}
	if s.Bonus != nil {
		if b, ok := s.Bonus.Get(id); ok {
			switch b.Kind {
			case component.BonusShield:
				return protocol.EntityBonusShield, true
			case component.BonusSpeed:
				return protocol.EntityBonusSpeed, true
			default:
				return protocol.EntityBonusHealth, true
			}
		}
	}
	if s.Wall != nil && s.Wall.Has(id) {
		return protocol.EntityWall, true
	}
	if s.Food != nil && s.Food.Has(id) {
		return protocol.EntityFood, true
	}
	if s.Virus != nil && s.Virus.Has(id) {
		return protocol.EntityVirus, true
	}
	if s.EjectedMass != nil && s.EjectedMass.Has(id) {
		return protocol.EntityEjectedMass, true
	}
	if s.PlayerCell != nil && s.PlayerCell.Has(id) {
		return protocol.EntityPlayerCell, true
	}
	return 0, false
}

// Build iterates every entity with a Position and returns one EntityState
// per live, non-ToDestroy entity that resolves to a known EntityType.
func Build(s *Store, serverTick uint32) (protocol.ServerSnapshotHeader, []protocol.EntityState) {
	var states []protocol.EntityState
	s.Position.Each(func(id ecs.EntityID, pos *component.Position) {
		if s.ToDestroy != nil && s.ToDestroy.Has(id) {
			return
		}
		entityType, ok := classify(s, id)
		if !ok {
			return
		}
		var vx, vy float32
		if s.Velocity != nil {
			if v, ok := s.Velocity.Get(id); ok {
				vx, vy = v.X, v.Y
			}
		}
		var healthU16 uint16
		if s.Health != nil {
			if h, ok := s.Health.Get(id); ok && h.Current > 0 {
				healthU16 = uint16(h.Current)
			}
		}
		var flags byte
		if s.Invulnerable != nil {
			if inv, ok := s.Invulnerable.Get(id); ok && inv.TimeRemaining > 0 {
				flags |= 0x01
			}
		}
		states = append(states, protocol.EntityState{
			EntityID:     uint32(id.Index()),
			EntityType:   entityType,
			PositionX:    pos.X,
			PositionY:    pos.Y,
			VelocityXI16: scaleVelocity(vx),
			VelocityYI16: scaleVelocity(vy),
			HealthU16:    healthU16,
			FlagsU8:      flags,
		})
	})
	header := protocol.ServerSnapshotHeader{
		ServerTick:  serverTick,
		EntityCount: uint16(len(states)),
	}
	return header, states
}

// Encode packs a full SERVER_SNAPSHOT payload: header followed by each
// EntityState record back to back.
func Encode(header protocol.ServerSnapshotHeader, states []protocol.EntityState) []byte {
	out := make([]byte, 0, 6+len(states)*protocol.EntityStateSize)
	out = append(out, header.Encode()...)
	for _, st := range states {
		out = append(out, st.Encode()...)
	}
	return out
}
