package system

import (
	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
)

func aabbOverlap(ax, ay float32, ac *component.Collider, bx, by float32, bc *component.Collider) bool {
	return ax < bx+bc.Width && ax+ac.Width > bx &&
		ay < by+bc.Height && ay+ac.Height > by
}

// CollisionAABBSystem runs the R-Type pairwise box-collision scan: player
// projectile vs enemy, enemy projectile vs player, any projectile vs
// wall, player vs enemy contact, and player vs bonus pickup (spec §4.6).
type CollisionAABBSystem struct {
	bus *event.Bus

	position   *ecs.Store[component.Position]
	collider   *ecs.Store[component.Collider]
	projectile *ecs.Store[component.Projectile]
	damage     *ecs.Store[component.Damage]
	player     *ecs.Store[component.Player]
	enemy      *ecs.Store[component.Enemy]
	wall       *ecs.Store[component.Wall]
	bonus      *ecs.Store[component.Bonus]
	invuln     *ecs.Store[component.Invulnerability]
	toDestroy  *ecs.Store[component.ToDestroy]
}

func NewCollisionAABBSystem(
	bus *event.Bus,
	position *ecs.Store[component.Position],
	collider *ecs.Store[component.Collider],
	projectile *ecs.Store[component.Projectile],
	damage *ecs.Store[component.Damage],
	player *ecs.Store[component.Player],
	enemy *ecs.Store[component.Enemy],
	wall *ecs.Store[component.Wall],
	bonus *ecs.Store[component.Bonus],
	invuln *ecs.Store[component.Invulnerability],
	toDestroy *ecs.Store[component.ToDestroy],
) *CollisionAABBSystem {
	return &CollisionAABBSystem{
		bus: bus, position: position, collider: collider, projectile: projectile,
		damage: damage, player: player, enemy: enemy, wall: wall, bonus: bonus,
		invuln: invuln, toDestroy: toDestroy,
	}
}

func (s *CollisionAABBSystem) Update(dt float32) {
	s.projectileVsTargets()
	s.playerVsEnemy()
	s.playerVsWall()
	s.playerVsBonus()
}

// playerVsWall pushes a player out of an overlapping wall along the
// axis of smaller overlap, by exactly the overlap amount (spec §4.4).
func (s *CollisionAABBSystem) playerVsWall() {
	ecs.Each2(s.position, s.player, func(playerID ecs.EntityID, ppos *component.Position, _ *component.Player) {
		if s.toDestroy.Has(playerID) {
			return
		}
		pcol, ok := s.collider.Get(playerID)
		if !ok {
			return
		}
		ecs.Each2(s.position, s.wall, func(wallID ecs.EntityID, wpos *component.Position, _ *component.Wall) {
			wcol, ok := s.collider.Get(wallID)
			if !ok || !aabbOverlap(ppos.X, ppos.Y, pcol, wpos.X, wpos.Y, wcol) {
				return
			}
			overlapX := minF(ppos.X+pcol.Width, wpos.X+wcol.Width) - maxF(ppos.X, wpos.X)
			overlapY := minF(ppos.Y+pcol.Height, wpos.Y+wcol.Height) - maxF(ppos.Y, wpos.Y)
			if overlapX < overlapY {
				if ppos.X < wpos.X {
					ppos.X -= overlapX
				} else {
					ppos.X += overlapX
				}
			} else {
				if ppos.Y < wpos.Y {
					ppos.Y -= overlapY
				} else {
					ppos.Y += overlapY
				}
			}
		})
	})
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func (s *CollisionAABBSystem) projectileVsTargets() {
	ecs.Each3(s.position, s.collider, s.projectile, func(projID ecs.EntityID, ppos *component.Position, pcol *component.Collider, proj *component.Projectile) {
		if s.toDestroy.Has(projID) {
			return
		}
		dmg := 0
		if d, ok := s.damage.Get(projID); ok {
			dmg = d.Amount
		}

		if proj.Faction == component.FactionPlayer {
			ecs.Each2(s.position, s.enemy, func(enemyID ecs.EntityID, epos *component.Position, _ *component.Enemy) {
				if s.toDestroy.Has(enemyID) {
					return
				}
				ecol, ok := s.collider.Get(enemyID)
				if !ok || !aabbOverlap(ppos.X, ppos.Y, pcol, epos.X, epos.Y, ecol) {
					return
				}
				event.Publish(s.bus, event.DamageEvent{Target: enemyID, Source: proj.Owner, Amount: dmg})
				s.toDestroy.Set(projID, &component.ToDestroy{})
			})
		} else {
			ecs.Each2(s.position, s.player, func(playerID ecs.EntityID, ppos2 *component.Position, _ *component.Player) {
				if s.toDestroy.Has(playerID) {
					return
				}
				if _, ok := s.invuln.Get(playerID); ok {
					return
				}
				pcol2, ok := s.collider.Get(playerID)
				if !ok || !aabbOverlap(ppos.X, ppos.Y, pcol, ppos2.X, ppos2.Y, pcol2) {
					return
				}
				event.Publish(s.bus, event.DamageEvent{Target: playerID, Source: projID, Amount: dmg})
				s.invuln.Set(playerID, &component.Invulnerability{TimeRemaining: 3.0})
				s.toDestroy.Set(projID, &component.ToDestroy{})
			})
		}

		if s.toDestroy.Has(projID) {
			return
		}
		ecs.Each2(s.position, s.wall, func(wallID ecs.EntityID, wpos *component.Position, _ *component.Wall) {
			wcol, ok := s.collider.Get(wallID)
			if !ok || !aabbOverlap(ppos.X, ppos.Y, pcol, wpos.X, wpos.Y, wcol) {
				return
			}
			s.toDestroy.Set(projID, &component.ToDestroy{})
		})
	})
}

func (s *CollisionAABBSystem) playerVsEnemy() {
	ecs.Each2(s.position, s.player, func(playerID ecs.EntityID, ppos *component.Position, _ *component.Player) {
		if s.toDestroy.Has(playerID) {
			return
		}
		if _, ok := s.invuln.Get(playerID); ok {
			return
		}
		pcol, ok := s.collider.Get(playerID)
		if !ok {
			return
		}
		ecs.Each2(s.position, s.enemy, func(enemyID ecs.EntityID, epos *component.Position, _ *component.Enemy) {
			if s.toDestroy.Has(enemyID) {
				return
			}
			ecol, ok := s.collider.Get(enemyID)
			if !ok || !aabbOverlap(ppos.X, ppos.Y, pcol, epos.X, epos.Y, ecol) {
				return
			}
			event.Publish(s.bus, event.PlayerHitEvent{Player: playerID, Enemy: enemyID})
			s.invuln.Set(playerID, &component.Invulnerability{TimeRemaining: 3.0})
		})
	})
}

func (s *CollisionAABBSystem) playerVsBonus() {
	ecs.Each2(s.position, s.player, func(playerID ecs.EntityID, ppos *component.Position, _ *component.Player) {
		if s.toDestroy.Has(playerID) {
			return
		}
		pcol, ok := s.collider.Get(playerID)
		if !ok {
			return
		}
		ecs.Each2(s.position, s.bonus, func(bonusID ecs.EntityID, bpos *component.Position, b *component.Bonus) {
			if s.toDestroy.Has(bonusID) {
				return
			}
			bcol := &component.Collider{Width: b.Radius * 2, Height: b.Radius * 2}
			if !aabbOverlap(ppos.X, ppos.Y, pcol, bpos.X, bpos.Y, bcol) {
				return
			}
			s.toDestroy.Set(bonusID, &component.ToDestroy{})
			event.PublishDeferred(s.bus, bonusPickedUp(playerID, bonusID, b.Kind))
		})
	})
}

// bonusPickedUp is a small local alias kept for readability at the call
// site above.
func bonusPickedUp(player, bonus ecs.EntityID, kind component.BonusKind) event.PowerupPickedUpEvent {
	return event.PowerupPickedUpEvent{Player: player, Bonus: bonus, Kind: int(kind)}
}
