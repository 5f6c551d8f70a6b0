package system

import (
	"math"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
)

// Constants from spec §4.4's Bagario circle-collision rules.
const (
	eatOverlapRatio    = 0.7  // EAT_OVERLAP_RATIO: distance threshold as a fraction of (r1+r2)
	eatMassRatio       = 1.25 // mass_a >= eatMassRatio * mass_b to eat
	mergeOverlapRatio  = 0.6  // same-owner cells merge inside this fraction of (r1+r2)
	ejectedSafeSpeed   = 50.0 // above this speed, own fresh ejection can't be re-eaten
	virusSplitMass     = 120.0
	virusPopThreshold  = 7
	virusAbsorbPulse   = 1.25
	virusAbsorbSeconds = 0.4
)

func circleDistance(ax, ay, bx, by float32) float32 {
	dx, dy := ax-bx, ay-by
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

func canEat(massA, massB float32) bool {
	return massA >= eatMassRatio*massB
}

// CollisionCircleSystem runs the Bagario pairwise circle-collision scan:
// cell vs food, cell vs ejected mass, cell vs cell (same owner merges or
// pushes apart, different owner the bigger eats the smaller), and cell
// vs virus (spec §4.4).
type CollisionCircleSystem struct {
	bus *event.Bus

	position   *ecs.Store[component.Position]
	collider   *ecs.Store[component.CircleCollider]
	velocity   *ecs.Store[component.Velocity]
	playerCell *ecs.Store[component.PlayerCell]
	cellOwner  *ecs.Store[component.CellOwner]
	mass       *ecs.Store[component.Mass]
	mergeTimer *ecs.Store[component.MergeTimer]
	food       *ecs.Store[component.Food]
	ejected    *ecs.Store[component.EjectedMass]
	virus      *ecs.Store[component.Virus]
	toDestroy  *ecs.Store[component.ToDestroy]
}

func NewCollisionCircleSystem(
	bus *event.Bus,
	position *ecs.Store[component.Position],
	collider *ecs.Store[component.CircleCollider],
	velocity *ecs.Store[component.Velocity],
	playerCell *ecs.Store[component.PlayerCell],
	cellOwner *ecs.Store[component.CellOwner],
	mass *ecs.Store[component.Mass],
	mergeTimer *ecs.Store[component.MergeTimer],
	food *ecs.Store[component.Food],
	ejected *ecs.Store[component.EjectedMass],
	virus *ecs.Store[component.Virus],
	toDestroy *ecs.Store[component.ToDestroy],
) *CollisionCircleSystem {
	return &CollisionCircleSystem{
		bus: bus, position: position, collider: collider, velocity: velocity,
		playerCell: playerCell, cellOwner: cellOwner, mass: mass, mergeTimer: mergeTimer,
		food: food, ejected: ejected, virus: virus, toDestroy: toDestroy,
	}
}

func (s *CollisionCircleSystem) Update(dt float32) {
	s.cellVsFood()
	s.cellVsEjected()
	s.cellVsCell()
	s.cellVsVirus()
}

func (s *CollisionCircleSystem) cellVsFood() {
	ecs.Each3(s.position, s.collider, s.playerCell, func(cellID ecs.EntityID, cpos *component.Position, ccol *component.CircleCollider, _ *component.PlayerCell) {
		if s.toDestroy.Has(cellID) {
			return
		}
		ecs.Each2(s.position, s.food, func(foodID ecs.EntityID, fpos *component.Position, f *component.Food) {
			if s.toDestroy.Has(foodID) {
				return
			}
			if circleDistance(cpos.X, cpos.Y, fpos.X, fpos.Y) > ccol.Radius-f.Radius/2 {
				return
			}
			s.toDestroy.Set(foodID, &component.ToDestroy{})
			if m, ok := s.mass.Get(cellID); ok {
				m.Value += f.Nutrition
			}
			event.Publish(s.bus, event.CellAteFoodEvent{Cell: cellID, Food: foodID})
		})
	})
}

func (s *CollisionCircleSystem) cellVsEjected() {
	ecs.Each3(s.position, s.collider, s.playerCell, func(cellID ecs.EntityID, cpos *component.Position, ccol *component.CircleCollider, _ *component.PlayerCell) {
		if s.toDestroy.Has(cellID) {
			return
		}
		ecs.Each2(s.position, s.ejected, func(emID ecs.EntityID, epos *component.Position, em *component.EjectedMass) {
			if s.toDestroy.Has(emID) {
				return
			}
			fastMoving := false
			if v, ok := s.velocity.Get(emID); ok {
				speed := float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y)))
				fastMoving = speed > ejectedSafeSpeed
			}
			if fastMoving {
				if owner, ok := s.cellOwner.Get(cellID); ok && owner.OwnerID == em.OriginalOwner {
					return
				}
			}
			if circleDistance(cpos.X, cpos.Y, epos.X, epos.Y) > ccol.Radius {
				return
			}
			s.toDestroy.Set(emID, &component.ToDestroy{})
			if m, ok := s.mass.Get(cellID); ok {
				m.Value += 10
			}
		})
	})
}

func (s *CollisionCircleSystem) cellVsCell() {
	type cellInfo struct {
		id  ecs.EntityID
		pos *component.Position
		col *component.CircleCollider
	}
	var cells []cellInfo
	ecs.Each3(s.position, s.collider, s.playerCell, func(id ecs.EntityID, pos *component.Position, col *component.CircleCollider, _ *component.PlayerCell) {
		cells = append(cells, cellInfo{id: id, pos: pos, col: col})
	})

	for i := 0; i < len(cells); i++ {
		a := cells[i]
		if s.toDestroy.Has(a.id) {
			continue
		}
		for j := i + 1; j < len(cells); j++ {
			b := cells[j]
			if s.toDestroy.Has(a.id) || s.toDestroy.Has(b.id) {
				continue
			}
			dist := circleDistance(a.pos.X, a.pos.Y, b.pos.X, b.pos.Y)
			radiusSum := a.col.Radius + b.col.Radius
			if dist > radiusSum {
				continue
			}

			ownerA, hasOwnerA := s.cellOwner.Get(a.id)
			ownerB, hasOwnerB := s.cellOwner.Get(b.id)
			sameOwner := hasOwnerA && hasOwnerB && ownerA.OwnerID == ownerB.OwnerID

			if sameOwner {
				s.handleSameOwnerContact(a.id, b.id, dist, radiusSum)
				continue
			}

			if dist > eatOverlapRatio*radiusSum {
				continue
			}
			massA, _ := s.mass.Get(a.id)
			massB, _ := s.mass.Get(b.id)
			if massA == nil || massB == nil {
				continue
			}
			if canEat(massA.Value, massB.Value) {
				massA.Value += massB.Value
				s.toDestroy.Set(b.id, &component.ToDestroy{})
				event.Publish(s.bus, event.CellAteCellEvent{Eater: a.id, Eaten: b.id})
			} else if canEat(massB.Value, massA.Value) {
				massB.Value += massA.Value
				s.toDestroy.Set(a.id, &component.ToDestroy{})
				event.Publish(s.bus, event.CellAteCellEvent{Eater: b.id, Eaten: a.id})
			}
		}
	}
}

// handleSameOwnerContact merges two of a player's own cells once both
// MergeTimers allow it and they are within the merge overlap ratio;
// otherwise it pushes them apart along the separating axis by the
// penetration amount, split evenly.
func (s *CollisionCircleSystem) handleSameOwnerContact(a, b ecs.EntityID, dist, radiusSum float32) {
	ta, okA := s.mergeTimer.Get(a)
	tb, okB := s.mergeTimer.Get(b)
	bothCanMerge := (!okA || ta.CanMerge) && (!okB || tb.CanMerge)

	if bothCanMerge && dist < mergeOverlapRatio*radiusSum {
		massA, _ := s.mass.Get(a)
		massB, _ := s.mass.Get(b)
		if massA == nil || massB == nil {
			return
		}
		massA.Value += massB.Value
		s.toDestroy.Set(b, &component.ToDestroy{})
		event.Publish(s.bus, event.CellMergedEvent{Survivor: a, Absorbed: b})
		return
	}

	s.pushApart(a, b, dist, radiusSum)
}

func (s *CollisionCircleSystem) pushApart(a, b ecs.EntityID, dist, radiusSum float32) {
	if dist <= 1e-4 {
		return
	}
	posA, okA := s.position.Get(a)
	posB, okB := s.position.Get(b)
	if !okA || !okB {
		return
	}
	penetration := radiusSum - dist
	if penetration <= 0 {
		return
	}
	nx := (posA.X - posB.X) / dist
	ny := (posA.Y - posB.Y) / dist
	half := penetration / 2
	posA.X += nx * half
	posA.Y += ny * half
	posB.X -= nx * half
	posB.Y -= ny * half
}

func (s *CollisionCircleSystem) cellVsVirus() {
	ecs.Each3(s.position, s.collider, s.playerCell, func(cellID ecs.EntityID, cpos *component.Position, ccol *component.CircleCollider, _ *component.PlayerCell) {
		if s.toDestroy.Has(cellID) {
			return
		}
		mass, ok := s.mass.Get(cellID)
		if !ok || mass.Value < virusSplitMass {
			return
		}
		ecs.Each2(s.position, s.virus, func(virusID ecs.EntityID, vpos *component.Position, v *component.Virus) {
			vcol, ok := s.collider.Get(virusID)
			radius := ccol.Radius
			if ok {
				radius = mergeOverlapRatio * (ccol.Radius + vcol.Radius)
			}
			if circleDistance(cpos.X, cpos.Y, vpos.X, vpos.Y) > radius {
				return
			}
			event.Publish(s.bus, event.CellHitVirusEvent{Cell: cellID, Virus: virusID})
		})
	})
}

// EjectedMassVsVirusSystem feeds a moving EjectedMass entity to any
// Virus it touches: fed_count increments, a brief absorption pulse is
// applied, and at VIRUS_POP_THRESHOLD feeds the virus is ready to be
// turned into a shot-virus by the session layer (spec §4.4).
type EjectedMassVsVirusSystem struct {
	position *ecs.Store[component.Position]
	velocity *ecs.Store[component.Velocity]
	collider *ecs.Store[component.CircleCollider]
	ejected  *ecs.Store[component.EjectedMass]
	virus    *ecs.Store[component.Virus]
	toDestroy *ecs.Store[component.ToDestroy]
}

func NewEjectedMassVsVirusSystem(
	position *ecs.Store[component.Position],
	velocity *ecs.Store[component.Velocity],
	collider *ecs.Store[component.CircleCollider],
	ejected *ecs.Store[component.EjectedMass],
	virus *ecs.Store[component.Virus],
	toDestroy *ecs.Store[component.ToDestroy],
) *EjectedMassVsVirusSystem {
	return &EjectedMassVsVirusSystem{position: position, velocity: velocity, collider: collider, ejected: ejected, virus: virus, toDestroy: toDestroy}
}

func (s *EjectedMassVsVirusSystem) Update(dt float32) {
	ecs.Each2(s.virus, s.collider, func(virusID ecs.EntityID, v *component.Virus, vcol *component.CircleCollider) {
		if v.AbsorptionTimer > 0 {
			v.AbsorptionTimer -= dt
			if v.AbsorptionTimer <= 0 {
				v.AbsorptionScale = 1.0
			}
		}
		vpos, ok := s.position.Get(virusID)
		if !ok {
			return
		}
		ecs.Each2(s.position, s.ejected, func(emID ecs.EntityID, epos *component.Position, em *component.EjectedMass) {
			if s.toDestroy.Has(emID) {
				return
			}
			vel, ok := s.velocity.Get(emID)
			if !ok {
				return
			}
			speed := float32(math.Sqrt(float64(vel.X*vel.X + vel.Y*vel.Y)))
			if speed <= ejectedSafeSpeed {
				return
			}
			if circleDistance(vpos.X, vpos.Y, epos.X, epos.Y) > vcol.Radius {
				return
			}
			s.toDestroy.Set(emID, &component.ToDestroy{})
			v.FedCount++
			v.AbsorptionScale = virusAbsorbPulse
			v.AbsorptionTimer = virusAbsorbSeconds
			v.IsMoving = v.FedCount >= virusPopThreshold
		})
	})
}
