package system

import (
	"math"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
)

// projectileSpeed is the fixed travel speed of every player projectile,
// in world-units/sec.
const projectileSpeed = 600.0

// ShootingSystem turns FireIntent + Weapon state into spawned Projectile
// entities, implementing the five weapon kinds from spec §4.5.
type ShootingSystem struct {
	world *ecs.World

	weapon   *ecs.Store[component.Weapon]
	intent   *ecs.Store[component.FireIntent]
	position *ecs.Store[component.Position]
	velocity *ecs.Store[component.Velocity]
	collider *ecs.Store[component.Collider]
	proj     *ecs.Store[component.Projectile]
	damage   *ecs.Store[component.Damage]
	networkId *ecs.Store[component.NetworkId]

	nextNetworkId uint32
}

func NewShootingSystem(
	world *ecs.World,
	weapon *ecs.Store[component.Weapon],
	intent *ecs.Store[component.FireIntent],
	position *ecs.Store[component.Position],
	velocity *ecs.Store[component.Velocity],
	collider *ecs.Store[component.Collider],
	proj *ecs.Store[component.Projectile],
	damage *ecs.Store[component.Damage],
	networkId *ecs.Store[component.NetworkId],
) *ShootingSystem {
	return &ShootingSystem{
		world: world, weapon: weapon, intent: intent, position: position,
		velocity: velocity, collider: collider, proj: proj, damage: damage,
		networkId: networkId,
	}
}

func (s *ShootingSystem) Update(dt float32) {
	ecs.Each3(s.weapon, s.intent, s.position, func(id ecs.EntityID, w *component.Weapon, fi *component.FireIntent, pos *component.Position) {
		w.TimeSinceLastFire += dt
		switch w.Kind {
		case component.WeaponBasic:
			s.fireBasic(id, w, fi, pos)
		case component.WeaponSpread:
			s.fireSpread(id, w, fi, pos)
		case component.WeaponBurst:
			s.fireBurst(id, w, fi, pos, dt)
		case component.WeaponLaser:
			s.fireLaser(id, w, fi, pos)
		case component.WeaponCharge:
			s.fireCharge(id, w, fi, pos, dt)
		}
	})
}

func (s *ShootingSystem) spawn(owner ecs.EntityID, pos *component.Position, angleDeg float32, dmg int, lifetime float32) {
	id := s.world.SpawnEntity()
	rad := float64(angleDeg) * math.Pi / 180
	vx := float32(math.Cos(rad)) * projectileSpeed
	vy := float32(math.Sin(rad)) * projectileSpeed
	s.position.Set(id, &component.Position{X: pos.X, Y: pos.Y})
	s.velocity.Set(id, &component.Velocity{X: vx, Y: vy})
	s.collider.Set(id, &component.Collider{Width: 12, Height: 6})
	s.proj.Set(id, &component.Projectile{AngleDeg: angleDeg, Lifetime: lifetime, Faction: component.FactionPlayer, Owner: owner})
	s.damage.Set(id, &component.Damage{Amount: dmg})
	s.nextNetworkId++
	s.networkId.Set(id, &component.NetworkId{Value: s.nextNetworkId})
}

func (s *ShootingSystem) fireBasic(id ecs.EntityID, w *component.Weapon, fi *component.FireIntent, pos *component.Position) {
	if !fi.Held || w.TimeSinceLastFire < w.FireRate {
		return
	}
	w.TimeSinceLastFire = 0
	s.spawn(id, pos, 0, 10, 2.0)
}

func (s *ShootingSystem) fireSpread(id ecs.EntityID, w *component.Weapon, fi *component.FireIntent, pos *component.Position) {
	if !fi.Held || w.TimeSinceLastFire < w.FireRate {
		return
	}
	w.TimeSinceLastFire = 0
	count := w.ProjectileCount
	if count < 1 {
		count = 1
	}
	start := -w.SpreadAngleDeg / 2
	step := float32(0)
	if count > 1 {
		step = w.SpreadAngleDeg / float32(count-1)
	}
	for i := 0; i < count; i++ {
		s.spawn(id, pos, start+step*float32(i), 8, 2.0)
	}
}

func (s *ShootingSystem) fireBurst(id ecs.EntityID, w *component.Weapon, fi *component.FireIntent, pos *component.Position, dt float32) {
	target := w.BurstTarget()
	if w.BurstShotsFired() > 0 {
		w.SetBurstElapsed(w.BurstElapsed() - dt)
		if w.BurstElapsed() > 0 {
			return
		}
		s.spawn(id, pos, 0, 9, 2.0)
		w.SetBurstShotsFired(w.BurstShotsFired() + 1)
		if w.BurstShotsFired() >= target {
			w.SetBurstShotsFired(0)
			return
		}
		w.SetBurstElapsed(w.BurstIntraDelay)
		return
	}
	if !fi.Held || w.TimeSinceLastFire < w.FireRate {
		return
	}
	w.TimeSinceLastFire = 0
	s.spawn(id, pos, 0, 9, 2.0)
	w.SetBurstShotsFired(1)
	if target > 1 {
		w.SetBurstElapsed(w.BurstIntraDelay)
	} else {
		w.SetBurstShotsFired(0)
	}
}

func (s *ShootingSystem) fireLaser(id ecs.EntityID, w *component.Weapon, fi *component.FireIntent, pos *component.Position) {
	if !fi.Held || w.TimeSinceLastFire < w.FireRate {
		return
	}
	w.TimeSinceLastFire = 0
	s.spawn(id, pos, 0, 25, w.Range/projectileSpeed)
}

func (s *ShootingSystem) fireCharge(id ecs.EntityID, w *component.Weapon, fi *component.FireIntent, pos *component.Position, dt float32) {
	if fi.Held {
		w.TriggerHeld = true
		w.CurrentChargeDuration += dt
		return
	}
	if !w.TriggerHeld {
		return
	}
	w.TriggerHeld = false
	charge := w.CurrentChargeDuration
	w.CurrentChargeDuration = 0
	if charge < 0.1 {
		return
	}
	dmg := int(20 + charge*40)
	if dmg > 200 {
		dmg = 200
	}
	s.spawn(id, pos, 0, dmg, 2.5)
}
