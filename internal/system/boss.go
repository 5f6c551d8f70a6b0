package system

import (
	"math"
	"math/rand"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
)

// bossPhase is the boss's current attack pattern, driven by its
// remaining health fraction (spec §4.6: phase changes at 66% and 33%).
type bossPhase int

const (
	bossPhaseOne bossPhase = iota
	bossPhaseTwo
	bossPhaseThree
)

// bossAttackKind names one of the six scripted boss firing patterns
// (spec §4.6), grounded on original_source's BossSystem.hpp method set.
type bossAttackKind int

const (
	attackSpray360 bossAttackKind = iota
	attackAimedBurst
	attackSpiral
	attackLaserSweep
	attackAimedTriple
	attackRandomBarrage
)

// BossAttackConfig parameterizes one firing pattern's projectile count,
// speed, damage, and the cooldown between executions.
type BossAttackConfig struct {
	Kind            bossAttackKind
	ProjectileCount int
	ProjectileSpeed float32
	Damage          int
	Interval        float32
}

// bossPhaseAttacks is the scripted attack rotation per phase: each phase
// alternates between two of the six named patterns every time its
// cooldown expires.
var bossPhaseAttacks = map[bossPhase][]BossAttackConfig{
	bossPhaseOne: {
		{Kind: attackSpray360, ProjectileCount: 12, ProjectileSpeed: 220, Damage: 10, Interval: 2.5},
		{Kind: attackAimedBurst, ProjectileCount: 3, ProjectileSpeed: 320, Damage: 12, Interval: 1.8},
	},
	bossPhaseTwo: {
		{Kind: attackSpiral, ProjectileCount: 8, ProjectileSpeed: 260, Damage: 14, Interval: 0.35},
		{Kind: attackLaserSweep, ProjectileCount: 5, ProjectileSpeed: 400, Damage: 16, Interval: 0.5},
	},
	bossPhaseThree: {
		{Kind: attackAimedTriple, ProjectileCount: 3, ProjectileSpeed: 360, Damage: 18, Interval: 1.2},
		{Kind: attackRandomBarrage, ProjectileCount: 6, ProjectileSpeed: 300, Damage: 15, Interval: 0.9},
	},
}

// BossState tracks one boss entity's phase, attack rotation, and the
// continuous timers the spiral/sweep patterns and movement need.
type BossState struct {
	Phase          bossPhase
	AttackIndex    int
	AttackCooldown float32
	PhaseTimer     float32
}

// BossSystem executes phase-gated attack patterns and movement for
// every boss-kind Enemy, transitioning phase as health fraction crosses
// the 66%/33% thresholds (spec §4.6).
type BossSystem struct {
	world *ecs.World

	health   *ecs.Store[component.Health]
	enemy    *ecs.Store[component.Enemy]
	state    *ecs.Store[BossState]
	position *ecs.Store[component.Position]
	velocity *ecs.Store[component.Velocity]
	player   *ecs.Store[component.Player]
	collider *ecs.Store[component.Collider]
	proj     *ecs.Store[component.Projectile]
	damage   *ecs.Store[component.Damage]
	networkId *ecs.Store[component.NetworkId]

	nextNetworkID uint32
}

func NewBossSystem(
	world *ecs.World,
	health *ecs.Store[component.Health],
	enemy *ecs.Store[component.Enemy],
	state *ecs.Store[BossState],
	position *ecs.Store[component.Position],
	velocity *ecs.Store[component.Velocity],
	player *ecs.Store[component.Player],
	collider *ecs.Store[component.Collider],
	proj *ecs.Store[component.Projectile],
	damage *ecs.Store[component.Damage],
	networkId *ecs.Store[component.NetworkId],
) *BossSystem {
	return &BossSystem{
		world: world, health: health, enemy: enemy, state: state, position: position,
		velocity: velocity, player: player, collider: collider, proj: proj, damage: damage, networkId: networkId,
	}
}

func (s *BossSystem) Update(dt float32) {
	ecs.Each4(s.health, s.enemy, s.position, s.velocity, func(id ecs.EntityID, h *component.Health, e *component.Enemy, pos *component.Position, vel *component.Velocity) {
		if e.Kind != component.EnemyBoss || h.Max == 0 {
			return
		}
		fraction := float32(h.Current) / float32(h.Max)
		target := bossPhaseOne
		switch {
		case fraction <= 0.33:
			target = bossPhaseThree
		case fraction <= 0.66:
			target = bossPhaseTwo
		}
		st, ok := s.state.Get(id)
		if !ok {
			st = &BossState{Phase: bossPhaseOne}
			s.state.Set(id, st)
		}
		if st.Phase != target {
			st.Phase = target
			st.AttackIndex = 0
			st.AttackCooldown = 0
		}
		st.PhaseTimer += dt

		s.updateMovement(st, pos, vel)
		s.updateAttack(id, st, pos, dt)
	})
}

// updateMovement drives the three named boss movement patterns (spec
// §4.6): a sine bob in phase one, a figure-8 weave in phase two, and a
// vertical chase toward the nearest player in phase three.
func (s *BossSystem) updateMovement(st *BossState, pos *component.Position, vel *component.Velocity) {
	switch st.Phase {
	case bossPhaseOne:
		vel.X = 0
		vel.Y = float32(math.Cos(float64(st.PhaseTimer))) * 60
	case bossPhaseTwo:
		vel.X = float32(math.Cos(float64(st.PhaseTimer))) * 70
		vel.Y = float32(math.Cos(float64(st.PhaseTimer)*2)) * 120
	case bossPhaseThree:
		vel.X = 0
		if target, ok := s.findNearestPlayer(pos); ok {
			dy := target.Y - pos.Y
			switch {
			case dy > 4:
				vel.Y = 90
			case dy < -4:
				vel.Y = -90
			default:
				vel.Y = 0
			}
		}
	}
}

func (s *BossSystem) updateAttack(owner ecs.EntityID, st *BossState, pos *component.Position, dt float32) {
	attacks := bossPhaseAttacks[st.Phase]
	if len(attacks) == 0 {
		return
	}
	st.AttackCooldown -= dt
	if st.AttackCooldown > 0 {
		return
	}
	attack := attacks[st.AttackIndex%len(attacks)]
	s.execute(owner, attack, pos, st.PhaseTimer)
	st.AttackIndex++
	st.AttackCooldown = attack.Interval
}

func (s *BossSystem) execute(owner ecs.EntityID, attack BossAttackConfig, pos *component.Position, phaseTimer float32) {
	switch attack.Kind {
	case attackSpray360:
		s.spray360(owner, pos, attack)
	case attackAimedBurst:
		s.aimedBurst(owner, pos, attack)
	case attackSpiral:
		s.spiral(owner, pos, attack, phaseTimer)
	case attackLaserSweep:
		s.laserSweep(owner, pos, attack, phaseTimer)
	case attackAimedTriple:
		s.aimedTriple(owner, pos, attack)
	case attackRandomBarrage:
		s.randomBarrage(owner, pos, attack)
	}
}

func (s *BossSystem) findNearestPlayer(from *component.Position) (component.Position, bool) {
	var best component.Position
	found := false
	bestDist := float32(math.MaxFloat32)
	ecs.Each2(s.position, s.player, func(_ ecs.EntityID, p *component.Position, _ *component.Player) {
		dx, dy := p.X-from.X, p.Y-from.Y
		d := dx*dx + dy*dy
		if !found || d < bestDist {
			found, bestDist, best = true, d, *p
		}
	})
	return best, found
}

func (s *BossSystem) spawnProjectile(owner ecs.EntityID, pos *component.Position, vx, vy float32, dmg int) {
	id := s.world.SpawnEntity()
	s.position.Set(id, &component.Position{X: pos.X, Y: pos.Y})
	s.velocity.Set(id, &component.Velocity{X: vx, Y: vy})
	s.collider.Set(id, &component.Collider{Width: 14, Height: 14})
	angle := float32(math.Atan2(float64(vy), float64(vx))) * 180 / math.Pi
	s.proj.Set(id, &component.Projectile{AngleDeg: angle, Lifetime: 6.0, Faction: component.FactionEnemy, Owner: owner})
	s.damage.Set(id, &component.Damage{Amount: dmg})
	s.nextNetworkID++
	s.networkId.Set(id, &component.NetworkId{Value: s.nextNetworkID})
}

// spray360 fires ProjectileCount shots equally spaced around a full circle.
func (s *BossSystem) spray360(owner ecs.EntityID, pos *component.Position, a BossAttackConfig) {
	n := a.ProjectileCount
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		vx := float32(math.Cos(theta)) * a.ProjectileSpeed
		vy := float32(math.Sin(theta)) * a.ProjectileSpeed
		s.spawnProjectile(owner, pos, vx, vy, a.Damage)
	}
}

// aimedBurst fires ProjectileCount shots together, all aimed at the
// nearest player's current position.
func (s *BossSystem) aimedBurst(owner ecs.EntityID, pos *component.Position, a BossAttackConfig) {
	target, ok := s.findNearestPlayer(pos)
	if !ok {
		return
	}
	dx, dy := target.X-pos.X, target.Y-pos.Y
	d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if d < 1e-3 {
		dx, dy, d = -1, 0, 1
	}
	nx, ny := dx/d, dy/d
	for i := 0; i < a.ProjectileCount; i++ {
		s.spawnProjectile(owner, pos, nx*a.ProjectileSpeed, ny*a.ProjectileSpeed, a.Damage)
	}
}

// spiral fires a rotating ring whose base angle advances continuously
// with phaseTimer, producing a spiral when consecutive triggers are
// plotted over time.
func (s *BossSystem) spiral(owner ecs.EntityID, pos *component.Position, a BossAttackConfig, phaseTimer float32) {
	n := a.ProjectileCount
	if n < 1 {
		n = 1
	}
	base := float64(phaseTimer) * 2
	for i := 0; i < n; i++ {
		theta := base + 2*math.Pi*float64(i)/float64(n)
		vx := float32(math.Cos(theta)) * a.ProjectileSpeed
		vy := float32(math.Sin(theta)) * a.ProjectileSpeed
		s.spawnProjectile(owner, pos, vx, vy, a.Damage)
	}
}

// laserSweep fires a narrow fan of shots whose center angle oscillates
// back and forth across the downward direction over time.
func (s *BossSystem) laserSweep(owner ecs.EntityID, pos *component.Position, a BossAttackConfig, phaseTimer float32) {
	n := a.ProjectileCount
	if n < 1 {
		n = 1
	}
	sweep := math.Sin(float64(phaseTimer)) * (math.Pi / 3)
	const fanStep = math.Pi / 18
	start := math.Pi/2 + sweep - fanStep*float64(n-1)/2
	for i := 0; i < n; i++ {
		theta := start + fanStep*float64(i)
		vx := float32(math.Cos(theta)) * a.ProjectileSpeed
		vy := float32(math.Sin(theta)) * a.ProjectileSpeed
		s.spawnProjectile(owner, pos, vx, vy, a.Damage)
	}
}

// aimedTriple fires three shots aimed at the nearest player, fanned a
// fixed angle apart from the direct line of fire.
func (s *BossSystem) aimedTriple(owner ecs.EntityID, pos *component.Position, a BossAttackConfig) {
	target, ok := s.findNearestPlayer(pos)
	if !ok {
		return
	}
	base := math.Atan2(float64(target.Y-pos.Y), float64(target.X-pos.X))
	for _, off := range []float64{-0.25, 0, 0.25} {
		theta := base + off
		vx := float32(math.Cos(theta)) * a.ProjectileSpeed
		vy := float32(math.Sin(theta)) * a.ProjectileSpeed
		s.spawnProjectile(owner, pos, vx, vy, a.Damage)
	}
}

// randomBarrage fires ProjectileCount shots at independently randomized
// angles.
func (s *BossSystem) randomBarrage(owner ecs.EntityID, pos *component.Position, a BossAttackConfig) {
	for i := 0; i < a.ProjectileCount; i++ {
		theta := rand.Float64() * 2 * math.Pi
		vx := float32(math.Cos(theta)) * a.ProjectileSpeed
		vy := float32(math.Sin(theta)) * a.ProjectileSpeed
		s.spawnProjectile(owner, pos, vx, vy, a.Damage)
	}
}
