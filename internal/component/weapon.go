package component

// WeaponKind selects the firing behavior implemented by ShootingSystem.
type WeaponKind int

const (
	WeaponBasic WeaponKind = iota
	WeaponSpread
	WeaponBurst
	WeaponLaser
	WeaponCharge
)

// Weapon holds all per-player weapon state; which fields are meaningful
// depends on Kind (spec §4.5).
type Weapon struct {
	Kind WeaponKind

	TimeSinceLastFire float32
	FireRate          float32 // seconds between shots (BASIC/SPREAD/BURST cadence)

	// SPREAD
	ProjectileCount int
	SpreadAngleDeg  float32

	// BURST
	BurstCount      int
	BurstIntraDelay float32
	burstElapsed    float32
	burstShotsFired int

	// CHARGE
	TriggerHeld           bool
	CurrentChargeDuration float32

	// LASER
	Range float32
}

// BurstElapsed/SetBurstElapsed expose the private intra-burst timer to
// ShootingSystem without leaking it into every other reader of Weapon.
func (w *Weapon) BurstElapsed() float32        { return w.burstElapsed }
func (w *Weapon) SetBurstElapsed(v float32)     { w.burstElapsed = v }

// BurstShotsFired/SetBurstShotsFired expose the in-progress burst's shot
// count so ShootingSystem can fire until BurstTarget is reached instead
// of stopping after a fixed one or two shots.
func (w *Weapon) BurstShotsFired() int          { return w.burstShotsFired }
func (w *Weapon) SetBurstShotsFired(v int)      { w.burstShotsFired = v }

// BurstTarget is how many projectiles one burst trigger fires: BurstCount
// when configured, otherwise ProjectileCount, otherwise a single shot.
func (w *Weapon) BurstTarget() int {
	if w.BurstCount > 0 {
		return w.BurstCount
	}
	if w.ProjectileCount > 0 {
		return w.ProjectileCount
	}
	return 1
}

// FireIntent is set each tick from the latest CLIENT_INPUT fire flag;
// ShootingSystem reads and clears it alongside Weapon.TriggerHeld.
type FireIntent struct {
	Held bool
}
