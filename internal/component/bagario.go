package component

import "math"

// Mass determines a Bagario cell's collider radius and move speed.
type Mass struct {
	Value float32
}

// massRadiusConst is k in radius = k*sqrt(mass/pi) (spec §3).
const massRadiusConst = 10.0

// baseSpeed is the numerator in speed = base_speed/sqrt(mass).
const baseSpeed = 220.0

// MassToRadius implements the Bagario cell-size formula.
func MassToRadius(mass float32) float32 {
	return massRadiusConst * float32(math.Sqrt(float64(mass)/math.Pi))
}

// MassToSpeed implements the Bagario cell-speed formula.
func MassToSpeed(mass float32) float32 {
	if mass <= 0 {
		return baseSpeed
	}
	return baseSpeed / float32(math.Sqrt(float64(mass)))
}

// PlayerCell tags an entity as one of a player's cells.
type PlayerCell struct{}

// CellOwner links a cell to its owning player id, used for merge/eat
// ownership checks (spec §4.4).
type CellOwner struct {
	OwnerID uint32
}

// Food is a static nutrition pellet.
type Food struct {
	Nutrition float32
	Radius    float32
}

// Virus splits large cells that touch it and can be fed ejected mass.
type Virus struct {
	FedCount         int
	AbsorptionScale  float32
	AbsorptionTimer  float32
	IsMoving         bool
}

// EjectedMass is mass a player voluntarily ejected; it decays and
// despawns, and can feed a Virus.
type EjectedMass struct {
	DecayTimer     float32
	OriginalOwner  uint32
}

// MergeTimer gates whether two same-owner cells are allowed to merge —
// freshly split cells must wait it out.
type MergeTimer struct {
	TimeRemaining float32
	CanMerge      bool
}

// SplitVelocity is the temporary post-split speed boost; it decays to
// zero and is then removed.
type SplitVelocity struct {
	VX, VY    float32
	DecayRate float32
}
