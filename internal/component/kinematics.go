// Package component defines every ECS component type used by the
// simulation: shared kinematics/collision components, R-Type-specific
// combat/wave components, and Bagario-specific cell components. Field
// shapes are grounded on spec §3 and on
// original_source/src/engine/include/ecs/CoreComponents.hpp,
// .../r-type/game-logic/include/components/GameComponents.hpp, and
// .../bagario/game-logic/include/components/BagarioComponents.hpp.
package component

// Position is (x, y) in world units.
type Position struct {
	X, Y float32
}

// Velocity is (x, y) in world-units/sec.
type Velocity struct {
	X, Y float32
}

// Collider is an axis-aligned bounding box; Position anchors its
// top-left corner unless the owning system documents otherwise.
type Collider struct {
	Width, Height float32
}

// CircleCollider is the Bagario-only circular collider.
type CircleCollider struct {
	Radius float32
}

// Controllable marks an entity as player-steerable at the given speed
// (world-units/sec); R-Type derives Velocity from it in HandleInput,
// Bagario's MovementTargetSystem derives Velocity from it toward
// MovementTarget, and PhysiqueSystem integrates the resulting Velocity.
type Controllable struct {
	Speed float32
}

// MovementTarget is the Bagario mouse-follow target in world space.
type MovementTarget struct {
	X, Y float32
}

// NetworkId is the stable id exposed to clients in snapshot/event
// payloads; distinct from the internal ecs.EntityID.
type NetworkId struct {
	Value uint32
}

// ToDestroy is a sentinel: presence means the entity is removed before
// the next snapshot, by the terminal DestroySystem.
type ToDestroy struct{}
