// Package physics defines the rigid-body adapter the simulation core drives, plus a reference point-mass integrator
package physics

import (
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/vmath"
)

// Adapter is the minimal body access the core needs, keyed by rider ID
// Calls for an unknown ID are no-ops returning zero values
type Adapter interface {
	Position(id rider.ID) vmath.Vec2
	Velocity(id rider.ID) vmath.Vec2
	SetVelocity(id rider.ID, v vmath.Vec2)
	// SetPosition is reserved for self-healing of corrupted bodies
	SetPosition(id rider.ID, p vmath.Vec2)
	ApplyForce(id rider.ID, f vmath.Vec2)
	ResetForces(id rider.ID)
	Mass(id rider.ID) float64
}

// Damper is implemented by backends that support linear damping per body
type Damper interface {
	SetLinearDamping(id rider.ID, damping float64)
}

// Stepper is implemented by backends the host advances after each core tick
type Stepper interface {
	Step(dt float64)
}

// Spawner is implemented by backends that create bodies on demand
type Spawner interface {
	AddBody(id rider.ID, pos vmath.Vec2, mass float64) error
}
