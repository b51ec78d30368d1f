package physics

import "github.com/lixenwraith/peloton/vmath"

// Body is a point mass with accumulated force
type Body struct {
	Pos     vmath.Vec2
	Vel     vmath.Vec2
	Force   vmath.Vec2
	Mass    float64
	Damping float64
}

// Integrate performs semi-implicit Euler: v = (v + F/m*dt) / (1 + damping*dt); p = p + v*dt
func Integrate(b *Body, dt float64) {
	if b.Mass > 0 {
		b.Vel = b.Vel.Add(b.Force.Scale(dt / b.Mass))
	}
	if b.Damping > 0 {
		b.Vel = b.Vel.Scale(1 / (1 + b.Damping*dt))
	}
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
}

// CapSpeed limits the velocity magnitude to maxSpeed
// Returns the capped vector and true if it was clamped
func CapSpeed(v vmath.Vec2, maxSpeed float64) (vmath.Vec2, bool) {
	if maxSpeed <= 0 {
		return v, false
	}
	if v.LenSq() > maxSpeed*maxSpeed {
		return v.Normalize().Scale(maxSpeed), true
	}
	return v, false
}
