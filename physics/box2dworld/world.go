// Package box2dworld adapts a top-down box2d world to the core physics adapter
package box2dworld

import (
	"math"
	"sync"

	"github.com/bytearena/box2d"
	"github.com/pkg/errors"

	"github.com/lixenwraith/peloton/physics"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/vmath"
)

const (
	velocityIterations = 8
	positionIterations = 3
)

// World owns a zero-gravity box2d world with one circular body per rider
type World struct {
	mu     sync.Mutex
	world  box2d.B2World
	bodies map[rider.ID]*box2d.B2Body
	radius float64
}

var (
	_ physics.Adapter = (*World)(nil)
	_ physics.Damper  = (*World)(nil)
	_ physics.Stepper = (*World)(nil)
	_ physics.Spawner = (*World)(nil)
)

// New creates an empty world; bodies are circles of the given radius
func New(radius float64) *World {
	// 0 gravity: the circuit is seen from the top
	return &World{
		world:  box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
		bodies: make(map[rider.ID]*box2d.B2Body),
		radius: radius,
	}
}

func toB2(v vmath.Vec2) box2d.B2Vec2 { return box2d.MakeB2Vec2(v.X, v.Y) }

func fromB2(v box2d.B2Vec2) vmath.Vec2 { return vmath.Vec2{X: v.X, Y: v.Y} }

// AddBody creates a dynamic, non-rotating, never-sleeping circle whose mass equals mass
func (w *World) AddBody(id rider.ID, pos vmath.Vec2, mass float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.bodies[id]; ok {
		return errors.Wrapf(physics.ErrDuplicateBody, "rider %d", id)
	}

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Position.Set(pos.X, pos.Y)
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.AllowSleep = false
	bodydef.FixedRotation = true

	body := w.world.CreateBody(&bodydef)

	shape := box2d.MakeB2CircleShape()
	shape.SetRadius(w.radius)

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Shape = &shape
	fixturedef.Density = mass / (math.Pi * w.radius * w.radius)
	fixturedef.Friction = 0
	body.CreateFixtureFromDef(&fixturedef)

	w.bodies[id] = body
	return nil
}

// Len returns the number of bodies
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bodies)
}

func (w *World) body(id rider.ID) *box2d.B2Body {
	return w.bodies[id]
}

func (w *World) Position(id rider.ID) vmath.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b := w.body(id); b != nil {
		return fromB2(b.GetPosition())
	}
	return vmath.Vec2{}
}

func (w *World) Velocity(id rider.ID) vmath.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b := w.body(id); b != nil {
		return fromB2(b.GetLinearVelocity())
	}
	return vmath.Vec2{}
}

func (w *World) SetVelocity(id rider.ID, v vmath.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b := w.body(id); b != nil {
		b.SetLinearVelocity(toB2(v))
	}
}

func (w *World) SetPosition(id rider.ID, p vmath.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b := w.body(id); b != nil {
		b.SetTransform(toB2(p), b.GetAngle())
	}
}

func (w *World) ApplyForce(id rider.ID, f vmath.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b := w.body(id); b != nil {
		b.ApplyForceToCenter(toB2(f), true)
	}
}

// ResetForces clears the accumulated force; box2d also clears forces after every Step
func (w *World) ResetForces(id rider.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b := w.body(id); b != nil {
		b.M_force.SetZero()
	}
}

func (w *World) Mass(id rider.ID) float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b := w.body(id); b != nil {
		return b.GetMass()
	}
	return 0
}

// SetLinearDamping implements physics.Damper
func (w *World) SetLinearDamping(id rider.ID, damping float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b := w.body(id); b != nil {
		b.SetLinearDamping(damping)
	}
}

// Step advances the box2d world
func (w *World) Step(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.world.Step(dt, velocityIterations, positionIterations)
}
