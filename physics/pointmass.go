package physics

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/vmath"
)

// ErrDuplicateBody is returned when a body ID is registered twice
var ErrDuplicateBody = errors.New("duplicate body")

// PointMassWorld is a dependency-free integrator implementing Adapter, Damper, Stepper and Spawner
// Bodies do not collide; contact handling is left to the core's overlap resolver
type PointMassWorld struct {
	mu     sync.RWMutex
	bodies map[rider.ID]*Body
	order  []rider.ID
}

// NewPointMassWorld creates an empty world
func NewPointMassWorld() *PointMassWorld {
	return &PointMassWorld{bodies: make(map[rider.ID]*Body)}
}

// AddBody registers a body at pos
func (w *PointMassWorld) AddBody(id rider.ID, pos vmath.Vec2, mass float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.bodies[id]; ok {
		return errors.Wrapf(ErrDuplicateBody, "rider %d", id)
	}
	w.bodies[id] = &Body{Pos: pos, Mass: mass}
	i := sort.Search(len(w.order), func(i int) bool { return w.order[i] >= id })
	w.order = append(w.order, 0)
	copy(w.order[i+1:], w.order[i:])
	w.order[i] = id
	return nil
}

// Body returns a copy of the body state
func (w *PointMassWorld) Body(id rider.ID) (Body, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.bodies[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// Len returns the number of bodies
func (w *PointMassWorld) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies)
}

func (w *PointMassWorld) Position(id rider.ID) vmath.Vec2 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if b, ok := w.bodies[id]; ok {
		return b.Pos
	}
	return vmath.Vec2{}
}

func (w *PointMassWorld) Velocity(id rider.ID) vmath.Vec2 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if b, ok := w.bodies[id]; ok {
		return b.Vel
	}
	return vmath.Vec2{}
}

func (w *PointMassWorld) SetVelocity(id rider.ID, v vmath.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b, ok := w.bodies[id]; ok {
		b.Vel = v
	}
}

func (w *PointMassWorld) SetPosition(id rider.ID, p vmath.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b, ok := w.bodies[id]; ok {
		b.Pos = p
	}
}

func (w *PointMassWorld) ApplyForce(id rider.ID, f vmath.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b, ok := w.bodies[id]; ok {
		b.Force = b.Force.Add(f)
	}
}

func (w *PointMassWorld) ResetForces(id rider.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b, ok := w.bodies[id]; ok {
		b.Force = vmath.Vec2{}
	}
}

func (w *PointMassWorld) Mass(id rider.ID) float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if b, ok := w.bodies[id]; ok {
		return b.Mass
	}
	return 0
}

// SetLinearDamping implements Damper
func (w *PointMassWorld) SetLinearDamping(id rider.ID, damping float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if b, ok := w.bodies[id]; ok {
		b.Damping = damping
	}
}

// Step integrates every body in ID order; accumulated forces persist until ResetForces
func (w *PointMassWorld) Step(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range w.order {
		Integrate(w.bodies[id], dt)
	}
}
