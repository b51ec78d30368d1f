package engine

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/peloton/status"
)

// ErrNoPhysics is returned when a tick is requested without a physics adapter
var ErrNoPhysics = errors.New("no physics adapter")

// tickAvgWeight is the moving-average weight of the newest tick duration
const tickAvgWeight = 0.05

// World sequences the systems over a context once per fixed step
type World struct {
	mu      sync.RWMutex
	ctx     *Context
	systems []System

	updateMutex sync.Mutex

	// Cached metric pointers
	statTicks    *status.AtomicInt
	statTickTime *status.AtomicFloat
	statTickAvg  *status.AtomicFloat
}

// NewWorld binds a world to its context
func NewWorld(ctx *Context) *World {
	return &World{
		ctx:          ctx,
		statTicks:    ctx.Status.Ints.Get(status.KeyTicks),
		statTickTime: ctx.Status.Floats.Get(status.KeyTickMillis),
		statTickAvg:  ctx.Status.Floats.Get(status.KeyTickMillisAvg),
	}
}

// Context returns the owned context
func (w *World) Context() *Context { return w.ctx }

// AddSystem adds a system to the world and sorts by priority
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, system)

	// Sort by priority (bubble sort, small N, stable for equal priorities)
	for i := 0; i < len(w.systems)-1; i++ {
		for j := 0; j < len(w.systems)-i-1; j++ {
			if w.systems[j].Priority() > w.systems[j+1].Priority() {
				w.systems[j], w.systems[j+1] = w.systems[j+1], w.systems[j]
			}
		}
	}
}

// Systems returns a copy of all registered systems in run order
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// RunSafe executes a function while holding the world's update lock
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}

// Step runs every system once with dt clamped to (0, MaxDelta]
// Non-positive dt is a no-op
func (w *World) Step(dt float64) error {
	if w.ctx.Physics == nil {
		return ErrNoPhysics
	}
	if dt <= 0 {
		return nil
	}
	if max := w.ctx.Config.Loop.MaxDelta; max > 0 && dt > max {
		dt = max
	}

	w.RunSafe(func() {
		start := time.Now()
		w.ctx.Tick++
		w.ctx.Elapsed += dt
		for _, system := range w.Systems() {
			system.Update(w.ctx, dt)
		}
		w.statTicks.Store(w.ctx.Tick)
		ms := float64(time.Since(start).Microseconds()) / 1000
		w.statTickTime.Set(ms)
		w.statTickAvg.Blend(ms, tickAvgWeight)
	})
	return nil
}
