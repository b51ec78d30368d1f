// Package sim assembles the race pipeline behind a thread-safe control and snapshot surface
package sim

import (
	"io"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lixenwraith/peloton/config"
	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/physics"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/status"
	"github.com/lixenwraith/peloton/system"
)

var (
	// ErrNoPhysics is returned by New without an adapter
	ErrNoPhysics = engine.ErrNoPhysics
	// ErrUnknownRider is returned by controls naming a rider that is not in the race
	ErrUnknownRider = errors.New("unknown rider")
	// ErrUnknownTeam is returned by team controls naming a team with no riders
	ErrUnknownTeam = errors.New("unknown team")
	// ErrInvalidControl is returned for control values outside their domain
	ErrInvalidControl = errors.New("invalid control")
)

// Option customizes a Race
type Option func(*Race)

// WithLogger routes rare core diagnostics to l
func WithLogger(l *log.Logger) Option {
	return func(r *Race) { r.logger = l }
}

// WithSink subscribes s to every event before the first tick
func WithSink(s event.Sink) Option {
	return func(r *Race) { r.bus.Subscribe(s) }
}

// Race owns one simulation: context, systems, queued controls and the event bus
// Step and Snapshot are serialized so hosts may poll from other goroutines
type Race struct {
	mu      sync.Mutex
	world   *engine.World
	ctx     *engine.Context
	bus     *event.Bus
	session uuid.UUID
	logger  *log.Logger

	pendingMu sync.Mutex
	pending   []func(*engine.Context)

	statAttacks *status.AtomicInt
}

// New builds a race over adapter with the given riders placed at their TrackDist and LaneOffset
// Bodies are created through the adapter when it is a physics.Spawner, otherwise moved in place
func New(cfg config.Config, adapter physics.Adapter, riders []*rider.Rider, opts ...Option) (*Race, error) {
	if adapter == nil {
		return nil, ErrNoPhysics
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Race{
		bus:     event.NewBus(),
		session: uuid.New(),
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.ctx = engine.NewContext(cfg, adapter, r.bus, r.logger)
	r.statAttacks = r.ctx.Status.Ints.Get(status.KeyAttacksStarted)
	r.ctx.Status.Strings.Get(status.KeySession).Store(r.session.String())

	spawner, canSpawn := adapter.(physics.Spawner)
	for _, rd := range riders {
		if _, dup := r.ctx.Rider(rd.ID); dup {
			return nil, errors.Wrapf(ErrInvalidControl, "duplicate rider %d", rd.ID)
		}
		pos := r.ctx.Track.LanePosition(rd.TrackDist, rd.LaneOffset)
		if canSpawn {
			if err := spawner.AddBody(rd.ID, pos, cfg.Rider.Mass); err != nil {
				return nil, errors.Wrapf(err, "spawn rider %d", rd.ID)
			}
		} else {
			adapter.SetPosition(rd.ID, pos)
		}
		r.ctx.AddRider(rd)
	}

	r.world = engine.NewWorld(r.ctx)
	for _, s := range system.Pipeline(r.ctx) {
		r.world.AddSystem(s)
	}

	r.logger.Printf("race %s: %d riders in %d teams", r.session, len(riders), len(r.ctx.TeamIDs()))
	return r, nil
}

// Session returns the race identifier
func (r *Race) Session() uuid.UUID { return r.session }

// Events returns the bus observers subscribe to
func (r *Race) Events() *event.Bus { return r.bus }

// Status returns the metric registry
func (r *Race) Status() *status.Registry { return r.ctx.Status }

// Config returns the race configuration
func (r *Race) Config() config.Config { return r.ctx.Config }

// Adapter returns the physics backend
func (r *Race) Adapter() physics.Adapter { return r.ctx.Physics }

// Step applies queued controls then runs one tick of every system
func (r *Race) Step(dt float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pendingMu.Lock()
	pending := r.pending
	r.pending = nil
	r.pendingMu.Unlock()

	for _, apply := range pending {
		apply(r.ctx)
	}
	return r.world.Step(dt)
}

// enqueue defers a control write to the start of the next tick
func (r *Race) enqueue(apply func(*engine.Context)) {
	r.pendingMu.Lock()
	r.pending = append(r.pending, apply)
	r.pendingMu.Unlock()
}
