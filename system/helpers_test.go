package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/peloton/config"
	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/physics"
	"github.com/lixenwraith/peloton/rider"
)

const testDT = 1.0 / 60

// recorder collects emitted events in order
type recorder struct {
	events []event.Event
}

func (r *recorder) Emit(ev event.Event) { r.events = append(r.events, ev) }

func (r *recorder) ofType(t event.EventType) []event.Event {
	var out []event.Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// fixture is a context over a point-mass world with a recording sink
type fixture struct {
	ctx   *engine.Context
	world *physics.PointMassWorld
	rec   *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	world := physics.NewPointMassWorld()
	rec := &recorder{}
	ctx := engine.NewContext(cfg, world, rec, nil)
	ctx.Wind = engine.Wind{}
	return &fixture{ctx: ctx, world: world, rec: rec}
}

// add places a rider body on its lane at a cumulative distance
func (f *fixture) add(t *testing.T, id rider.ID, team int, dist, lane float64) *rider.Rider {
	t.Helper()
	r := rider.New(id, team)
	r.TrackDist = dist
	r.PrevDist = f.ctx.Track.Wrap(dist)
	r.LaneOffset = lane
	r.BaseLaneOffset = lane
	r.LaneTarget = lane
	f.ctx.AddRider(r)
	require.NoError(t, f.world.AddBody(id, f.ctx.Track.LanePosition(dist, lane), f.ctx.Config.Rider.Mass))
	return r
}

// file lines up n riders on lane 0, the first at front, spaced by gap
func (f *fixture) file(t *testing.T, n int, front, gap float64) []*rider.Rider {
	t.Helper()
	out := make([]*rider.Rider, n)
	for i := range out {
		out[i] = f.add(t, rider.ID(i+1), 0, front-float64(i)*gap, 0)
	}
	return out
}

func (f *fixture) body(t *testing.T, id rider.ID) physics.Body {
	t.Helper()
	b, ok := f.world.Body(id)
	require.True(t, ok)
	return b
}
