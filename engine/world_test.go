package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/peloton/config"
	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/physics"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/status"
)

type recordingSystem struct {
	name     string
	priority int
	log      *[]string
	dts      []float64
}

func (s *recordingSystem) Name() string  { return s.name }
func (s *recordingSystem) Priority() int { return s.priority }
func (s *recordingSystem) Update(ctx *Context, dt float64) {
	*s.log = append(*s.log, s.name)
	s.dts = append(s.dts, dt)
}

func newTestContext() *Context {
	return NewContext(config.Default(), physics.NewPointMassWorld(), nil, nil)
}

// TestWorldRunsSystemsByPriority verifies systems run in ascending priority regardless of insertion order
func TestWorldRunsSystemsByPriority(t *testing.T) {
	var order []string
	w := NewWorld(newTestContext())
	w.AddSystem(&recordingSystem{name: "lane", priority: 400, log: &order})
	w.AddSystem(&recordingSystem{name: "sync", priority: 10, log: &order})
	w.AddSystem(&recordingSystem{name: "relay", priority: 200, log: &order})

	require.NoError(t, w.Step(1.0/60))
	assert.Equal(t, []string{"sync", "relay", "lane"}, order)
	assert.Equal(t, int64(1), w.Context().Tick)
	assert.Equal(t, int64(1), w.Context().Status.Ints.Get(status.KeyTicks).Load())
}

// TestWorldClampsDelta verifies oversized steps are clamped and non-positive steps skipped
func TestWorldClampsDelta(t *testing.T) {
	var order []string
	sys := &recordingSystem{name: "s", log: &order}
	w := NewWorld(newTestContext())
	w.AddSystem(sys)

	require.NoError(t, w.Step(2.5))
	require.NoError(t, w.Step(0))
	require.NoError(t, w.Step(-1))
	assert.Equal(t, []float64{0.1}, sys.dts)
	assert.InDelta(t, 0.1, w.Context().Elapsed, 1e-12)
}

// TestWorldRequiresPhysics verifies ticking without an adapter is refused
func TestWorldRequiresPhysics(t *testing.T) {
	ctx := NewContext(config.Default(), nil, nil, nil)
	w := NewWorld(ctx)
	assert.ErrorIs(t, w.Step(0.016), ErrNoPhysics)
	assert.Equal(t, int64(0), ctx.Tick)
}

// TestContextRiderIndex verifies lookup, team registration and progress ordering
func TestContextRiderIndex(t *testing.T) {
	ctx := newTestContext()
	for _, tc := range []struct {
		id   rider.ID
		team int
		dist float64
	}{{3, 1, 50}, {1, 0, 80}, {2, 0, 80}, {4, 1, 10}} {
		r := rider.New(tc.id, tc.team)
		r.TrackDist = tc.dist
		ctx.AddRider(r)
	}

	assert.Equal(t, []int{0, 1}, ctx.TeamIDs())
	assert.Len(t, ctx.TeamRiders(1), 2)
	_, ok := ctx.Rider(4)
	assert.True(t, ok)
	_, ok = ctx.Rider(9)
	assert.False(t, ok)

	ids := []rider.ID{}
	for _, r := range ctx.ByProgress() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []rider.ID{1, 2, 3, 4}, ids)
	assert.Equal(t, rider.ID(1), ctx.Riders[0].ID)

	lapped := rider.New(5, 1)
	lapped.TrackDist = 60 - ctx.Track.Length
	ctx.AddRider(lapped)
	road := []rider.ID{}
	for _, r := range ctx.ByRoad() {
		road = append(road, r.ID)
	}
	assert.Equal(t, []rider.ID{1, 2, 5, 3, 4}, road)
}

// TestContextEmitStampsTick verifies events carry the current tick
func TestContextEmitStampsTick(t *testing.T) {
	q := event.NewQueue()
	ctx := NewContext(config.Default(), physics.NewPointMassWorld(), q, nil)
	ctx.Tick = 7
	ctx.Emit(event.EventPhaseChange, &event.PhaseChangePayload{Rider: 1})

	evs := q.Drain()
	require.Len(t, evs, 1)
	assert.Equal(t, int64(7), evs[0].Tick)
}

// TestBreakawayStateMembership verifies helpers
func TestBreakawayStateMembership(t *testing.T) {
	var b BreakawayState
	assert.False(t, b.Active())
	b.Members = []rider.ID{4, 2}
	b.Gap = 12
	assert.True(t, b.Active())
	assert.True(t, b.Contains(2))
	assert.False(t, b.Contains(3))
	b.Clear()
	assert.False(t, b.Active())
	assert.Zero(t, b.Gap)
}
