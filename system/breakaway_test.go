package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/status"
)

// TestBreakawayHysteresis verifies an 11 gap creates, 7 holds and 4 dissolves
func TestBreakawayHysteresis(t *testing.T) {
	f := newFixture(t)
	front := f.add(t, 1, 0, 100, 0)
	f.add(t, 2, 0, 93, 0)
	f.add(t, 3, 0, 91, 0)
	sys := NewBreakawaySystem(f.ctx)

	// A gap of 7 never creates a group
	sys.Update(f.ctx, testDT)
	assert.False(t, f.ctx.Breakaway.Active())

	front.TrackDist = 104
	sys.Update(f.ctx, testDT)
	require.True(t, f.ctx.Breakaway.Active())
	assert.Equal(t, []rider.ID{1}, f.ctx.Breakaway.Members)
	assert.InDelta(t, 11, f.ctx.Breakaway.Gap, 1e-12)
	assert.True(t, front.InBreakaway)
	require.Len(t, f.rec.ofType(event.EventBreakawayFormed), 1)

	// Inside the hysteresis band the group survives with a refreshed gap
	front.TrackDist = 100
	sys.Update(f.ctx, testDT)
	assert.True(t, f.ctx.Breakaway.Active())
	assert.InDelta(t, 7, f.ctx.Breakaway.Gap, 1e-12)
	assert.Len(t, f.rec.ofType(event.EventBreakawayFormed), 1)

	front.TrackDist = 97
	sys.Update(f.ctx, testDT)
	assert.False(t, f.ctx.Breakaway.Active())
	assert.False(t, front.InBreakaway)
	assert.Equal(t, 0.0, f.ctx.Breakaway.Gap)
	require.Len(t, f.rec.ofType(event.EventBreakawayDissolved), 1)
	payload := f.rec.ofType(event.EventBreakawayDissolved)[0].Payload.(*event.BreakawayPayload)
	assert.Equal(t, []int{1}, payload.Members)
}

// TestBreakawayAbsorbsBridgers verifies a rider passing a member joins the group
func TestBreakawayAbsorbsBridgers(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 0, 120, 0)
	f.add(t, 2, 0, 118, 0)
	bridger := f.add(t, 3, 0, 100, 0)
	f.add(t, 4, 0, 80, 0)
	sys := NewBreakawaySystem(f.ctx)

	sys.Update(f.ctx, testDT)
	require.Equal(t, []rider.ID{1, 2}, f.ctx.Breakaway.Members)
	assert.InDelta(t, 18, f.ctx.Breakaway.Gap, 1e-12)

	bridger.TrackDist = 119
	sys.Update(f.ctx, testDT)
	assert.Equal(t, []rider.ID{1, 3, 2}, f.ctx.Breakaway.Members)
	assert.InDelta(t, 38, f.ctx.Breakaway.Gap, 1e-12)
	assert.True(t, bridger.InBreakaway)
	assert.Equal(t, int64(3), f.ctx.Status.Ints.Get(status.KeyBreakawaySize).Load())
}

// TestBreakawayIgnoresLappedRider verifies gaps are measured on the road, so a rider one lap down
// riding inside the bunch neither opens a gap nor appears detached
func TestBreakawayIgnoresLappedRider(t *testing.T) {
	f := newFixture(t)
	length := f.ctx.Track.Length
	f.add(t, 1, 0, 100, 0)
	f.add(t, 2, 0, 98, 0)
	f.add(t, 3, 0, 96, 0)
	f.add(t, 4, 1, 97-length, 0)
	sys := NewBreakawaySystem(f.ctx)

	sys.Update(f.ctx, testDT)
	assert.False(t, f.ctx.Breakaway.Active())
	assert.Empty(t, f.rec.ofType(event.EventBreakawayFormed))

	ahead := nearestAhead(f.ctx)
	require.NotNil(t, ahead[4].ahead)
	assert.Equal(t, rider.ID(2), ahead[4].ahead.ID)
	assert.InDelta(t, 1, ahead[4].gap, 1e-9)
	assert.Equal(t, rider.ID(4), ahead[3].ahead.ID)
	assert.InDelta(t, 1, ahead[3].gap, 1e-9)
}

// TestBreakawayClosingRate verifies the chase effort normalization and its clamp
func TestBreakawayClosingRate(t *testing.T) {
	f := newFixture(t)
	f.add(t, 1, 0, 200, 0)
	a := f.add(t, 2, 1, 100, 0)
	b := f.add(t, 3, 1, 98, 0)
	idle := f.add(t, 4, 2, 96, 0)
	sys := NewBreakawaySystem(f.ctx)

	sys.Update(f.ctx, testDT)
	assert.Equal(t, 0.0, f.ctx.Breakaway.ClosingRate)

	a.RelayChasing, a.Intensity = true, 70
	b.RelayChasing, b.Intensity = true, 80
	idle.Intensity = 100
	sys.Update(f.ctx, testDT)
	assert.InDelta(t, 0.5, f.ctx.Breakaway.ClosingRate, 1e-12)

	a.Intensity, b.Intensity = 40, 30
	sys.Update(f.ctx, testDT)
	assert.Equal(t, 0.0, f.ctx.Breakaway.ClosingRate)
}
