package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/rider"
)

// TestLaneTargets verifies the target chosen for each rider role
func TestLaneTargets(t *testing.T) {
	f := newFixture(t)
	wide := f.add(t, 1, 0, 100, 4)
	wide.BaseLaneOffset = 9

	liner := f.add(t, 2, 1, 200, 2)
	liner.InRelayLine = true

	leader := f.add(t, 3, 2, 300, -3)
	leader.IsLeader = true
	guard := f.add(t, 4, 2, 320, 1)
	guard.ProtectLeader = true

	retiring := f.add(t, 5, 3, 400, 0)
	retiring.RelayPhase = rider.PhaseFallBack
	retiring.LaneTarget = 1.5

	NewLaneSystem().Update(f.ctx, testDT)
	assert.Equal(t, f.ctx.MaxLaneOffset(), wide.LaneTarget)
	assert.Equal(t, 0.0, liner.LaneTarget)
	assert.Equal(t, -3.0, guard.LaneTarget)
	assert.Equal(t, -3.0, leader.LaneTarget)
	assert.Equal(t, 1.5, retiring.LaneTarget)

	// Offsets are owned by the kinematic sync
	assert.Equal(t, 4.0, wide.LaneOffset)
	assert.Equal(t, 2.0, liner.LaneOffset)
}

// TestLaneBlockedPullerShifts verifies an active puller behind a slower rider moves to a free lane
func TestLaneBlockedPullerShifts(t *testing.T) {
	f := newFixture(t)
	puller := f.add(t, 1, 0, 100, 0)
	puller.InRelayLine = true
	puller.RelayIntensity = 80
	puller.Speed = 10
	slow := f.add(t, 2, 1, 102, 0)
	slow.Speed = 8

	sys := NewLaneSystem()
	sys.Update(f.ctx, testDT)
	assert.Equal(t, -2.0, puller.LaneTarget)

	// Inside shift taken, the search tries the outside next
	f.add(t, 3, 1, 101, -2)
	sys.Update(f.ctx, testDT)
	assert.Equal(t, 2.0, puller.LaneTarget)

	// A faster rider ahead is no obstacle
	slow.Speed = 12
	sys.Update(f.ctx, testDT)
	assert.Equal(t, 0.0, puller.LaneTarget)
}

// TestLaneSteeringForce verifies a rider on its target feels only the crosswind
func TestLaneSteeringForce(t *testing.T) {
	f := newFixture(t)
	r := f.add(t, 1, 0, 250, 1.5)
	f.ctx.Wind = engine.Wind{Direction: 1, Strength: 0.5}

	NewLaneSystem().Update(f.ctx, testDT)
	_, right := f.ctx.Track.Frame(r.TrackDist)
	force := f.body(t, r.ID).Force
	assert.InDelta(t, right.X*0.5, force.X, 1e-9)
	assert.InDelta(t, right.Y*0.5, force.Y, 1e-9)
}
