package rider

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewRiderDefaults verifies a fresh rider starts rested in the relay line
func TestNewRiderDefaults(t *testing.T) {
	r := New(7, 2)
	assert.Equal(t, ID(7), r.ID)
	assert.Equal(t, 2, r.Team)
	assert.Equal(t, 100.0, r.Energy)
	assert.Equal(t, 100.0, r.AttackGauge)
	assert.Equal(t, 1.0, r.DraftFactor)
	assert.Equal(t, ModeFollower, r.Mode)
	assert.Equal(t, PhaseLine, r.RelayPhase)
	assert.False(t, r.InRelayPool())
}

// TestClampOnWrite verifies every setter bounds its value to [0, 100]
func TestClampOnWrite(t *testing.T) {
	r := New(1, 0)

	r.SetEnergy(-3)
	assert.Equal(t, 0.0, r.Energy)
	r.SetEnergy(140)
	assert.Equal(t, 100.0, r.Energy)

	r.SetAttackGauge(-1)
	assert.Equal(t, 0.0, r.AttackGauge)

	r.SetIntensity(101)
	assert.Equal(t, 100.0, r.Intensity)

	r.SetBaseIntensity(-20)
	assert.Equal(t, 0.0, r.BaseIntensity)

	r.SetRelaySetting(250)
	assert.Equal(t, 100.0, r.RelaySetting)

	r.SetIntensity(math.NaN())
	assert.Equal(t, 0.0, r.Intensity)
	r.SetBaseIntensity(math.NaN())
	assert.Equal(t, 0.0, r.BaseIntensity)
}

// TestPhaseTransitionTable verifies only the line -> pull -> fall_back -> line cycle is legal
func TestPhaseTransitionTable(t *testing.T) {
	legal := map[[2]Phase]bool{
		{PhaseLine, PhasePull}:     true,
		{PhasePull, PhaseFallBack}: true,
		{PhaseFallBack, PhaseLine}: true,
	}
	all := []Phase{PhaseLine, PhasePull, PhaseFallBack}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, legal[[2]Phase{from, to}], from.CanTransition(to), "%s -> %s", from, to)
		}
	}

	r := New(1, 0)
	assert.False(t, r.TransitionTo(PhaseFallBack))
	assert.Equal(t, PhaseLine, r.RelayPhase)
	assert.True(t, r.TransitionTo(PhasePull))
	assert.True(t, r.TransitionTo(PhaseFallBack))
	assert.True(t, r.FallingBack())
	assert.True(t, r.TransitionTo(PhaseLine))
}

// TestRelayPoolMembership verifies pool requires relay mode and a non-zero setting
func TestRelayPoolMembership(t *testing.T) {
	r := New(1, 0)
	r.Mode = ModeRelay
	assert.False(t, r.InRelayPool())
	r.SetRelaySetting(60)
	assert.True(t, r.InRelayPool())
	r.Mode = ModeSolo
	assert.False(t, r.InRelayPool())
}

// TestModeNames verifies string round trip of modes
func TestModeNames(t *testing.T) {
	for _, m := range []Mode{ModeFollower, ModeSolo, ModeRelay} {
		got, ok := ParseMode(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := ParseMode("peloton")
	assert.False(t, ok)
	assert.False(t, Mode(9).Valid())
	assert.Equal(t, "fall_back", PhaseFallBack.String())
}

// TestTeamSideAlternates verifies pull-off side flips each rotation
func TestTeamSideAlternates(t *testing.T) {
	ts := NewTeamRelayState()
	assert.Equal(t, 1.0, ts.Side)
	ts.FlipSide()
	assert.Equal(t, -1.0, ts.Side)
	ts.FlipSide()
	assert.Equal(t, 1.0, ts.Side)
}
