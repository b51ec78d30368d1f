// Package rider holds the per-agent mutable race record and the closed tactical enums
package rider

import (
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/vmath"
)

// ID identifies a rider, stable for the race lifetime
type ID int

// Rider is the per-agent state mutated once per tick by the systems
// Created at setup, never destroyed
type Rider struct {
	ID       ID
	Team     int
	IsLeader bool

	// Progress
	TrackDist float64 // Cumulative, lap aware
	PrevDist  float64 // Raw in-lap distance of the previous tick
	Lap       int

	// Lateral
	LaneOffset     float64
	BaseLaneOffset float64
	LaneTarget     float64

	// Motion
	Speed             float64
	DraftFactor       float64
	RollingResistance float64
	Boost             float64

	// Tactics
	Mode           Mode
	RelaySetting   float64
	RelayPhase     Phase
	RelayTimer     float64
	RelayIntensity float64
	RelayChasing   bool
	RelayLeader    bool
	InRelayLine    bool
	InRelayCluster bool
	ProtectLeader  bool

	// Breakaway and bordure
	InBreakaway    bool
	BordureChasing bool
	BordurePenalty float64

	// Physiology
	Energy      float64
	AttackGauge float64
	IsAttacking bool

	// Effort
	BaseIntensity float64
	Intensity     float64
}

// New creates a rider with full energy and gauge at the default intensity
func New(id ID, team int) *Rider {
	return &Rider{
		ID:            id,
		Team:          team,
		DraftFactor:   1,
		Mode:          ModeFollower,
		RelayPhase:    PhaseLine,
		Energy:        parameter.MaxStat,
		AttackGauge:   parameter.MaxStat,
		BaseIntensity: parameter.DefaultIntensity,
		Intensity:     parameter.DefaultIntensity,
	}
}

// ClampStat bounds a physiology or effort value to [0, MaxStat], NaN reads as 0
func ClampStat(v float64) float64 {
	return vmath.Clamp(v, 0, parameter.MaxStat)
}

// SetEnergy writes energy clamped
func (r *Rider) SetEnergy(v float64) { r.Energy = ClampStat(v) }

// SetAttackGauge writes the attack gauge clamped
func (r *Rider) SetAttackGauge(v float64) { r.AttackGauge = ClampStat(v) }

// SetIntensity writes the resolved intensity clamped
func (r *Rider) SetIntensity(v float64) { r.Intensity = ClampStat(v) }

// SetBaseIntensity writes the base intensity clamped
func (r *Rider) SetBaseIntensity(v float64) { r.BaseIntensity = ClampStat(v) }

// SetRelaySetting writes the pull effort clamped, zero opts the rider out of relays
func (r *Rider) SetRelaySetting(v float64) { r.RelaySetting = ClampStat(v) }

// InRelayPool reports whether the rider may take part in its team rotation
func (r *Rider) InRelayPool() bool {
	return r.Mode == ModeRelay && r.RelaySetting > 0
}

// FallingBack reports whether the rider is in the pull-off phase
func (r *Rider) FallingBack() bool {
	return r.RelayPhase == PhaseFallBack
}

// TransitionTo moves the relay phase along the legal cycle
// Returns false and leaves the phase unchanged when the edge is not allowed
func (r *Rider) TransitionTo(next Phase) bool {
	if !r.RelayPhase.CanTransition(next) {
		return false
	}
	r.RelayPhase = next
	return true
}

// TeamRelayState is the per-team rotation cursor
type TeamRelayState struct {
	QueueIndex int
	Timer      float64
	Side       float64 // +1 or -1, side the next puller drifts to
}

// NewTeamRelayState starts a rotation at the head of the queue drifting outward
func NewTeamRelayState() *TeamRelayState {
	return &TeamRelayState{Side: 1}
}

// FlipSide alternates the pull-off side
func (t *TeamRelayState) FlipSide() {
	if t.Side >= 0 {
		t.Side = -1
	} else {
		t.Side = 1
	}
}
