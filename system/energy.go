package system

import (
	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/rider"
)

// EnergySystem drains riders doing the work and recovers the sheltered ones
type EnergySystem struct{}

// NewEnergySystem creates the fatigue model
func NewEnergySystem() engine.System {
	return &EnergySystem{}
}

func (s *EnergySystem) Name() string  { return "energy" }
func (s *EnergySystem) Priority() int { return parameter.PriorityEnergy }

func (s *EnergySystem) Update(ctx *engine.Context, dt float64) {
	cfg := ctx.Config.Energy
	minGap := ctx.Config.Breakaway.MinGap
	gap := ctx.Breakaway.Gap

	for _, r := range ctx.Riders {
		pulling := r.RelayPhase == rider.PhasePull

		fatigue := cfg.FatigueRate
		if r.InBreakaway && minGap > 0 && gap < minGap {
			fatigue += cfg.FatigueRate * (1 - gap/minGap)
		}
		// The puller sits in the line but takes the wind
		exposed := r.DraftFactor <= 1 && (!r.InRelayLine || pulling)
		if exposed {
			fatigue *= cfg.ExposedMultiplier
		} else {
			fatigue *= cfg.ShelteredMultiplier
		}

		switch {
		case pulling || (r.InBreakaway && !r.InRelayLine):
			r.SetEnergy(r.Energy - fatigue*dt)
		case r.DraftFactor > 1 || r.InRelayLine:
			recovery := cfg.RecoveryRate * dt
			if !r.InBreakaway && r.DraftFactor > 1 {
				recovery *= r.DraftFactor
			}
			r.SetEnergy(r.Energy + recovery)
		}
	}
}
