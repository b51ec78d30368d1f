package system

import (
	"math"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/status"
)

// IntensitySystem resolves the effort of every rider from its mode and tactical role
// Rules read last tick's intensities so evaluation order inside a tick does not matter
type IntensitySystem struct {
	prev     map[rider.ID]float64
	resolved map[rider.ID]float64

	statLeader *status.AtomicFloat
}

// NewIntensitySystem creates the effort resolver
func NewIntensitySystem(ctx *engine.Context) engine.System {
	return &IntensitySystem{
		prev:       make(map[rider.ID]float64),
		resolved:   make(map[rider.ID]float64),
		statLeader: ctx.Status.Floats.Get(status.KeyLeaderIntensity),
	}
}

func (s *IntensitySystem) Name() string  { return "intensity" }
func (s *IntensitySystem) Priority() int { return parameter.PriorityIntensity }

func (s *IntensitySystem) Update(ctx *engine.Context, dt float64) {
	if len(ctx.Riders) == 0 {
		return
	}
	clear(s.prev)
	clear(s.resolved)
	for _, r := range ctx.Riders {
		s.prev[r.ID] = r.Intensity
	}
	ahead := nearestAhead(ctx)

	for _, r := range ctx.Riders {
		s.resolved[r.ID] = s.resolve(ctx, r, ahead[r.ID], dt)
	}

	// A flat-out race leader drags the organised field with it
	front := ctx.ByProgress()[0]
	if s.resolved[front.ID] >= parameter.MaxStat && !front.IsAttacking {
		for _, r := range ctx.Riders {
			if !r.IsAttacking && r.Mode != rider.ModeSolo {
				s.resolved[r.ID] = parameter.MaxStat
			}
		}
	}

	for _, r := range ctx.Riders {
		r.SetIntensity(s.resolved[r.ID])
		if prev := s.prev[r.ID]; r.Intensity != prev {
			ctx.Emit(event.EventIntensityChange, &event.IntensityChangePayload{
				Rider:    int(r.ID),
				Previous: prev,
				Current:  r.Intensity,
			})
		}
	}
	s.statLeader.Set(front.Intensity)
}

func (s *IntensitySystem) resolve(ctx *engine.Context, r *rider.Rider, ahead aheadEntry, dt float64) float64 {
	cfg := ctx.Config.Intensity

	if r.IsAttacking {
		r.SetAttackGauge(r.AttackGauge - cfg.AttackDrain*dt)
		if r.AttackGauge > 0 {
			return cfg.Attack
		}
		r.IsAttacking = false
		ctx.Emit(event.EventAttackEnded, &event.AttackPayload{Rider: int(r.ID)})
		return r.BaseIntensity
	}
	r.SetAttackGauge(r.AttackGauge + cfg.AttackRecovery*dt)

	switch {
	case r.Mode == rider.ModeSolo:
		return r.BaseIntensity
	case r.Mode == rider.ModeFollower && ahead.gap > cfg.FollowerOpenGap:
		return math.Min(r.BaseIntensity, cfg.FollowerComfort)
	case r.Mode == rider.ModeRelay && r.RelayPhase == rider.PhasePull:
		return r.RelaySetting
	}

	val := r.BaseIntensity
	if r.RelayChasing {
		val = math.Max(val, cfg.RelayChase)
	}
	if r.RelayLeader {
		val = math.Max(val, cfg.RelayLeader)
	}
	if r.InBreakaway {
		val = math.Max(val, cfg.Breakaway)
	}
	if ahead.ahead != nil {
		if ahead.gap > cfg.PelotonGap {
			val = math.Max(val, s.prev[r.ID]+cfg.RejoinRamp*dt)
		} else {
			val = math.Max(val, s.prev[ahead.ahead.ID])
		}
	}
	return val
}
