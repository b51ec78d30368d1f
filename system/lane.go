package system

import (
	"math"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/track"
	"github.com/lixenwraith/peloton/vmath"
)

// laneSample is the per-tick view other riders are judged against
type laneSample struct {
	id    rider.ID
	dist  float64
	lane  float64
	speed float64
}

// LaneSystem picks a lateral target per rider and steers toward it under crosswind
type LaneSystem struct {
	samples []laneSample
	targets []float64
	rates   []float64
}

// NewLaneSystem creates the lane and overtake negotiator
func NewLaneSystem() engine.System {
	return &LaneSystem{}
}

func (s *LaneSystem) Name() string  { return "lane" }
func (s *LaneSystem) Priority() int { return parameter.PriorityLane }

func (s *LaneSystem) Update(ctx *engine.Context, dt float64) {
	cfg := ctx.Config.Lane
	n := len(ctx.Riders)

	s.samples = s.samples[:0]
	for _, r := range ctx.Riders {
		s.samples = append(s.samples, laneSample{id: r.ID, dist: r.TrackDist, lane: r.LaneOffset, speed: r.Speed})
	}
	s.targets = resize(s.targets, n)
	s.rates = resize(s.rates, n)

	// Decide against the snapshot
	maxLane := ctx.MaxLaneOffset()
	for i, r := range ctx.Riders {
		target, rate := s.decide(ctx, r)
		s.targets[i] = vmath.Clamp(target, -maxLane, maxLane)
		s.rates[i] = rate
	}

	// Commit and steer
	wind := ctx.Wind
	for i, r := range ctx.Riders {
		r.LaneTarget = s.targets[i]

		lane := vmath.Lerp(r.LaneOffset, r.LaneTarget, vmath.Clamp(dt*s.rates[i], 0, 1))
		_, right := ctx.Track.Frame(r.TrackDist)
		desired := ctx.Track.LanePosition(r.TrackDist, lane)
		pos := ctx.Physics.Position(r.ID)

		force := desired.Sub(pos).Scale(cfg.LateralForce)
		force = force.Add(right.Scale(wind.Strength * float64(wind.Direction)))
		ctx.Physics.ApplyForce(r.ID, force)
	}
}

func (s *LaneSystem) decide(ctx *engine.Context, r *rider.Rider) (target, rate float64) {
	cfg := ctx.Config.Lane

	if r.FallingBack() {
		return r.LaneTarget, cfg.ChangeRate
	}
	if r.RelayIntensity > 0 && s.blocked(ctx, r) {
		if free, ok := s.freeLane(ctx, r); ok {
			return free, cfg.ChangeRate
		}
		return r.LaneOffset, cfg.ChangeRate
	}
	if r.InRelayLine {
		return 0, cfg.RelayRate
	}
	if r.ProtectLeader {
		if leader := teamLeader(ctx, r.Team); leader != nil && leader != r {
			return leader.LaneOffset, cfg.ChangeRate
		}
	}
	return r.BaseLaneOffset, cfg.ChangeRate
}

// blocked reports a slower rider directly ahead on the same line
func (s *LaneSystem) blocked(ctx *engine.Context, r *rider.Rider) bool {
	cfg := ctx.Config.Lane
	for _, o := range s.samples {
		if o.id == r.ID {
			continue
		}
		d := track.AheadDistance(r.TrackDist, o.dist, ctx.Track.Length)
		if d > 0 && d < cfg.SafeDist && math.Abs(o.lane-r.LaneOffset) < cfg.BlockGap && o.speed <= r.Speed {
			return true
		}
	}
	return false
}

// freeLane searches shifts of growing size on alternating sides, inside first
func (s *LaneSystem) freeLane(ctx *engine.Context, r *rider.Rider) (float64, bool) {
	cfg := ctx.Config.Lane
	limit := ctx.Track.RoadWidth/2 - 1
	for shift := cfg.ShiftStep; shift <= 2*limit; shift += cfg.ShiftStep {
		for _, sign := range [2]float64{-1, 1} {
			cand := r.LaneOffset + sign*shift
			if math.Abs(cand) > limit {
				continue
			}
			if s.laneFree(ctx, r, cand) {
				return cand, true
			}
		}
	}
	return 0, false
}

func (s *LaneSystem) laneFree(ctx *engine.Context, r *rider.Rider, lane float64) bool {
	cfg := ctx.Config.Lane
	for _, o := range s.samples {
		if o.id == r.ID {
			continue
		}
		if track.WrapDistance(r.TrackDist, o.dist, ctx.Track.Length) < cfg.SafeDist && math.Abs(lane-o.lane) < cfg.BlockGap {
			return false
		}
	}
	return true
}

func teamLeader(ctx *engine.Context, team int) *rider.Rider {
	for _, r := range ctx.Riders {
		if r.Team == team && r.IsLeader {
			return r
		}
	}
	return nil
}

func resize(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	return buf[:n]
}
