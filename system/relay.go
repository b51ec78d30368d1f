package system

import (
	"math"

	"github.com/samber/lo"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/status"
	"github.com/lixenwraith/peloton/track"
)

// RelaySystem runs the per-team echelon rotation
// Pool riders are grouped into a queue, one rider pulls at the front for a share of the
// base interval, then drifts aside and decays back into the line
type RelaySystem struct {
	statRotations *status.AtomicInt
}

// NewRelaySystem creates the relay queue controller
func NewRelaySystem(ctx *engine.Context) engine.System {
	return &RelaySystem{
		statRotations: ctx.Status.Ints.Get(status.KeyRelayRotations),
	}
}

func (s *RelaySystem) Name() string  { return "relay" }
func (s *RelaySystem) Priority() int { return parameter.PriorityRelay }

func (s *RelaySystem) Update(ctx *engine.Context, dt float64) {
	for _, r := range ctx.Riders {
		r.RelayChasing = false
		r.InRelayLine = false
		r.RelayLeader = false
		r.InRelayCluster = false
	}

	s.expireFallBack(ctx, dt)

	for _, team := range ctx.TeamIDs() {
		s.updateTeam(ctx, team, dt)
	}

	s.updateClusters(ctx)
}

// expireFallBack advances pull-off timers; the tick a rider enters fall_back is not counted
func (s *RelaySystem) expireFallBack(ctx *engine.Context, dt float64) {
	pullOff := ctx.Config.Relay.PullOffTime
	for _, r := range ctx.Riders {
		if !r.FallingBack() {
			continue
		}
		r.RelayTimer += dt
		r.RelayIntensity = r.RelaySetting * math.Max(0, 1-r.RelayTimer/pullOff)
		if r.RelayTimer < pullOff-phaseEpsilon {
			continue
		}
		setPhase(ctx, r, rider.PhaseLine)
		r.RelayTimer = 0
		r.RelayIntensity = 0
		r.RelayChasing = true
		r.LaneTarget = 0
	}
}

func (s *RelaySystem) updateTeam(ctx *engine.Context, team int, dt float64) {
	cfg := ctx.Config.Relay
	state := ctx.Teams[team]
	members := ctx.TeamRiders(team)

	protected := lo.SomeBy(members, func(r *rider.Rider) bool { return r.ProtectLeader && !r.IsLeader })
	inPool := func(r *rider.Rider) bool {
		return r.InRelayPool() && !(protected && r.IsLeader)
	}

	// Riders that left the pool mid-pull hand over immediately
	for _, r := range members {
		if r.RelayPhase == rider.PhasePull && !inPool(r) {
			s.startFallBack(ctx, r, state)
		}
		if r.RelayPhase == rider.PhaseLine {
			r.RelayIntensity = 0
		}
	}

	pool := engine.SortByProgress(lo.Filter(members, func(r *rider.Rider, _ int) bool { return inPool(r) }))
	queue := longestRun(pool, cfg.JoinGap, ctx.Track.Length)

	if len(queue) < 2 {
		for _, r := range pool {
			if r.RelayPhase == rider.PhasePull {
				s.startFallBack(ctx, r, state)
			}
		}
		return
	}

	inQueue := lo.SliceToMap(queue, func(r *rider.Rider) (rider.ID, bool) { return r.ID, true })
	for _, r := range pool {
		if r.RelayPhase == rider.PhasePull && !inQueue[r.ID] {
			s.startFallBack(ctx, r, state)
		}
	}

	leader := s.currentLeader(ctx, queue, state)
	if leader == nil {
		leader = selectLeader(queue, state, ctx.Config.Energy.Threshold)
		state.Timer = 0
		if leader != nil {
			setPhase(ctx, leader, rider.PhasePull)
		}
	}

	if leader != nil {
		state.Timer += dt
		interval := cfg.BaseInterval / float64(len(queue))
		if state.Timer >= interval-phaseEpsilon {
			state.QueueIndex = (lo.IndexOf(queue, leader) + 1) % len(queue)
			s.startFallBack(ctx, leader, state)
			state.FlipSide()
			state.Timer = 0
			s.statRotations.Add(1)

			leader = selectLeader(queue, state, ctx.Config.Energy.Threshold)
			if leader != nil {
				setPhase(ctx, leader, rider.PhasePull)
			}
		}
	}

	line := lo.Filter(queue, func(r *rider.Rider, _ int) bool { return !r.FallingBack() })
	for i, r := range line {
		r.InRelayLine = true
		if r == leader {
			r.RelayLeader = true
			r.RelayIntensity = r.RelaySetting
		} else {
			r.RelayIntensity = 0
		}
		if i == 0 {
			continue
		}
		s.keepGap(ctx, line[i-1], r)
	}

	for _, r := range members {
		if !inQueue[r.ID] && !r.FallingBack() {
			r.RelayChasing = true
		}
	}
}

// currentLeader returns the rider still pulling for the team when it may keep the front
// A puller that dropped out of the queue or ran out of energy falls back at once
func (s *RelaySystem) currentLeader(ctx *engine.Context, queue []*rider.Rider, state *rider.TeamRelayState) *rider.Rider {
	var leader *rider.Rider
	for _, r := range queue {
		if r.RelayPhase != rider.PhasePull {
			continue
		}
		if leader == nil && r.Energy >= ctx.Config.Energy.Threshold {
			leader = r
			continue
		}
		s.startFallBack(ctx, r, state)
	}
	return leader
}

// selectLeader walks the queue from the rotation cursor, skipping spent and retiring riders
func selectLeader(queue []*rider.Rider, state *rider.TeamRelayState, threshold float64) *rider.Rider {
	n := len(queue)
	idx := ((state.QueueIndex % n) + n) % n
	for attempt := 0; attempt < n; attempt++ {
		c := queue[idx]
		if c.Energy >= threshold && !c.FallingBack() {
			state.QueueIndex = idx
			return c
		}
		idx = (idx + 1) % n
	}
	return nil
}

// startFallBack retires a puller to the team's current pull-off side
func (s *RelaySystem) startFallBack(ctx *engine.Context, r *rider.Rider, state *rider.TeamRelayState) {
	if !setPhase(ctx, r, rider.PhaseFallBack) {
		return
	}
	r.RelayTimer = 0
	r.RelayIntensity = r.RelaySetting
	r.RelayLeader = false
	r.InRelayLine = false
	r.LaneTarget = state.Side * ctx.Config.Relay.PullOffset
}

// keepGap pushes a follower back into the [min, max] band behind its predecessor
func (s *RelaySystem) keepGap(ctx *engine.Context, ahead, r *rider.Rider) {
	cfg := ctx.Config.Relay
	dist := track.AheadDistance(r.TrackDist, ahead.TrackDist, ctx.Track.Length)
	if dist > cfg.TargetGap {
		r.RelayChasing = true
	}

	var diff float64
	switch {
	case dist > cfg.MaxDist:
		diff = dist - cfg.MaxDist
	case dist < cfg.MinDist:
		diff = dist - cfg.MinDist
	default:
		return
	}
	forward, _ := ctx.Track.Frame(r.TrackDist)
	mass := ctx.Physics.Mass(r.ID)
	ctx.Physics.ApplyForce(r.ID, forward.Scale(diff*cfg.CorrectionGain*mass))
}

// updateClusters publishes mean and spread of each team's relay line
func (s *RelaySystem) updateClusters(ctx *engine.Context) {
	for _, team := range ctx.TeamIDs() {
		line := lo.Filter(ctx.TeamRiders(team), func(r *rider.Rider, _ int) bool { return r.InRelayLine })
		for _, r := range line {
			r.InRelayCluster = true
		}
		ctx.Clusters[team] = clusterStats(line)
	}
}

// clusterStats is the population mean and standard deviation of TrackDist
func clusterStats(riders []*rider.Rider) engine.ClusterStats {
	if len(riders) == 0 {
		return engine.ClusterStats{}
	}
	n := float64(len(riders))
	mean := lo.SumBy(riders, func(r *rider.Rider) float64 { return r.TrackDist }) / n
	variance := lo.SumBy(riders, func(r *rider.Rider) float64 {
		d := r.TrackDist - mean
		return d * d
	}) / n
	return engine.ClusterStats{Count: len(riders), Mean: mean, StdDev: math.Sqrt(variance)}
}

// longestRun returns the longest run of consecutive riders whose gaps stay within joinGap
// Riders must be sorted front to back; ties keep the front-most run
func longestRun(sorted []*rider.Rider, joinGap, length float64) []*rider.Rider {
	if len(sorted) == 0 {
		return nil
	}
	bestStart, bestLen := 0, 1
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && track.AheadDistance(sorted[i].TrackDist, sorted[i-1].TrackDist, length) <= joinGap {
			continue
		}
		if i-start > bestLen {
			bestStart, bestLen = start, i-start
		}
		start = i
	}
	return sorted[bestStart : bestStart+bestLen]
}
