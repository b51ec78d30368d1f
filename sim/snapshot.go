package sim

import (
	"github.com/samber/lo"

	"github.com/lixenwraith/peloton/rider"
)

// RiderSnapshot is an immutable copy of one rider
type RiderSnapshot struct {
	ID             int     `json:"id"`
	Team           int     `json:"team"`
	IsLeader       bool    `json:"is_leader"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	TrackDist      float64 `json:"track_dist"`
	Lap            int     `json:"lap"`
	LaneOffset     float64 `json:"lane_offset"`
	LaneTarget     float64 `json:"lane_target"`
	Speed          float64 `json:"speed"`
	DraftFactor    float64 `json:"draft_factor"`
	Mode           string  `json:"mode"`
	Phase          string  `json:"phase"`
	RelaySetting   float64 `json:"relay_setting"`
	RelayIntensity float64 `json:"relay_intensity"`
	RelayChasing   bool    `json:"relay_chasing"`
	InRelayLine    bool    `json:"in_relay_line"`
	ProtectLeader  bool    `json:"protect_leader"`
	InBreakaway    bool    `json:"in_breakaway"`
	BordureChasing bool    `json:"bordure_chasing"`
	Energy         float64 `json:"energy"`
	AttackGauge    float64 `json:"attack_gauge"`
	IsAttacking    bool    `json:"is_attacking"`
	BaseIntensity  float64 `json:"base_intensity"`
	Intensity      float64 `json:"intensity"`
}

// TeamSnapshot is the relay state and line statistics of one team
type TeamSnapshot struct {
	Team       int     `json:"team"`
	QueueIndex int     `json:"queue_index"`
	Side       float64 `json:"side"`
	LineCount  int     `json:"line_count"`
	LineMean   float64 `json:"line_mean"`
	LineStdDev float64 `json:"line_std_dev"`
}

// BreakawaySnapshot describes the front group
type BreakawaySnapshot struct {
	Members     []int   `json:"members"`
	Gap         float64 `json:"gap"`
	ClosingRate float64 `json:"closing_rate"`
}

// WindSnapshot is the crosswind in effect
type WindSnapshot struct {
	Direction int     `json:"direction"`
	Strength  float64 `json:"strength"`
}

// Snapshot is a point-in-time copy of the race, safe to keep and share
type Snapshot struct {
	Session     string            `json:"session"`
	Tick        int64             `json:"tick"`
	Elapsed     float64           `json:"elapsed"`
	TrackLength float64           `json:"track_length"`
	RoadWidth   float64           `json:"road_width"`
	Wind        WindSnapshot      `json:"wind"`
	Breakaway   BreakawaySnapshot `json:"breakaway"`
	Teams       []TeamSnapshot    `json:"teams"`
	Riders      []RiderSnapshot   `json:"riders"` // Ordered by ID
}

// Snapshot copies the current race state
func (r *Race) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx := r.ctx
	snap := Snapshot{
		Session:     r.session.String(),
		Tick:        ctx.Tick,
		Elapsed:     ctx.Elapsed,
		TrackLength: ctx.Track.Length,
		RoadWidth:   ctx.Track.RoadWidth,
		Wind:        WindSnapshot{Direction: ctx.Wind.Direction, Strength: ctx.Wind.Strength},
		Breakaway: BreakawaySnapshot{
			Members:     lo.Map(ctx.Breakaway.Members, func(id rider.ID, _ int) int { return int(id) }),
			Gap:         ctx.Breakaway.Gap,
			ClosingRate: ctx.Breakaway.ClosingRate,
		},
	}

	snap.Teams = lo.Map(ctx.TeamIDs(), func(team int, _ int) TeamSnapshot {
		state := ctx.Teams[team]
		stats := ctx.Clusters[team]
		return TeamSnapshot{
			Team:       team,
			QueueIndex: state.QueueIndex,
			Side:       state.Side,
			LineCount:  stats.Count,
			LineMean:   stats.Mean,
			LineStdDev: stats.StdDev,
		}
	})

	snap.Riders = lo.Map(ctx.Riders, func(rd *rider.Rider, _ int) RiderSnapshot {
		pos := ctx.Physics.Position(rd.ID)
		return RiderSnapshot{
			ID:             int(rd.ID),
			Team:           rd.Team,
			IsLeader:       rd.IsLeader,
			X:              pos.X,
			Y:              pos.Y,
			TrackDist:      rd.TrackDist,
			Lap:            rd.Lap,
			LaneOffset:     rd.LaneOffset,
			LaneTarget:     rd.LaneTarget,
			Speed:          rd.Speed,
			DraftFactor:    rd.DraftFactor,
			Mode:           rd.Mode.String(),
			Phase:          rd.RelayPhase.String(),
			RelaySetting:   rd.RelaySetting,
			RelayIntensity: rd.RelayIntensity,
			RelayChasing:   rd.RelayChasing,
			InRelayLine:    rd.InRelayLine,
			ProtectLeader:  rd.ProtectLeader,
			InBreakaway:    rd.InBreakaway,
			BordureChasing: rd.BordureChasing,
			Energy:         rd.Energy,
			AttackGauge:    rd.AttackGauge,
			IsAttacking:    rd.IsAttacking,
			BaseIntensity:  rd.BaseIntensity,
			Intensity:      rd.Intensity,
		}
	})
	return snap
}

// Rider returns the snapshot of one rider
func (s Snapshot) Rider(id int) (RiderSnapshot, bool) {
	return lo.Find(s.Riders, func(r RiderSnapshot) bool { return r.ID == id })
}

// Leader returns the rider furthest along the course
func (s Snapshot) Leader() (RiderSnapshot, bool) {
	if len(s.Riders) == 0 {
		return RiderSnapshot{}, false
	}
	return lo.MaxBy(s.Riders, func(a, b RiderSnapshot) bool {
		if a.TrackDist != b.TrackDist {
			return a.TrackDist > b.TrackDist
		}
		return a.ID < b.ID
	}), true
}

// Spread returns the distance between the first and last rider
func (s Snapshot) Spread() float64 {
	if len(s.Riders) == 0 {
		return 0
	}
	lead := lo.MaxBy(s.Riders, func(a, b RiderSnapshot) bool { return a.TrackDist > b.TrackDist })
	last := lo.MinBy(s.Riders, func(a, b RiderSnapshot) bool { return a.TrackDist < b.TrackDist })
	return lead.TrackDist - last.TrackDist
}
