package sim

import (
	"math"
	"math/rand/v2"

	"github.com/lixenwraith/peloton/config"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/track"
	"github.com/lixenwraith/peloton/vmath"
)

// Start grid jitter amplitudes
const (
	gridLateralJitter = 0.3
	gridForwardJitter = 0.2
)

// LayoutField places teams x riders on a grid behind the start line
// Rows fill across the usable road width; the first rider of each team is its leader
// Jitter is drawn from the configured seed so a layout is reproducible
func LayoutField(cfg config.Config) []*rider.Rider {
	teams, perTeam := cfg.Field.Teams, cfg.Field.RidersPerTeam
	tr := track.New(cfg.Track.Length, cfg.Track.RoadWidth)
	maxLane := cfg.MaxLaneOffset()

	perRow := int(math.Floor(2*maxLane/cfg.ContactDist())) + 1
	if perRow < 1 {
		perRow = 1
	}
	laneStep := 0.0
	if perRow > 1 {
		laneStep = 2 * maxLane / float64(perRow-1)
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Field.Seed), uint64(cfg.Field.Seed)^0x9e3779b97f4a7c15))
	jitter := func(amp float64) float64 { return (rng.Float64()*2 - 1) * amp }

	riders := make([]*rider.Rider, 0, teams*perTeam)
	slot := 0
	for team := 0; team < teams; team++ {
		for i := 0; i < perTeam; i++ {
			row, col := slot/perRow, slot%perRow
			slot++

			r := rider.New(rider.ID(slot), team)
			r.IsLeader = i == 0
			r.BaseIntensity = cfg.Intensity.Default
			r.Intensity = cfg.Intensity.Default

			lane := -maxLane + float64(col)*laneStep
			r.BaseLaneOffset = lane
			r.LaneTarget = lane
			r.LaneOffset = vmath.Clamp(lane+jitter(gridLateralJitter), -maxLane, maxLane)

			dist := -float64(row+1)*cfg.Track.RowSpacing + jitter(gridForwardJitter)
			r.TrackDist = dist
			r.Lap = int(math.Floor(dist / tr.Length))
			r.PrevDist = tr.Wrap(dist)

			riders = append(riders, r)
		}
	}
	return riders
}
