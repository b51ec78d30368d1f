package system

import (
	"math"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/physics"
	"github.com/lixenwraith/peloton/track"
)

// DraftReduction maps a position in a file to the drag reduction it enjoys
// Position 1 is the rider breaking the wind
func DraftReduction(position int) float64 {
	switch {
	case position <= 1:
		return 0
	case position <= 5:
		return 0.3 + float64(position-2)*0.2/3
	case position == 6:
		return 0.9
	default:
		return 0.95
	}
}

// DraftSystem computes the aerodynamic factor of every rider from the riders in front
type DraftSystem struct{}

// NewDraftSystem creates the drag and draft stage
func NewDraftSystem() engine.System {
	return &DraftSystem{}
}

func (s *DraftSystem) Name() string  { return "draft" }
func (s *DraftSystem) Priority() int { return parameter.PriorityDraft }

// Update is stateless; every value is rebuilt from positions and the bordure penalty
func (s *DraftSystem) Update(ctx *engine.Context, dt float64) {
	cfg := ctx.Config.Draft
	length := ctx.Track.Length
	windDir := ctx.Wind.Direction
	damper, _ := ctx.Physics.(physics.Damper)

	for _, r := range ctx.Riders {
		count := 0
		sheltered := false
		for _, other := range ctx.Riders {
			if other == r {
				continue
			}
			dist := track.AheadDistance(r.TrackDist, other.TrackDist, length)
			lateral := other.LaneOffset - r.LaneOffset

			if dist > 0 && dist <= cfg.Window && math.Abs(lateral) < cfg.LateralWindow {
				count++
			}
			if windDir != 0 && dist < cfg.ShelterDist && math.Abs(lateral) < cfg.ShelterLateral && windward(lateral, windDir) {
				sheltered = true
			}
		}

		drag := 1 - DraftReduction(1+count)
		if windDir != 0 && !sheltered {
			drag = math.Min(1, drag+cfg.ExposedPenalty)
		}
		drag = math.Min(1, drag+r.BordurePenalty)

		r.DraftFactor = 1 + cfg.Scale*(1-drag)
		r.RollingResistance = cfg.RollingDamping * drag
		if damper != nil {
			damper.SetLinearDamping(r.ID, r.RollingResistance)
		}
	}
}

// windward reports whether a lateral offset lies on the side the wind blows from
func windward(lateral float64, windDir int) bool {
	if windDir > 0 {
		return lateral < 0
	}
	return lateral > 0
}

