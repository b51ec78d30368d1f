package system

import (
	"math"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/physics"
	"github.com/lixenwraith/peloton/vmath"
)

// PaceSystem turns resolved intensity into a forward drive force and enforces speed limits
type PaceSystem struct{}

// NewPaceSystem creates the drive stage
func NewPaceSystem() engine.System {
	return &PaceSystem{}
}

func (s *PaceSystem) Name() string  { return "pace" }
func (s *PaceSystem) Priority() int { return parameter.PriorityPace }

func (s *PaceSystem) Update(ctx *engine.Context, dt float64) {
	cfg := ctx.Config.Pace
	relay := ctx.Config.Relay
	maxLateral := ctx.Config.Lane.MaxLateralSpeed
	blend := vmath.Clamp(dt*cfg.BoostBlend, 0, 1)

	for _, r := range ctx.Riders {
		forward, right := ctx.Track.Frame(r.TrackDist)
		vel := ctx.Physics.Velocity(r.ID)

		desired := cfg.BaseSpeed * (r.Intensity / parameter.DefaultIntensity) * r.DraftFactor
		if r.FallingBack() {
			desired *= relay.PullOffSpeedFactor
		}
		mass := ctx.Physics.Mass(r.ID)
		drive := forward.Scale(mass * (desired - vel.Len()) * cfg.SpeedGain)

		r.Boost = vmath.Lerp(r.Boost, r.RelayIntensity*relay.SpeedBoost, blend)
		ctx.Physics.ApplyForce(r.ID, drive.Add(forward.Scale(r.Boost)))

		capped, changed := physics.CapSpeed(vel, cfg.MaxSpeed)
		if lateral := capped.Dot(right); math.Abs(lateral) > maxLateral {
			capped = capped.Sub(right.Scale(lateral - vmath.Sign(lateral)*maxLateral))
			changed = true
		}
		if changed {
			ctx.Physics.SetVelocity(r.ID, capped)
		}
	}
}
