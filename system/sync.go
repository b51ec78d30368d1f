package system

import (
	"math"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/status"
	"github.com/lixenwraith/peloton/vmath"
)

// roadMargin keeps clamped bodies strictly inside the annulus
const roadMargin = 0.1

// SyncSystem pulls body kinematics from the adapter into the rider records
// Corrupted bodies are snapped back onto their lane, bodies off the road are clamped
// onto it with the velocity redirected along the tangent
type SyncSystem struct {
	statSanitized *status.AtomicInt
}

// NewSyncSystem creates the kinematics sync stage
func NewSyncSystem(ctx *engine.Context) engine.System {
	return &SyncSystem{
		statSanitized: ctx.Status.Ints.Get(status.KeySanitized),
	}
}

func (s *SyncSystem) Name() string  { return "sync" }
func (s *SyncSystem) Priority() int { return parameter.PrioritySync }

// Update runs after the backend stepped, before any tactical stage
func (s *SyncSystem) Update(ctx *engine.Context, dt float64) {
	tr := ctx.Track
	inner := tr.InnerRadius() + roadMargin
	outer := tr.OuterRadius() - roadMargin
	maxLane := ctx.MaxLaneOffset()

	for _, r := range ctx.Riders {
		pos := ctx.Physics.Position(r.ID)
		vel := ctx.Physics.Velocity(r.ID)

		if !pos.IsFinite() || !vel.IsFinite() {
			s.sanitize(ctx, r)
			continue
		}

		if radial := pos.Len(); radial < inner || radial > outer {
			dir := vmath.Vec2{X: 1}
			if radial > 0 {
				dir = pos.Scale(1 / radial)
			}
			pos = dir.Scale(vmath.Clamp(radial, inner, outer))
			tangent := vmath.Vec2{X: -dir.Y, Y: dir.X}
			vel = tangent.Scale(vel.Dot(tangent))
			ctx.Physics.SetPosition(r.ID, pos)
			ctx.Physics.SetVelocity(r.ID, vel)
		}

		distRaw, lane := tr.Locate(pos)
		switch {
		case distRaw < r.PrevDist-tr.Length/2:
			r.Lap++
		case distRaw > r.PrevDist+tr.Length/2:
			r.Lap--
		}
		r.PrevDist = distRaw
		r.TrackDist = float64(r.Lap)*tr.Length + distRaw
		r.LaneOffset = vmath.Clamp(lane, -maxLane, maxLane)
		r.Speed = vel.Len()

		ctx.Physics.ResetForces(r.ID)
	}
}

// sanitize restores a body with non-finite kinematics to its last known distance on its base lane
func (s *SyncSystem) sanitize(ctx *engine.Context, r *rider.Rider) {
	tr := ctx.Track
	last := r.TrackDist
	if !vmath.IsFinite(last) {
		last = 0
	}
	maxLane := ctx.MaxLaneOffset()
	lane := vmath.Clamp(r.BaseLaneOffset, -maxLane, maxLane)

	ctx.Physics.SetPosition(r.ID, tr.LanePosition(last, lane))
	ctx.Physics.SetVelocity(r.ID, vmath.Vec2{})
	ctx.Physics.ResetForces(r.ID)

	r.Lap = int(math.Floor(last / tr.Length))
	r.PrevDist = tr.Wrap(last)
	r.TrackDist = float64(r.Lap)*tr.Length + r.PrevDist
	r.LaneOffset = lane
	r.Speed = 0

	s.statSanitized.Add(1)
	ctx.Log.Printf("sync: rider %d sanitized at %.2f lane %.2f", r.ID, r.TrackDist, lane)
	ctx.Emit(event.EventRiderSanitized, &event.RiderSanitizedPayload{
		Rider:     int(r.ID),
		TrackDist: r.TrackDist,
		Lane:      lane,
	})
}
