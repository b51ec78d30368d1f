package system

import (
	"github.com/samber/lo"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/status"
	"github.com/lixenwraith/peloton/track"
	"github.com/lixenwraith/peloton/vmath"
)

// BreakawaySystem maintains the single front group with trigger/capture hysteresis
type BreakawaySystem struct {
	statSize    *status.AtomicInt
	statGap     *status.AtomicFloat
	statClosing *status.AtomicFloat
}

// NewBreakawaySystem creates the front group manager
func NewBreakawaySystem(ctx *engine.Context) engine.System {
	return &BreakawaySystem{
		statSize:    ctx.Status.Ints.Get(status.KeyBreakawaySize),
		statGap:     ctx.Status.Floats.Get(status.KeyBreakawayGap),
		statClosing: ctx.Status.Floats.Get(status.KeyClosingRate),
	}
}

func (s *BreakawaySystem) Name() string  { return "breakaway" }
func (s *BreakawaySystem) Priority() int { return parameter.PriorityBreakaway }

func (s *BreakawaySystem) Update(ctx *engine.Context, dt float64) {
	cfg := ctx.Config.Breakaway
	b := &ctx.Breakaway
	sorted := ctx.ByRoad()
	length := ctx.Track.Length

	if !b.Active() {
		for i := 0; i+1 < len(sorted); i++ {
			gap := track.AheadDistance(sorted[i+1].TrackDist, sorted[i].TrackDist, length)
			if gap > cfg.TriggerGap {
				b.Members = ids(sorted[:i+1])
				b.Gap = gap
				ctx.Log.Printf("breakaway: formed with %d riders, gap %.1f", len(b.Members), gap)
				ctx.Emit(event.EventBreakawayFormed, &event.BreakawayPayload{Members: memberInts(b.Members), Gap: gap})
				break
			}
		}
	} else {
		last := -1
		for i, r := range sorted {
			if b.Contains(r.ID) {
				last = i
			}
		}
		switch {
		case last < 0:
			s.dissolve(ctx)
		case last >= len(sorted)-1:
			// Whole field is in the group, nobody to measure against
			b.Gap = 0
		default:
			gap := track.AheadDistance(sorted[last+1].TrackDist, sorted[last].TrackDist, length)
			if gap < cfg.CaptureGap {
				s.dissolve(ctx)
			} else {
				b.Members = ids(sorted[:last+1])
				b.Gap = gap
			}
		}
	}

	for _, r := range ctx.Riders {
		r.InBreakaway = b.Contains(r.ID)
	}
	b.ClosingRate = closingRate(ctx.Riders, cfg.ClosingBaseline)

	s.statSize.Store(int64(len(b.Members)))
	s.statGap.Set(b.Gap)
	s.statClosing.Set(b.ClosingRate)
}

func (s *BreakawaySystem) dissolve(ctx *engine.Context) {
	b := &ctx.Breakaway
	payload := &event.BreakawayPayload{Members: memberInts(b.Members), Gap: b.Gap}
	b.Clear()
	ctx.Log.Printf("breakaway: dissolved, %d riders caught", len(payload.Members))
	ctx.Emit(event.EventBreakawayDissolved, payload)
}

// closingRate normalizes the mean intensity of organised chasers outside the group
func closingRate(riders []*rider.Rider, baseline float64) float64 {
	chasers := lo.Filter(riders, func(r *rider.Rider, _ int) bool {
		return r.RelayChasing && !r.InBreakaway
	})
	if len(chasers) == 0 {
		return 0
	}
	avg := lo.SumBy(chasers, func(r *rider.Rider) float64 { return r.Intensity }) / float64(len(chasers))
	return vmath.Clamp((avg-baseline)/baseline, 0, 1)
}

func ids(riders []*rider.Rider) []rider.ID {
	return lo.Map(riders, func(r *rider.Rider, _ int) rider.ID { return r.ID })
}
