package system

import (
	"math"
	"sync/atomic"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/status"
)

// BordureSystem flags riders stranded behind a wind-driven echelon split
type BordureSystem struct {
	statActive  *atomic.Bool
	statChasers *status.AtomicInt
}

// NewBordureSystem creates the echelon split detector
func NewBordureSystem(ctx *engine.Context) engine.System {
	return &BordureSystem{
		statActive:  ctx.Status.Bools.Get(status.KeyBordureActive),
		statChasers: ctx.Status.Ints.Get(status.KeyBordureChasers),
	}
}

func (s *BordureSystem) Name() string  { return "bordure" }
func (s *BordureSystem) Priority() int { return parameter.PriorityBordure }

// Update recomputes the flags from scratch, so repeated runs on the same state agree
func (s *BordureSystem) Update(ctx *engine.Context, dt float64) {
	cfg := ctx.Config.Bordure

	for _, r := range ctx.Riders {
		r.BordureChasing = false
		r.BordurePenalty = 0
	}

	active := math.Abs(ctx.Wind.Strength) >= cfg.StrongWind
	s.statActive.Store(active)
	if !active {
		s.statChasers.Store(0)
		return
	}

	sorted := ctx.ByRoad()
	split := false
	var chasers int64
	for i := 1; i < len(sorted); i++ {
		if math.Abs(sorted[i].LaneOffset-sorted[i-1].LaneOffset) > cfg.LaneGap {
			split = true
		}
		if split {
			sorted[i].BordureChasing = true
			sorted[i].BordurePenalty = cfg.Penalty
			chasers++
		}
	}
	s.statChasers.Store(chasers)
}
