// Package system holds the per-tick stages of the race pipeline, one file per system
package system

import (
	"math"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/rider"
	"github.com/lixenwraith/peloton/track"
)

// phaseEpsilon absorbs accumulated float error in dt-summed timers
const phaseEpsilon = 1e-9

// aheadEntry pairs a rider with the nearest rider in front on the road
type aheadEntry struct {
	ahead *rider.Rider // nil for the race leader
	gap   float64      // +Inf for the race leader
}

// nearestAhead maps every rider to the rider directly in front of it in road order
func nearestAhead(ctx *engine.Context) map[rider.ID]aheadEntry {
	sorted := ctx.ByRoad()
	out := make(map[rider.ID]aheadEntry, len(sorted))
	for i, r := range sorted {
		if i == 0 {
			out[r.ID] = aheadEntry{gap: math.Inf(1)}
			continue
		}
		prev := sorted[i-1]
		out[r.ID] = aheadEntry{ahead: prev, gap: track.AheadDistance(r.TrackDist, prev.TrackDist, ctx.Track.Length)}
	}
	return out
}

// setPhase performs a legal relay phase edge and emits the change
func setPhase(ctx *engine.Context, r *rider.Rider, next rider.Phase) bool {
	prev := r.RelayPhase
	if prev == next || !r.TransitionTo(next) {
		return false
	}
	ctx.Emit(eventPhaseChange(r, prev, next))
	return true
}
