package system

import (
	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/rider"
)

func eventPhaseChange(r *rider.Rider, from, to rider.Phase) (event.EventType, any) {
	return event.EventPhaseChange, &event.PhaseChangePayload{
		Rider: int(r.ID),
		Team:  r.Team,
		From:  from.String(),
		To:    to.String(),
	}
}

func memberInts(ids []rider.ID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
