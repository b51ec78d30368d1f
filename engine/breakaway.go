package engine

import "github.com/lixenwraith/peloton/rider"

// BreakawayState is the single front-group record
// Members are ordered front to back
type BreakawayState struct {
	Members     []rider.ID
	Gap         float64
	ClosingRate float64
}

// Active reports whether a breakaway exists
func (b *BreakawayState) Active() bool {
	return len(b.Members) > 0
}

// Contains reports membership of id
func (b *BreakawayState) Contains(id rider.ID) bool {
	for _, m := range b.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Clear dissolves the group
func (b *BreakawayState) Clear() {
	b.Members = nil
	b.Gap = 0
}
