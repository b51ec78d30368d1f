package rider

// Mode is the tactical behaviour selected by the rider or its team
type Mode uint8

const (
	ModeFollower Mode = iota
	ModeSolo
	ModeRelay
)

var modeNames = [...]string{
	ModeFollower: "follower",
	ModeSolo:     "solo",
	ModeRelay:    "relay",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Valid reports whether m is one of the declared modes
func (m Mode) Valid() bool {
	return m <= ModeRelay
}

// ParseMode maps a name back to a Mode
func ParseMode(s string) (Mode, bool) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), true
		}
	}
	return ModeFollower, false
}

// Phase is the relay rotation state of a rider
type Phase uint8

const (
	PhaseLine Phase = iota
	PhasePull
	PhaseFallBack
)

var phaseNames = [...]string{
	PhaseLine:     "line",
	PhasePull:     "pull",
	PhaseFallBack: "fall_back",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// phaseNext is the single legal successor of each phase
var phaseNext = [...]Phase{
	PhaseLine:     PhasePull,
	PhasePull:     PhaseFallBack,
	PhaseFallBack: PhaseLine,
}

// CanTransition reports whether p -> next is an edge of line -> pull -> fall_back -> line
func (p Phase) CanTransition(next Phase) bool {
	if int(p) >= len(phaseNext) {
		return false
	}
	return phaseNext[p] == next
}
