package parameter

// System Execution Priorities (lower runs first)
// Order mirrors the tick dependency chain: kinematics, then group detection, then physiology,
// then tactics, then lateral negotiation, then contact resolution
const (
	PrioritySync      = 10  // Read adapter kinematics, sanitize, lap bookkeeping
	PriorityBordure   = 20  // Before draft, produces the drag penalty
	PriorityDraft     = 30  // Consumes bordure penalty
	PriorityBreakaway = 40  // Uses last tick intensities for closing rate
	PriorityEnergy    = 100 // Reads draft factor and breakaway gap
	PriorityRelay     = 200 // Queue formation and phase machine
	PriorityIntensity = 300 // Merges attack, relay and breakaway roles
	PriorityPace      = 350 // Drive force from resolved intensity
	PriorityLane      = 400 // Lateral target and steering force
	PriorityOverlap   = 500 // Last writer of velocities
)
