// Package event carries observer notifications out of the simulation core
// Systems only emit; hosts subscribe or drain
package event

// EventType represents the type of race event
type EventType int

const (
	// EventIntensityChange signals a rider's resolved intensity changed this tick
	// Trigger: IntensitySystem, at most once per rider per tick
	// Payload: *IntensityChangePayload
	EventIntensityChange EventType = iota + 1

	// EventPhaseChange signals a relay phase edge
	// Trigger: RelaySystem | Payload: *PhaseChangePayload
	EventPhaseChange

	// EventAttackStarted signals a rider began an attack
	// Trigger: sim.Race.Attack when the gauge allows | Payload: *AttackPayload
	EventAttackStarted

	// EventAttackEnded signals the attack gauge was exhausted
	// Trigger: IntensitySystem | Payload: *AttackPayload
	EventAttackEnded

	// EventBreakawayFormed signals a front group opened a qualifying gap
	// Trigger: BreakawaySystem | Payload: *BreakawayPayload
	EventBreakawayFormed

	// EventBreakawayDissolved signals the front group was caught
	// Trigger: BreakawaySystem | Payload: *BreakawayPayload
	EventBreakawayDissolved

	// EventRiderSanitized signals a rider with a non-finite body state was snapped back to its lane
	// Trigger: SyncSystem | Payload: *RiderSanitizedPayload
	EventRiderSanitized
)

// Event represents a single race event with the tick it was emitted on
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
	Tick    int64     `json:"tick"`
}

// Sink receives events in emission order
// Implementations must not call back into the simulation
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ev Event)

// Emit calls f(ev)
func (f SinkFunc) Emit(ev Event) { f(ev) }

// Discard is a Sink that drops every event
var Discard Sink = SinkFunc(func(Event) {})
