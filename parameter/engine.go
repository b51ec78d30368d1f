package parameter

import "time"

// Tick loop timing
const (
	// TickRate is the fixed simulation rate in Hz
	TickRate = 60

	// TickInterval is the wall-clock spacing of ticks at TickRate
	TickInterval = time.Second / TickRate

	// MaxTickDelta caps dt after a stall so integration cannot run away
	MaxTickDelta = 0.1
)

// Event buffering
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 2048

	// EventBufferMask is the bitmask for fast modulo operations (2048 - 1)
	EventBufferMask = 2047
)

// Snapshot streaming
const (
	// VizStreamInterval is the default websocket snapshot cadence
	VizStreamInterval = 100 * time.Millisecond

	// VizWriteTimeout bounds a single websocket frame write
	VizWriteTimeout = 2 * time.Second
)

// Terminal viewer
const (
	// FrameInterval is the viewer redraw cadence, independent of the tick rate
	FrameInterval = 33 * time.Millisecond

	// IntensityStep is the base intensity change per +/- key press
	IntensityStep = 5.0

	// PanelWidth is the column count reserved for the status panel
	PanelWidth = 34

	// GeometrySegments is the polyline resolution of the drawn circuit
	GeometrySegments = 360
)
