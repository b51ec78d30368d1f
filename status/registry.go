// Package status exposes lock-free race metrics for hosts
package status

import "sync/atomic"

// AtomicInt is the integer metric cell
type AtomicInt = atomic.Int64

// Metric keys written by the core
const (
	KeyTicks           = "engine.ticks"
	KeyTickMillis      = "engine.tick_ms"
	KeyTickMillisAvg   = "engine.tick_ms_avg"
	KeySession         = "race.session"
	KeyBreakawaySize   = "breakaway.size"
	KeyBreakawayGap    = "breakaway.gap"
	KeyClosingRate     = "breakaway.closing_rate"
	KeySanitized       = "sync.sanitized"
	KeyOverlapPasses   = "overlap.passes"
	KeyOverlapPairs    = "overlap.pairs"
	KeyRelayRotations  = "relay.rotations"
	KeyBordureActive   = "bordure.active"
	KeyBordureChasers  = "bordure.chasers"
	KeyAttacksStarted  = "intensity.attacks"
	KeyLeaderIntensity = "intensity.leader"
)

// Registry is the central metrics facade
// Systems cache pointers at construction; Update loops write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[AtomicInt]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[AtomicInt](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot copies every metric into a flat map keyed by metric name
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(k string, p *atomic.Bool) { out[k] = p.Load() })
	r.Ints.Range(func(k string, p *AtomicInt) { out[k] = p.Load() })
	r.Floats.Range(func(k string, p *AtomicFloat) { out[k] = p.Get() })
	r.Strings.Range(func(k string, p *AtomicString) { out[k] = p.Load() })
	return out
}
