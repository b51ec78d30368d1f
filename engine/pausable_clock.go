package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock provides race time that stands still while paused
// Resuming never produces a catch-up burst: paused wall time is excluded
type PausableClock struct {
	mu sync.RWMutex

	src       TimeSource
	realStart time.Time

	isPaused        atomic.Bool
	pauseStartTime  time.Time     // When current pause started (real time)
	totalPausedTime time.Duration // Cumulative pause duration
}

// NewPausableClock creates a running clock; nil src uses the system clock
func NewPausableClock(src TimeSource) *PausableClock {
	if src == nil {
		src = NewTimeProvider()
	}
	return &PausableClock{
		src:       src,
		realStart: src.Now(),
	}
}

// Elapsed returns race time since creation, frozen while paused
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.isPaused.Load() {
		return pc.pauseStartTime.Sub(pc.realStart) - pc.totalPausedTime
	}
	return pc.src.Now().Sub(pc.realStart) - pc.totalPausedTime
}

// Pause stops race time advancement, idempotent
func (pc *PausableClock) Pause() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.isPaused.CompareAndSwap(false, true) {
		return false
	}
	pc.pauseStartTime = pc.src.Now()
	return true
}

// Resume continues race time advancement, idempotent
func (pc *PausableClock) Resume() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.isPaused.CompareAndSwap(true, false) {
		return false
	}
	if !pc.pauseStartTime.IsZero() {
		pc.totalPausedTime += pc.src.Now().Sub(pc.pauseStartTime)
		pc.pauseStartTime = time.Time{}
	}
	return true
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPauseDuration returns cumulative pause time including a pause in progress
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.isPaused.Load() && !pc.pauseStartTime.IsZero() {
		total += pc.src.Now().Sub(pc.pauseStartTime)
	}
	return total
}
