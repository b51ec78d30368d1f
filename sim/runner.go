package sim

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/peloton/core"
	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/physics"
)

// Runner drives a race on a fixed tick against a pausable clock
// Handles pause-aware scheduling without busy-wait; the physics backend is stepped after each core tick
type Runner struct {
	race    *Race
	stepper physics.Stepper
	clock   *engine.PausableClock

	tickInterval     time.Duration
	lastTickTime     time.Duration // Last tick in race time
	nextTickDeadline time.Duration // Next tick deadline for drift correction
	mu               sync.Mutex

	tickCount atomic.Uint64
	lastErr   atomic.Value

	// Control
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Optional per-tick hook, called on the runner goroutine
	onTick func(tick uint64)
}

// NewRunner creates a stopped runner; nil src uses the system clock
func NewRunner(race *Race, src engine.TimeSource) *Runner {
	stepper, _ := race.Adapter().(physics.Stepper)
	return &Runner{
		race:         race,
		stepper:      stepper,
		clock:        engine.NewPausableClock(src),
		tickInterval: race.Config().TickInterval(),
		stopChan:     make(chan struct{}),
	}
}

// OnTick installs a hook run after every tick, must be called before Start
func (rn *Runner) OnTick(fn func(tick uint64)) {
	rn.onTick = fn
}

// Tick advances the race and the physics backend by dt synchronously
// Non-positive dt is a no-op
func (rn *Runner) Tick(dt float64) error {
	if dt <= 0 {
		return nil
	}
	if err := rn.race.Step(dt); err != nil {
		rn.lastErr.Store(err)
		return err
	}
	if rn.stepper != nil {
		rn.stepper.Step(clampDelta(dt, rn.race.Config().Loop.MaxDelta))
	}
	n := rn.tickCount.Add(1)
	if rn.onTick != nil {
		rn.onTick(n)
	}
	return nil
}

// Start begins the scheduler loop
func (rn *Runner) Start() {
	if rn.running.CompareAndSwap(false, true) {
		rn.wg.Add(1)
		core.Go(rn.loop)
	}
}

// Stop halts the scheduler loop, safe to call more than once
func (rn *Runner) Stop() {
	rn.stopOnce.Do(func() {
		close(rn.stopChan)
		if rn.running.Load() {
			rn.wg.Wait()
		}
	})
}

// Pause freezes race time, idempotent
func (rn *Runner) Pause() bool { return rn.clock.Pause() }

// Resume continues race time without a catch-up burst, idempotent
func (rn *Runner) Resume() bool {
	if !rn.clock.Resume() {
		return false
	}
	rn.mu.Lock()
	now := rn.clock.Elapsed()
	rn.lastTickTime = now
	rn.nextTickDeadline = now + rn.tickInterval
	rn.mu.Unlock()
	return true
}

// TogglePause flips the pause state and reports whether the runner is now paused
func (rn *Runner) TogglePause() bool {
	if rn.clock.IsPaused() {
		rn.Resume()
		return false
	}
	rn.Pause()
	return true
}

// IsPaused reports the pause state
func (rn *Runner) IsPaused() bool { return rn.clock.IsPaused() }

// Ticks returns the number of completed ticks
func (rn *Runner) Ticks() uint64 { return rn.tickCount.Load() }

// Err returns the last step error, nil when every tick succeeded
func (rn *Runner) Err() error {
	if err, ok := rn.lastErr.Load().(error); ok {
		return err
	}
	return nil
}

// loop runs the main scheduling loop with pause awareness
func (rn *Runner) loop() {
	defer rn.wg.Done()

	rn.mu.Lock()
	rn.lastTickTime = rn.clock.Elapsed()
	rn.nextTickDeadline = rn.lastTickTime + rn.tickInterval
	rn.mu.Unlock()

	timer := time.NewTimer(rn.tickInterval)
	defer timer.Stop()

	for {
		var sleep time.Duration

		if rn.clock.IsPaused() {
			// Longer sleep while paused to save CPU
			sleep = rn.tickInterval * 2
		} else {
			now := rn.clock.Elapsed()

			rn.mu.Lock()
			deadline := rn.nextTickDeadline
			dt := (now - rn.lastTickTime).Seconds()
			rn.mu.Unlock()

			if now >= deadline {
				if err := rn.Tick(dt); err != nil {
					rn.race.logger.Printf("runner: tick failed: %v", err)
					return
				}

				rn.mu.Lock()
				rn.lastTickTime = now
				rn.nextTickDeadline += rn.tickInterval
				// Drop missed ticks instead of bursting
				if now-rn.nextTickDeadline > rn.tickInterval*2 {
					rn.nextTickDeadline = now + rn.tickInterval
				}
				deadline = rn.nextTickDeadline
				rn.mu.Unlock()
			}
			sleep = deadline - now
			if sleep <= 0 {
				sleep = time.Millisecond
			}
		}

		timer.Reset(sleep)
		select {
		case <-rn.stopChan:
			return
		case <-timer.C:
		}
	}
}

func clampDelta(dt, max float64) float64 {
	if max > 0 && dt > max {
		return max
	}
	return dt
}
