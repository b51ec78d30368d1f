// Package audio provides the race ambience: roadside crowd and the TV helicopter overhead
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/peloton/event"
	"github.com/lixenwraith/peloton/vmath"
)

const (
	sampleRate = beep.SampleRate(48000)

	// cheerLength is the duration of a one-shot crowd burst
	cheerLength = 1200 * time.Millisecond
)

// Ambience mixes the looped crowd and helicopter beds and plays cheers on race events
// Every method is safe without an audio device; Initialize failing leaves it silent
type Ambience struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	crowd       *effects.Volume
	helicopter  *effects.Volume
	ctrl        *beep.Ctrl
	balance     float64
	initialized bool
	seed        uint32
}

// NewAmbience creates a silent ambience with the crowd at full volume
func NewAmbience() *Ambience {
	a := &Ambience{
		mixer: &beep.Mixer{},
		seed:  uint32(time.Now().UnixNano()),
	}
	a.crowd = &effects.Volume{Streamer: beep.Loop(-1, NewCrowdGenerator(sampleRate, a.seed)), Base: 2}
	a.helicopter = &effects.Volume{Streamer: beep.Loop(-1, NewHelicopterGenerator(sampleRate)), Base: 2}
	a.applyBalance(0)
	return a
}

// Initialize opens the speaker and starts the beds
func (a *Ambience) Initialize() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	if err != nil {
		return err
	}

	a.mixer.Add(a.crowd, a.helicopter)
	a.ctrl = &beep.Ctrl{Streamer: a.mixer}
	speaker.Play(a.ctrl)
	a.initialized = true
	return nil
}

// Cleanup silences every stream
func (a *Ambience) Cleanup() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return
	}
	speaker.Lock()
	a.ctrl.Paused = true
	a.mixer.Clear()
	speaker.Unlock()
	a.initialized = false
}

// Update sets the crowd/helicopter balance, t in [0, 1]
// t = 0 is a packed field at the roadside, t = 1 a shattered race seen from above
func (a *Ambience) Update(t float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	t = vmath.Clamp(t, 0, 1)
	if a.initialized {
		speaker.Lock()
		a.applyBalance(t)
		speaker.Unlock()
		return
	}
	a.applyBalance(t)
}

// Volumes returns the linear crowd and helicopter gains currently applied
func (a *Ambience) Volumes() (crowd, helicopter float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return CrowdVolume(a.balance), HelicopterVolume(a.balance)
}

// Emit implements event.Sink: attacks and breakaways draw a cheer
func (a *Ambience) Emit(ev event.Event) {
	switch ev.Type {
	case event.EventAttackStarted, event.EventBreakawayFormed:
		a.PlayCheer()
	}
}

// PlayCheer adds a short crowd burst over the beds
func (a *Ambience) PlayCheer() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return
	}
	a.seed = a.seed*1664525 + 1013904223
	burst := beep.Take(sampleRate.N(cheerLength), NewCheerGenerator(sampleRate, a.seed))
	speaker.Lock()
	a.mixer.Add(burst)
	speaker.Unlock()
}

// applyBalance must run with the speaker locked once playback started
func (a *Ambience) applyBalance(t float64) {
	a.balance = t
	setLinear(a.crowd, CrowdVolume(t))
	setLinear(a.helicopter, HelicopterVolume(t))
}

// CrowdVolume is the roadside applause gain at balance t
func CrowdVolume(t float64) float64 { return 1 - 0.9*t }

// HelicopterVolume is the rotor gain at balance t
func HelicopterVolume(t float64) float64 { return 0.1 + 0.9*t }

// Balance maps the field spread to the ambience balance; a quarter lap apart is fully aerial
func Balance(spread, trackLength float64) float64 {
	if trackLength <= 0 {
		return 0
	}
	return vmath.Clamp(spread/(trackLength/4), 0, 1)
}

// setLinear expresses a linear gain on a base-2 volume effect
func setLinear(v *effects.Volume, gain float64) {
	if gain <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(gain)
}
