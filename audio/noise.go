package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// lcg advances a 32-bit linear congruential state and returns a sample in [-1, 1]
func lcg(state *uint32) float64 {
	*state = *state*1664525 + 1013904223
	return float64(int32(*state)) / math.MaxInt32
}

// CrowdGenerator is low-passed noise with a slow swell, a loopable roadside crowd bed
type CrowdGenerator struct {
	rate  beep.SampleRate
	seed  uint32
	low   float64
	phase float64
}

// NewCrowdGenerator returns an endless crowd stream
func NewCrowdGenerator(rate beep.SampleRate, seed uint32) *CrowdGenerator {
	if seed == 0 {
		seed = 1
	}
	return &CrowdGenerator{rate: rate, seed: seed}
}

func (g *CrowdGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	swellStep := 2 * math.Pi * 0.3 / float64(g.rate)
	for i := range samples {
		g.low += 0.08 * (lcg(&g.seed) - g.low)
		swell := 0.7 + 0.3*math.Sin(g.phase)
		g.phase += swellStep
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}
		v := g.low * swell * 0.6
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (g *CrowdGenerator) Err() error { return nil }

// HelicopterGenerator is a low hum chopped by rotor blade pulses
type HelicopterGenerator struct {
	rate  beep.SampleRate
	tone  float64
	rotor float64
	seed  uint32
}

// NewHelicopterGenerator returns an endless rotor stream
func NewHelicopterGenerator(rate beep.SampleRate) *HelicopterGenerator {
	return &HelicopterGenerator{rate: rate, seed: 0x9e3779b9}
}

const (
	rotorHz = 14.0
	humHz   = 62.0
)

func (g *HelicopterGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	toneStep := humHz / float64(g.rate)
	rotorStep := rotorHz / float64(g.rate)
	for i := range samples {
		// Blade pass: sharp attack then exponential fall within each rotor period
		pulse := math.Exp(-6 * g.rotor)
		hum := math.Sin(2 * math.Pi * g.tone)
		v := (0.5*hum + 0.5*lcg(&g.seed)) * pulse * 0.5
		g.tone += toneStep
		if g.tone >= 1 {
			g.tone--
		}
		g.rotor += rotorStep
		if g.rotor >= 1 {
			g.rotor--
		}
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (g *HelicopterGenerator) Err() error { return nil }

// NewCheerGenerator returns a crowd burst that swells then fades over its length
// The stream is endless; bound it with beep.Take
func NewCheerGenerator(rate beep.SampleRate, seed uint32) beep.Streamer {
	crowd := NewCrowdGenerator(rate, seed)
	length := float64(rate.N(cheerLength))
	pos := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		n, ok = crowd.Stream(samples)
		for i := range samples[:n] {
			x := pos / length
			env := math.Sin(math.Pi * math.Min(x, 1))
			samples[i][0] *= 1.5 * env
			samples[i][1] *= 1.5 * env
			pos++
		}
		return n, ok
	})
}
