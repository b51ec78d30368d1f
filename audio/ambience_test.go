package audio

import (
	"math"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/peloton/event"
)

// TestAmbienceWithoutDevice checks every method is safe before and without speaker init
func TestAmbienceWithoutDevice(t *testing.T) {
	a := NewAmbience()

	crowd, heli := a.Volumes()
	assert.InDelta(t, 1.0, crowd, 1e-12)
	assert.InDelta(t, 0.1, heli, 1e-12)

	a.Update(0.5)
	a.PlayCheer()
	a.Emit(event.Event{Type: event.EventAttackStarted})
	a.Cleanup()

	crowd, heli = a.Volumes()
	assert.InDelta(t, 0.55, crowd, 1e-12)
	assert.InDelta(t, 0.55, heli, 1e-12)
}

// TestAmbienceInitialize degrades gracefully on hosts without audio
func TestAmbienceInitialize(t *testing.T) {
	a := NewAmbience()
	if err := a.Initialize(); err != nil {
		t.Logf("audio unavailable, running silent: %v", err)
		return
	}
	defer a.Cleanup()

	require.NoError(t, a.Initialize())
	a.Update(1)
	a.PlayCheer()
	crowd, heli := a.Volumes()
	assert.InDelta(t, 0.1, crowd, 1e-12)
	assert.InDelta(t, 1.0, heli, 1e-12)
}

func TestBalanceCurves(t *testing.T) {
	for _, tc := range []struct {
		t, crowd, heli float64
	}{
		{0, 1, 0.1},
		{0.5, 0.55, 0.55},
		{1, 0.1, 1},
	} {
		assert.InDelta(t, tc.crowd, CrowdVolume(tc.t), 1e-12)
		assert.InDelta(t, tc.heli, HelicopterVolume(tc.t), 1e-12)
	}

	a := NewAmbience()
	a.Update(7)
	_, heli := a.Volumes()
	assert.InDelta(t, 1.0, heli, 1e-12, "balance clamps to 1")
	a.Update(-3)
	crowd, _ := a.Volumes()
	assert.InDelta(t, 1.0, crowd, 1e-12, "balance clamps to 0")
}

func TestBalanceFromSpread(t *testing.T) {
	assert.Equal(t, 0.0, Balance(10, 0))
	assert.InDelta(t, 0.5, Balance(125, 1000), 1e-12)
	assert.Equal(t, 1.0, Balance(900, 1000))
}

// TestGeneratorsBounded checks every bed stays within full scale and keeps streaming
func TestGeneratorsBounded(t *testing.T) {
	rate := beep.SampleRate(48000)
	streams := map[string]beep.Streamer{
		"crowd":      NewCrowdGenerator(rate, 42),
		"helicopter": NewHelicopterGenerator(rate),
		"cheer":      NewCheerGenerator(rate, 7),
	}
	buf := make([][2]float64, 4096)
	for name, s := range streams {
		for block := 0; block < 12; block++ {
			n, ok := s.Stream(buf)
			require.True(t, ok, name)
			require.Equal(t, len(buf), n, name)
			for _, smp := range buf {
				assert.False(t, math.IsNaN(smp[0]), name)
				assert.LessOrEqual(t, math.Abs(smp[0]), 1.0, name)
				assert.Equal(t, smp[0], smp[1], "%s is mono", name)
			}
		}
	}
}

func TestCheerFades(t *testing.T) {
	rate := beep.SampleRate(48000)
	cheer := beep.Take(rate.N(cheerLength), NewCheerGenerator(rate, 3))
	total := 0
	buf := make([][2]float64, 1024)
	var last [][2]float64
	for {
		n, ok := cheer.Stream(buf)
		total += n
		if n > 0 {
			last = append(last[:0], buf[:n]...)
		}
		if !ok {
			break
		}
	}
	assert.Equal(t, rate.N(cheerLength), total)
	assert.Less(t, math.Abs(last[len(last)-1][0]), 0.05, "burst ends near silence")
}
