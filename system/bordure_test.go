package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/status"
)

// TestBordureSplitFlags verifies every rider after the first lateral split chases with a penalty
func TestBordureSplitFlags(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, 1, 0, 100, 0)
	b := f.add(t, 2, 0, 98, 0.5)
	c := f.add(t, 3, 0, 96, 2)
	d := f.add(t, 4, 0, 94, 2)

	f.ctx.Wind = engine.Wind{Direction: 1, Strength: 0.8}
	sys := NewBordureSystem(f.ctx)
	for range 2 {
		sys.Update(f.ctx, testDT)
		assert.False(t, a.BordureChasing)
		assert.False(t, b.BordureChasing)
		assert.True(t, c.BordureChasing)
		assert.True(t, d.BordureChasing)
		assert.Equal(t, 0.2, c.BordurePenalty)
		assert.Equal(t, 0.0, b.BordurePenalty)
	}
	assert.True(t, f.ctx.Status.Bools.Get(status.KeyBordureActive).Load())
	assert.Equal(t, int64(2), f.ctx.Status.Ints.Get(status.KeyBordureChasers).Load())

	f.ctx.Wind.Strength = -0.75
	sys.Update(f.ctx, testDT)
	assert.True(t, d.BordureChasing)

	f.ctx.Wind.Strength = 0.5
	sys.Update(f.ctx, testDT)
	for _, r := range f.ctx.Riders {
		assert.False(t, r.BordureChasing)
		assert.Equal(t, 0.0, r.BordurePenalty)
	}
	assert.False(t, f.ctx.Status.Bools.Get(status.KeyBordureActive).Load())
}
