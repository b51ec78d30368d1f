package physics

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/peloton/vmath"
)

// TestIntegrateForceAndDamping verifies semi-implicit Euler with damping
func TestIntegrateForceAndDamping(t *testing.T) {
	b := &Body{Mass: 2, Force: vmath.V2(4, 0)}
	Integrate(b, 0.5)
	assert.InDelta(t, 1.0, b.Vel.X, 1e-9)
	assert.InDelta(t, 0.5, b.Pos.X, 1e-9)

	b = &Body{Mass: 1, Vel: vmath.V2(10, 0), Damping: 1}
	Integrate(b, 1)
	assert.InDelta(t, 5.0, b.Vel.X, 1e-9)
}

// TestCapSpeed verifies only vectors above the cap are scaled
func TestCapSpeed(t *testing.T) {
	v, capped := CapSpeed(vmath.V2(3, 4), 10)
	assert.False(t, capped)
	assert.Equal(t, vmath.V2(3, 4), v)

	v, capped = CapSpeed(vmath.V2(30, 40), 10)
	assert.True(t, capped)
	assert.InDelta(t, 10.0, v.Len(), 1e-9)
	assert.InDelta(t, 6.0, v.X, 1e-9)
}

// TestSeparatePairSymmetric verifies equal and opposite separating corrections
func TestSeparatePairSymmetric(t *testing.T) {
	dA, dB, hit := SeparatePair(vmath.V2(0, 0), vmath.V2(1, 0), vmath.Vec2{}, vmath.Vec2{}, 2, 10, true)
	require.True(t, hit)
	assert.InDelta(t, -5.0, dA.X, 1e-9)
	assert.InDelta(t, 5.0, dB.X, 1e-9)
	assert.Equal(t, dA.Scale(-1), dB)
}

// TestSeparatePairClosingImpulse verifies a closing normal velocity is removed without push
func TestSeparatePairClosingImpulse(t *testing.T) {
	dA, dB, hit := SeparatePair(vmath.V2(0, 0), vmath.V2(1, 0), vmath.V2(2, 0), vmath.V2(-2, 0), 2, 10, false)
	require.True(t, hit)
	// Relative normal velocity -4 split evenly
	assert.InDelta(t, -2.0, dA.X, 1e-9)
	assert.InDelta(t, 2.0, dB.X, 1e-9)

	_, _, hit = SeparatePair(vmath.V2(0, 0), vmath.V2(1, 0), vmath.V2(-1, 0), vmath.V2(1, 0), 2, 10, false)
	assert.False(t, hit, "separating pair needs no correction")

	_, _, hit = SeparatePair(vmath.V2(0, 0), vmath.V2(3, 0), vmath.Vec2{}, vmath.Vec2{}, 2, 10, true)
	assert.False(t, hit, "pair beyond minDist")
}

// TestSeparatePairCoincident verifies the default normal for coincident bodies
func TestSeparatePairCoincident(t *testing.T) {
	dA, dB, hit := SeparatePair(vmath.V2(5, 5), vmath.V2(5, 5), vmath.Vec2{}, vmath.Vec2{}, 2, 10, true)
	require.True(t, hit)
	assert.Greater(t, dA.X, 0.0)
	assert.Less(t, dB.X, 0.0)
	assert.True(t, dA.IsFinite())
}

// TestPointMassWorldAdapter verifies adapter operations and stepping
func TestPointMassWorldAdapter(t *testing.T) {
	w := NewPointMassWorld()
	require.NoError(t, w.AddBody(2, vmath.V2(0, 0), 1))
	require.NoError(t, w.AddBody(1, vmath.V2(10, 0), 1))
	err := w.AddBody(1, vmath.Vec2{}, 1)
	assert.Equal(t, ErrDuplicateBody, errors.Cause(err))
	assert.Equal(t, 2, w.Len())

	w.SetVelocity(2, vmath.V2(1, 0))
	w.ApplyForce(2, vmath.V2(0, 2))
	w.Step(1)
	assert.Equal(t, vmath.V2(1, 2), w.Velocity(2))
	assert.Equal(t, vmath.V2(1, 2), w.Position(2))

	w.ResetForces(2)
	w.Step(1)
	assert.Equal(t, vmath.V2(1, 2), w.Velocity(2))

	w.SetLinearDamping(1, 0.5)
	b, ok := w.Body(1)
	require.True(t, ok)
	assert.Equal(t, 0.5, b.Damping)

	// Unknown IDs are ignored
	w.SetPosition(99, vmath.V2(1, 1))
	assert.Equal(t, vmath.Vec2{}, w.Position(99))
	assert.Equal(t, 0.0, w.Mass(99))
}
