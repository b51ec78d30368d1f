package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/peloton/vmath"
)

// TestAheadDistanceWraps verifies forward distance is non-negative across the lap boundary
func TestAheadDistanceWraps(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		want     float64
	}{
		{"simple forward", 10, 25, 15},
		{"behind wraps forward", 25, 10, 985},
		{"across finish", 990, 5, 15},
		{"same point", 400, 400, 0},
		{"cumulative inputs", 2010, 3005, 995},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AheadDistance(tt.from, tt.to, 1000), 1e-9)
		})
	}
}

// TestWrapDistanceShortest verifies symmetric shortest distance never exceeds half a lap
func TestWrapDistanceShortest(t *testing.T) {
	assert.InDelta(t, 15.0, WrapDistance(990, 5, 1000), 1e-9)
	assert.InDelta(t, 15.0, WrapDistance(5, 990, 1000), 1e-9)
	assert.InDelta(t, 500.0, WrapDistance(0, 500, 1000), 1e-9)
	assert.InDelta(t, 400.0, WrapDistance(0, 600, 1000), 1e-9)

	for a := 0.0; a < 1000; a += 37 {
		for b := 0.0; b < 1000; b += 53 {
			d := WrapDistance(a, b, 1000)
			assert.LessOrEqual(t, d, 500.0)
			assert.GreaterOrEqual(t, d, 0.0)
		}
	}
}

// TestLocateRoundTrip verifies LanePosition and Locate are inverse on the road
func TestLocateRoundTrip(t *testing.T) {
	tr := New(1000, 12)
	for _, dist := range []float64{0, 1, 250, 499.5, 750, 999} {
		for _, lane := range []float64{-4.5, 0, 3} {
			p := tr.LanePosition(dist, lane)
			gotDist, gotLane := tr.Locate(p)
			assert.InDelta(t, dist, gotDist, 1e-6, "dist %v lane %v", dist, lane)
			assert.InDelta(t, lane, gotLane, 1e-6, "dist %v lane %v", dist, lane)
		}
	}
}

// TestFrameOrthonormal verifies forward follows increasing distance and right points outward
func TestFrameOrthonormal(t *testing.T) {
	tr := New(1000, 12)
	for _, dist := range []float64{0, 123, 600} {
		fwd, right := tr.Frame(dist)
		assert.InDelta(t, 1.0, fwd.Len(), 1e-9)
		assert.InDelta(t, 1.0, right.Len(), 1e-9)
		assert.InDelta(t, 0.0, fwd.Dot(right), 1e-9)

		p := tr.LanePosition(dist, 0)
		ahead := p.Add(fwd.Scale(0.5))
		d, _ := tr.Locate(ahead)
		assert.Greater(t, tr.AheadDistance(dist, d), 0.0)
		assert.Less(t, tr.AheadDistance(dist, d), 1.0)

		_, lane := tr.Locate(p.Add(right))
		assert.Greater(t, lane, 0.0)
	}
}

// TestLocateDegenerateCentre verifies the centre resolves without NaN
func TestLocateDegenerateCentre(t *testing.T) {
	tr := New(1000, 12)
	d, lane := tr.Locate(vmath.Vec2{})
	assert.False(t, math.IsNaN(d))
	assert.False(t, math.IsNaN(lane))
	assert.Equal(t, vmath.Vec2{X: 1}, RadialDirection(vmath.Vec2{}))
}

// TestMaxLaneOffset verifies the usable half width
func TestMaxLaneOffset(t *testing.T) {
	tr := New(1000, 12)
	assert.InDelta(t, 6-0.85-0.15, tr.MaxLaneOffset(1.7, 0.3), 1e-9)
	assert.InDelta(t, 1000/(2*math.Pi), tr.Radius(), 1e-9)
}

// TestGeometryPointAt verifies the polyline samples lie on the centreline
func TestGeometryPointAt(t *testing.T) {
	tr := New(1000, 12)
	g := NewGeometry(tr, 360)
	require.Len(t, g.Line(), 361)
	assert.InDelta(t, 1000, g.Length(), 0.1)

	for _, u := range []float64{0, 0.1, 0.5, 0.99, 1.25} {
		p := g.PointAt(u)
		assert.InDelta(t, tr.Radius(), p.Len(), 0.05)
		tan := g.TangentAt(u)
		assert.InDelta(t, 1.0, tan.Len(), 1e-9)
	}

	b := g.Bound()
	assert.InDelta(t, -tr.Radius(), b.Min[0], 0.05)
	assert.InDelta(t, tr.Radius(), b.Max[0], 0.05)

	inner, outer := g.Edges(tr)
	assert.InDelta(t, tr.InnerRadius(), vmath.Vec2{X: inner[0][0], Y: inner[0][1]}.Len(), 1e-6)
	assert.InDelta(t, tr.OuterRadius(), vmath.Vec2{X: outer[0][0], Y: outer[0][1]}.Len(), 1e-6)
}
