package track

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/lixenwraith/peloton/vmath"
)

// Geometry is the rendering-side view of the circuit as a closed polyline
// Parameter u is normalized progress in [0, 1)
type Geometry struct {
	line   orb.LineString
	length float64
	cum    []float64 // Cumulative polyline length at each vertex
}

// NewGeometry samples the centreline into segments vertices, closing the loop
func NewGeometry(t Track, segments int) *Geometry {
	if segments < 3 {
		segments = 3
	}
	line := make(orb.LineString, 0, segments+1)
	for i := 0; i <= segments; i++ {
		p := t.LanePosition(float64(i)/float64(segments)*t.Length, 0)
		line = append(line, orb.Point{p.X, p.Y})
	}

	cum := make([]float64, len(line))
	for i := 1; i < len(line); i++ {
		cum[i] = cum[i-1] + planar.Distance(line[i-1], line[i])
	}

	return &Geometry{
		line:   line,
		length: planar.Length(line),
		cum:    cum,
	}
}

// Line returns the closed centreline polyline
func (g *Geometry) Line() orb.LineString { return g.line }

// Bound returns the axis-aligned bounding box of the centreline
func (g *Geometry) Bound() orb.Bound { return g.line.Bound() }

// Length returns the polyline perimeter, slightly shorter than the true circumference
func (g *Geometry) Length() float64 { return g.length }

// segmentAt locates the segment containing normalized parameter u and the fraction along it
func (g *Geometry) segmentAt(u float64) (int, float64) {
	u = u - math.Floor(u)
	target := u * g.length
	lo, hi := 0, len(g.cum)-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if g.cum[mid] <= target {
			lo = mid
		} else {
			hi = mid
		}
	}
	seg := g.cum[hi] - g.cum[lo]
	if seg == 0 {
		return lo, 0
	}
	return lo, (target - g.cum[lo]) / seg
}

// PointAt returns the centreline position at normalized parameter u
func (g *Geometry) PointAt(u float64) vmath.Vec2 {
	i, f := g.segmentAt(u)
	a, b := g.line[i], g.line[i+1]
	return vmath.Vec2{X: a[0] + (b[0]-a[0])*f, Y: a[1] + (b[1]-a[1])*f}
}

// TangentAt returns the unit direction of travel at normalized parameter u
func (g *Geometry) TangentAt(u float64) vmath.Vec2 {
	i, _ := g.segmentAt(u)
	a, b := g.line[i], g.line[i+1]
	return vmath.Vec2{X: b[0] - a[0], Y: b[1] - a[1]}.Normalize()
}

// Edges returns the inner and outer road edges as closed polylines
func (g *Geometry) Edges(t Track) (inner, outer orb.LineString) {
	inner = make(orb.LineString, len(g.line))
	outer = make(orb.LineString, len(g.line))
	half := t.RoadWidth / 2
	for i, p := range g.line {
		dir := RadialDirection(vmath.Vec2{X: p[0], Y: p[1]})
		inner[i] = orb.Point{p[0] - dir.X*half, p[1] - dir.Y*half}
		outer[i] = orb.Point{p[0] + dir.X*half, p[1] + dir.Y*half}
	}
	return inner, outer
}
