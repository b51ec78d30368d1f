// Package track provides distance arithmetic on the closed circuit and the conversions
// between world positions and (distance, lane offset) coordinates
package track

import (
	"math"

	"github.com/lixenwraith/peloton/vmath"
)

// Track is a circular closed loop of fixed length with a road of fixed width
// Zero value is not usable; construct with New
type Track struct {
	Length    float64
	RoadWidth float64
	radius    float64
}

// New creates a circuit whose centreline circumference equals length
func New(length, roadWidth float64) Track {
	return Track{
		Length:    length,
		RoadWidth: roadWidth,
		radius:    length / (2 * math.Pi),
	}
}

// AheadDistance returns the non-negative forward distance from 'from' to 'to' modulo length
func AheadDistance(from, to, length float64) float64 {
	return math.Mod(math.Mod(to-from, length)+length, length)
}

// WrapDistance returns the shortest distance between a and b in either direction, at most length/2
func WrapDistance(a, b, length float64) float64 {
	d := math.Mod(math.Abs(b-a), length)
	if d > length/2 {
		d = length - d
	}
	return d
}

// AheadDistance is the forward distance on this circuit
func (t Track) AheadDistance(from, to float64) float64 {
	return AheadDistance(from, to, t.Length)
}

// WrapDistance is the shortest distance on this circuit
func (t Track) WrapDistance(a, b float64) float64 {
	return WrapDistance(a, b, t.Length)
}

// Radius returns the centreline radius
func (t Track) Radius() float64 { return t.radius }

// InnerRadius returns the radius of the inside road edge
func (t Track) InnerRadius() float64 { return t.radius - t.RoadWidth/2 }

// OuterRadius returns the radius of the outside road edge
func (t Track) OuterRadius() float64 { return t.radius + t.RoadWidth/2 }

// MaxLaneOffset returns the lane offset limit keeping a rider body plus half the lateral gap on the road
func (t Track) MaxLaneOffset(riderWidth, lateralGap float64) float64 {
	return t.RoadWidth/2 - riderWidth/2 - lateralGap/2
}

// Wrap maps a cumulative distance into [0, length)
func (t Track) Wrap(dist float64) float64 {
	return AheadDistance(0, dist, t.Length)
}

// Angle returns the polar angle of a distance along the circuit
func (t Track) Angle(dist float64) float64 {
	return t.Wrap(dist) / t.Length * 2 * math.Pi
}

// Frame returns the forward (direction of travel) and right (outward) unit vectors at dist
func (t Track) Frame(dist float64) (forward, right vmath.Vec2) {
	theta := t.Angle(dist)
	sin, cos := math.Sincos(theta)
	return vmath.Vec2{X: -sin, Y: cos}, vmath.Vec2{X: cos, Y: sin}
}

// LanePosition returns the world position of a lane offset at a distance
func (t Track) LanePosition(dist, laneOffset float64) vmath.Vec2 {
	theta := t.Angle(dist)
	r := t.radius + laneOffset
	sin, cos := math.Sincos(theta)
	return vmath.Vec2{X: r * cos, Y: r * sin}
}

// Locate converts a world position to its in-lap distance and signed lane offset
// A position exactly at the circuit centre resolves along the default direction (1, 0)
func (t Track) Locate(p vmath.Vec2) (dist, laneOffset float64) {
	radial := p.Len()
	if radial == 0 {
		return 0, -t.radius
	}
	a := math.Atan2(p.Y, p.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a / (2 * math.Pi) * t.Length, radial - t.radius
}

// RadialDirection returns the outward unit vector at p, falling back to (1, 0) at the centre
func RadialDirection(p vmath.Vec2) vmath.Vec2 {
	if p.IsZero() {
		return vmath.Vec2{X: 1}
	}
	return p.Normalize()
}
