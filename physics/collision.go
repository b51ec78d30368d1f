package physics

import "github.com/lixenwraith/peloton/vmath"

// coincidentDist is the separation below which the contact normal is undefined
const coincidentDist = 1e-3

// SeparatePair computes symmetric velocity corrections for two equal bodies closer than minDist
// With push set, each body receives overlap/2*gain along the contact normal; a closing
// normal velocity is then split evenly. Coincident bodies use the default normal (1, 0).
// Returns the deltas for A and B and whether any correction was produced
func SeparatePair(posA, posB, velA, velB vmath.Vec2, minDist, gain float64, push bool) (dA, dB vmath.Vec2, hit bool) {
	delta := posA.Sub(posB)
	distSq := delta.LenSq()
	if distSq >= minDist*minDist {
		return vmath.Vec2{}, vmath.Vec2{}, false
	}

	dist := delta.Len()
	n := vmath.Vec2{X: 1}
	if dist > coincidentDist {
		n = delta.Scale(1 / dist)
	}

	va, vb := velA, velB
	if push {
		adjust := n.Scale((minDist - dist) / 2 * gain)
		va = va.Add(adjust)
		vb = vb.Sub(adjust)
		hit = true
	}

	relVN := va.Sub(vb).Dot(n)
	if relVN < 0 {
		impulse := n.Scale(relVN / 2)
		va = va.Sub(impulse)
		vb = vb.Add(impulse)
		hit = true
	}

	return va.Sub(velA), vb.Sub(velB), hit
}
