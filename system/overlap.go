package system

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/lixenwraith/peloton/engine"
	"github.com/lixenwraith/peloton/parameter"
	"github.com/lixenwraith/peloton/physics"
	"github.com/lixenwraith/peloton/status"
	"github.com/lixenwraith/peloton/vmath"
)

// overlapBox is a rider footprint in the broad phase tree
type overlapBox struct {
	idx  int
	rect rtreego.Rect
}

func (b *overlapBox) Bounds() rtreego.Rect { return b.rect }

// overlapPair indexes two riders whose footprints intersect, i < j
type overlapPair struct{ i, j int }

// OverlapSystem separates riders closer than their contact distance by adjusting velocities only
// Phase A accumulates corrections over a few passes, each pass reading a pass-start copy;
// Phase B writes the changed velocities back through the adapter
type OverlapSystem struct {
	// Per-tick buffers reused across ticks
	pos   []vmath.Vec2
	orig  []vmath.Vec2
	vel   []vmath.Vec2
	start []vmath.Vec2
	delta []vmath.Vec2
	boxes []rtreego.Spatial
	pairs []overlapPair

	statPasses *status.AtomicInt
	statPairs  *status.AtomicInt
}

// NewOverlapSystem creates the contact resolver
func NewOverlapSystem(ctx *engine.Context) engine.System {
	return &OverlapSystem{
		statPasses: ctx.Status.Ints.Get(status.KeyOverlapPasses),
		statPairs:  ctx.Status.Ints.Get(status.KeyOverlapPairs),
	}
}

func (s *OverlapSystem) Name() string  { return "overlap" }
func (s *OverlapSystem) Priority() int { return parameter.PriorityOverlap }

func (s *OverlapSystem) Update(ctx *engine.Context, dt float64) {
	n := len(ctx.Riders)
	if n < 2 {
		s.statPasses.Store(0)
		s.statPairs.Store(0)
		return
	}
	contact := ctx.Config.ContactDist()
	gain := ctx.Config.Overlap.Gain

	s.snapshot(ctx)
	if err := s.broadPhase(contact); err != nil {
		ctx.Log.Printf("overlap: broad phase skipped: %v", err)
		return
	}

	// Phase A
	passes := 0
	var contacts int64
	for pass := 0; pass < ctx.Config.Overlap.MaxPasses; pass++ {
		copy(s.start, s.vel)
		for i := range s.delta {
			s.delta[i] = vmath.Vec2{}
		}

		hits := 0
		for _, p := range s.pairs {
			dA, dB, hit := physics.SeparatePair(s.pos[p.i], s.pos[p.j], s.start[p.i], s.start[p.j], contact, gain, pass == 0)
			if !hit {
				continue
			}
			s.delta[p.i] = s.delta[p.i].Add(dA)
			s.delta[p.j] = s.delta[p.j].Add(dB)
			hits++
		}
		if hits == 0 {
			break
		}
		if pass == 0 {
			contacts = int64(hits)
		}
		for i := range s.vel {
			s.vel[i] = s.start[i].Add(s.delta[i])
		}
		passes++
	}

	// Phase B
	for i, r := range ctx.Riders {
		if s.vel[i] != s.orig[i] {
			ctx.Physics.SetVelocity(r.ID, s.vel[i])
		}
	}

	s.statPasses.Store(int64(passes))
	s.statPairs.Store(contacts)
}

func (s *OverlapSystem) snapshot(ctx *engine.Context) {
	n := len(ctx.Riders)
	s.pos = resizeVec(s.pos, n)
	s.orig = resizeVec(s.orig, n)
	s.vel = resizeVec(s.vel, n)
	s.start = resizeVec(s.start, n)
	s.delta = resizeVec(s.delta, n)
	for i, r := range ctx.Riders {
		s.pos[i] = ctx.Physics.Position(r.ID)
		s.orig[i] = ctx.Physics.Velocity(r.ID)
		s.vel[i] = s.orig[i]
	}
}

// broadPhase collects candidate pairs whose contact squares intersect
func (s *OverlapSystem) broadPhase(contact float64) error {
	s.boxes = s.boxes[:0]
	s.pairs = s.pairs[:0]
	side := []float64{contact, contact}
	for i, p := range s.pos {
		rect, err := rtreego.NewRect(rtreego.Point{p.X - contact/2, p.Y - contact/2}, side)
		if err != nil {
			return err
		}
		s.boxes = append(s.boxes, &overlapBox{idx: i, rect: rect})
	}

	tree := rtreego.NewTree(2, 25, 50, s.boxes...)
	for _, obj := range s.boxes {
		a := obj.(*overlapBox)
		for _, hit := range tree.SearchIntersect(a.rect) {
			b := hit.(*overlapBox)
			if b.idx > a.idx {
				s.pairs = append(s.pairs, overlapPair{i: a.idx, j: b.idx})
			}
		}
	}
	sort.Slice(s.pairs, func(x, y int) bool {
		if s.pairs[x].i != s.pairs[y].i {
			return s.pairs[x].i < s.pairs[y].i
		}
		return s.pairs[x].j < s.pairs[y].j
	})
	return nil
}

func resizeVec(buf []vmath.Vec2, n int) []vmath.Vec2 {
	if cap(buf) < n {
		return make([]vmath.Vec2, n)
	}
	return buf[:n]
}
