package render

import (
	"math"

	"github.com/paulmach/orb"
)

// cellAspect is the height/width ratio of a terminal cell
const cellAspect = 2.0

// Viewport maps world coordinates onto a character grid, preserving aspect ratio
// World +Y points up; rows grow downward
type Viewport struct {
	bound orb.Bound
	cols  int
	rows  int
	scale float64 // Columns per world unit
	offX  float64
	offY  float64
}

// NewViewport fits bound into a cols x rows area with a one-cell margin
func NewViewport(bound orb.Bound, cols, rows int) Viewport {
	v := Viewport{bound: bound, cols: cols, rows: rows}
	w := bound.Max[0] - bound.Min[0]
	h := bound.Max[1] - bound.Min[1]
	if cols < 3 || rows < 3 || w <= 0 || h <= 0 {
		return v
	}
	sx := float64(cols-2) / w
	sy := float64(rows-2) * cellAspect / h
	v.scale = math.Min(sx, sy)
	v.offX = (float64(cols) - w*v.scale) / 2
	v.offY = (float64(rows) - h*v.scale/cellAspect) / 2
	return v
}

// Project returns the cell of a world point, ok false when it falls outside the grid
func (v Viewport) Project(x, y float64) (col, row int, ok bool) {
	if v.scale == 0 {
		return 0, 0, false
	}
	col = int(math.Floor(v.offX + (x-v.bound.Min[0])*v.scale))
	row = int(math.Floor(v.offY + (v.bound.Max[1]-y)*v.scale/cellAspect))
	if col < 0 || col >= v.cols || row < 0 || row >= v.rows {
		return col, row, false
	}
	return col, row, true
}

// Size returns the grid dimensions
func (v Viewport) Size() (cols, rows int) { return v.cols, v.rows }
