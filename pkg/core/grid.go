package core

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Grid maps a fixed block of W*H cells onto the box spanned by corners a and b.
// Cells are addressed by (i, j) with i along x and j along y, stored row-major.
type Grid struct {
	w, h     int
	a, b     r2.Point
	cellSize r2.Point
}

// NewGrid returns a grid of w*h cells covering the box [a, b]. Non-positive
// dimensions are clamped to 1. A box with no positive extent panics.
func NewGrid(w, h int, a, b r2.Point) Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	g := Grid{w: w, h: h}
	g.Reshape(a, b)
	return g
}

// UnitGrid covers [0, w]x[0, h] so every cell is one unit wide.
func UnitGrid(w, h int) Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return NewGrid(w, h, r2.Point{}, r2.Point{X: float64(w), Y: float64(h)})
}

// Reshape relabels the coordinates the cells represent. The cell count and any
// stored values are left untouched.
func (g *Grid) Reshape(a, b r2.Point) {
	cs := r2.Point{X: (b.X - a.X) / float64(g.w), Y: (b.Y - a.Y) / float64(g.h)}
	if !(cs.X > 0) || !(cs.Y > 0) || math.IsInf(cs.X, 0) || math.IsInf(cs.Y, 0) {
		panic(fmt.Sprintf("core: degenerate grid box %v..%v", a, b))
	}
	g.a, g.b, g.cellSize = a, b, cs
}

// W returns the number of cells along x.
func (g Grid) W() int { return g.w }

// H returns the number of cells along y.
func (g Grid) H() int { return g.h }

// Len returns the number of cells.
func (g Grid) Len() int { return g.w * g.h }

// Lower returns corner a of the box.
func (g Grid) Lower() r2.Point { return g.a }

// Upper returns corner b of the box.
func (g Grid) Upper() r2.Point { return g.b }

// CellSize returns the extent of one cell.
func (g Grid) CellSize() r2.Point { return g.cellSize }

// SameShape reports whether o has the same cell dimensions.
func (g Grid) SameShape(o Grid) bool { return g.w == o.w && g.h == o.h }

// InBounds reports whether (i, j) addresses a cell.
func (g Grid) InBounds(i, j int) bool {
	return i >= 0 && i < g.w && j >= 0 && j < g.h
}

// Index returns the linear slice index for (i, j).
func (g Grid) Index(i, j int) int { return j*g.w + i }

// Coords is the inverse of Index.
func (g Grid) Coords(idx int) (int, int) { return idx % g.w, idx / g.w }

// Clamp moves (i, j) onto the nearest cell.
func (g Grid) Clamp(i, j int) (int, int) {
	return clampInt(i, 0, g.w-1), clampInt(j, 0, g.h-1)
}

// Position returns the centre of cell (i, j).
func (g Grid) Position(i, j int) r2.Point {
	return r2.Point{
		X: g.a.X + (float64(i)+0.5)*g.cellSize.X,
		Y: g.a.Y + (float64(j)+0.5)*g.cellSize.Y,
	}
}

// Nearest returns the cell containing p, clamped into the grid.
func (g Grid) Nearest(p r2.Point) (int, int) {
	i := int(math.Floor((p.X - g.a.X) / g.cellSize.X))
	j := int(math.Floor((p.Y - g.a.Y) / g.cellSize.Y))
	return g.Clamp(i, j)
}

// Distance is the distance between the centres of two cells offset by (di, dj).
func (g Grid) Distance(di, dj int) float64 {
	return math.Hypot(float64(di)*g.cellSize.X, float64(dj)*g.cellSize.Y)
}

func (g Grid) mustInBounds(i, j int) {
	if !g.InBounds(i, j) {
		panic(fmt.Sprintf("core: index out of range [%d,%d] with grid %dx%d", i, j, g.w, g.h))
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
