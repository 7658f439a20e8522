package core

import (
	"math"

	"github.com/golang/geo/r2"
)

// Neighbor is one in-bounds cell of an 8-neighbourhood. Slope is the signed
// height change per unit distance, negative when the neighbour is lower.
type Neighbor struct {
	I, J  int
	Pos   r2.Point
	Value float64
	Slope float64
}

// MaxNeighbors is the size of a full Moore neighbourhood.
const MaxNeighbors = 8

// Neighborhood holds up to eight neighbours. Only the first Len entries are live.
type Neighborhood struct {
	cells [MaxNeighbors]Neighbor
	n     int
}

// Len returns the number of live neighbours.
func (nb *Neighborhood) Len() int { return nb.n }

// At returns the k-th live neighbour.
func (nb *Neighborhood) At(k int) Neighbor { return nb.cells[:nb.n][k] }

// All returns the live neighbours.
func (nb *Neighborhood) All() []Neighbor { return nb.cells[:nb.n] }

// Steepest returns the index of the neighbour with the lowest slope, or -1.
func (nb *Neighborhood) Steepest() int {
	best := -1
	for k := 0; k < nb.n; k++ {
		if best < 0 || nb.cells[k].Slope < nb.cells[best].Slope {
			best = k
		}
	}
	return best
}

var mooreOffsets = [MaxNeighbors][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighbors returns the in-bounds neighbours of (i, j).
func (f *Field) Neighbors(i, j int) Neighborhood {
	return f.neighbors(i, j, func(float64) bool { return true })
}

// NeighborsFilter keeps neighbours whose slope is below threshold, or above it
// when above is set.
func (f *Field) NeighborsFilter(i, j int, threshold float64, above bool) Neighborhood {
	if above {
		return f.neighbors(i, j, func(s float64) bool { return s > threshold })
	}
	return f.neighbors(i, j, func(s float64) bool { return s < threshold })
}

// Downhill returns the strictly lower neighbours of (i, j).
func (f *Field) Downhill(i, j int) Neighborhood {
	return f.NeighborsFilter(i, j, 0, false)
}

func (f *Field) neighbors(i, j int, keep func(float64) bool) Neighborhood {
	var nb Neighborhood
	v := f.Value(i, j)
	for _, off := range mooreOffsets {
		ni, nj := i+off[0], j+off[1]
		if !f.InBounds(ni, nj) {
			continue
		}
		nv := f.data[f.Index(ni, nj)]
		slope := (nv - v) / f.Distance(off[0], off[1])
		if !keep(slope) {
			continue
		}
		nb.cells[nb.n] = Neighbor{I: ni, J: nj, Pos: f.Position(ni, nj), Value: nv, Slope: slope}
		nb.n++
	}
	return nb
}

// Proportions splits one unit across the live neighbours in proportion to the
// magnitude of their slopes. When every slope is zero all shares are zero.
func Proportions(nb *Neighborhood) [MaxNeighbors]float64 {
	var out [MaxNeighbors]float64
	var total float64
	for k := 0; k < nb.n; k++ {
		out[k] = math.Abs(nb.cells[k].Slope)
		total += out[k]
	}
	if total == 0 {
		return [MaxNeighbors]float64{}
	}
	for k := 0; k < nb.n; k++ {
		out[k] /= total
	}
	return out
}

// Slope returns the central-difference gradient magnitude at (i, j). Samples
// beyond the border are clamped.
func (f *Field) Slope(i, j int) float64 {
	f.mustInBounds(i, j)
	cs := f.CellSize()
	gx := (f.ValueSafe(i+1, j) - f.ValueSafe(i-1, j)) / (2 * cs.X)
	gy := (f.ValueSafe(i, j+1) - f.ValueSafe(i, j-1)) / (2 * cs.Y)
	return math.Hypot(gx, gy)
}

// SlopeMap returns the gradient magnitude of every cell.
func (f *Field) SlopeMap() *Field {
	out := NewField(f.Grid)
	for j := 0; j < f.H(); j++ {
		for i := 0; i < f.W(); i++ {
			out.data[f.Index(i, j)] = f.Slope(i, j)
		}
	}
	return out
}
