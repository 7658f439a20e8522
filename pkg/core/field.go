package core

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Field is one dense row-major value per grid cell.
type Field struct {
	Grid
	data []float64
}

// NewField allocates a zero field over g.
func NewField(g Grid) *Field {
	return &Field{Grid: g, data: make([]float64, g.Len())}
}

// Values exposes the backing slice in row-major order.
func (f *Field) Values() []float64 { return f.data }

// Value returns the value at (i, j) and panics when the cell is out of range.
func (f *Field) Value(i, j int) float64 {
	f.mustInBounds(i, j)
	return f.data[f.Index(i, j)]
}

// ValueSafe clamps (i, j) to the nearest cell before reading.
func (f *Field) ValueSafe(i, j int) float64 {
	i, j = f.Clamp(i, j)
	return f.data[f.Index(i, j)]
}

// Set stores v at (i, j).
func (f *Field) Set(i, j int, v float64) {
	f.mustInBounds(i, j)
	f.data[f.Index(i, j)] = v
}

// Add increments the value at (i, j) by v.
func (f *Field) Add(i, j int, v float64) {
	f.mustInBounds(i, j)
	f.data[f.Index(i, j)] += v
}

// Fill sets every cell to v.
func (f *Field) Fill(v float64) {
	for i := range f.data {
		f.data[i] = v
	}
}

// Clone returns an independent copy.
func (f *Field) Clone() *Field {
	return &Field{Grid: f.Grid, data: slices.Clone(f.data)}
}

// CopyValues overwrites f with the values of src, which must share its shape.
func (f *Field) CopyValues(src *Field) {
	if !f.SameShape(src.Grid) {
		panic("core: field shape mismatch")
	}
	copy(f.data, src.data)
}

// Min returns the smallest value.
func (f *Field) Min() float64 { return floats.Min(f.data) }

// Max returns the largest value.
func (f *Field) Max() float64 { return floats.Max(f.data) }

// Sum returns the sum of all values.
func (f *Field) Sum() float64 { return floats.Sum(f.data) }

// Normalize rescales the field to [0, 1] in place. A flat field, where the
// maximum equals the minimum, becomes all zeros.
func (f *Field) Normalize() *Field {
	lo, hi := f.Min(), f.Max()
	if !(hi > lo) {
		clear(f.data)
		return f
	}
	floats.AddConst(-lo, f.data)
	span := hi - lo
	for i := range f.data {
		f.data[i] /= span
	}
	return f
}

// Sample is one exported cell.
type Sample struct {
	Value float64
	I, J  int
}

// Export returns every cell in index order.
func (f *Field) Export() []Sample {
	out := make([]Sample, len(f.data))
	for idx, v := range f.data {
		i, j := f.Coords(idx)
		out[idx] = Sample{Value: v, I: i, J: j}
	}
	return out
}

// ExportSorted returns every cell ordered by descending value. Equal values
// keep their index order.
func (f *Field) ExportSorted() []Sample {
	out := f.Export()
	slices.SortStableFunc(out, func(a, b Sample) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return out
}
