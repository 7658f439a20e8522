package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampField(w, h int) *Field {
	f := NewField(UnitGrid(w, h))
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			f.Set(i, j, float64(i+j))
		}
	}
	return f
}

func TestFieldOutOfRangePanics(t *testing.T) {
	f := NewField(UnitGrid(3, 3))
	assert.PanicsWithValue(t, "core: index out of range [3,0] with grid 3x3", func() { f.Value(3, 0) })
	assert.Panics(t, func() { f.Set(0, -1, 1) })
	assert.Panics(t, func() { f.Add(-1, 2, 1) })
}

func TestFieldValueSafeClamps(t *testing.T) {
	f := rampField(3, 3)
	assert.Equal(t, 0.0, f.ValueSafe(-5, -5))
	assert.Equal(t, 4.0, f.ValueSafe(10, 10))
	assert.Equal(t, 2.0, f.ValueSafe(2, -1))
}

func TestFieldNeighbors(t *testing.T) {
	f := rampField(3, 3)

	corner := f.Neighbors(0, 0)
	require.Equal(t, 3, corner.Len())
	centre := f.Neighbors(1, 1)
	require.Equal(t, 8, centre.Len())

	for _, n := range centre.All() {
		d := math.Hypot(float64(n.I-1), float64(n.J-1))
		assert.InDelta(t, (n.Value-2)/d, n.Slope, 1e-12)
		assert.Equal(t, f.Position(n.I, n.J), n.Pos)
	}

	down := f.Downhill(1, 1)
	require.Equal(t, 3, down.Len())
	for _, n := range down.All() {
		assert.Less(t, n.Slope, 0.0)
	}
	up := f.NeighborsFilter(1, 1, 0, true)
	assert.Equal(t, 3, up.Len())

	steepest := down.At(down.Steepest())
	assert.Equal(t, 0, steepest.I)
	assert.Equal(t, 0, steepest.J)
}

func TestProportions(t *testing.T) {
	f := rampField(3, 3)
	down := f.Downhill(1, 1)
	props := Proportions(&down)
	var sum float64
	for k := 0; k < down.Len(); k++ {
		sum += props[k]
	}
	assert.InDelta(t, 1, sum, 1e-12)

	flat := NewField(UnitGrid(3, 3))
	nb := flat.Neighbors(1, 1)
	assert.Equal(t, [MaxNeighbors]float64{}, Proportions(&nb))

	var empty Neighborhood
	assert.Equal(t, [MaxNeighbors]float64{}, Proportions(&empty))
}

func TestFieldSlope(t *testing.T) {
	f := rampField(5, 5)
	assert.InDelta(t, math.Sqrt2, f.Slope(2, 2), 1e-12)
	// One-sided at the border because the outer sample is clamped.
	assert.InDelta(t, math.Hypot(0.5, 0.5), f.Slope(0, 0), 1e-12)

	flat := NewField(UnitGrid(4, 4))
	flat.Fill(3)
	sm := flat.SlopeMap()
	assert.Equal(t, 0.0, sm.Max())
}

func TestFieldNormalize(t *testing.T) {
	f := rampField(4, 3)
	before := f.Export()
	f.Normalize()
	assert.Equal(t, 0.0, f.Min())
	assert.Equal(t, 1.0, f.Max())
	for a := range before {
		for b := range before {
			if before[a].Value < before[b].Value {
				assert.Less(t, f.Values()[a], f.Values()[b])
			}
		}
	}

	flat := NewField(UnitGrid(2, 2))
	flat.Fill(7)
	flat.Normalize()
	assert.Equal(t, []float64{0, 0, 0, 0}, flat.Values())
}

func TestFieldExportSorted(t *testing.T) {
	f := NewField(UnitGrid(3, 1))
	f.Set(0, 0, 1)
	f.Set(1, 0, 5)
	f.Set(2, 0, 1)
	got := f.ExportSorted()
	require.Len(t, got, 3)
	assert.Equal(t, Sample{Value: 5, I: 1, J: 0}, got[0])
	assert.Equal(t, Sample{Value: 1, I: 0, J: 0}, got[1])
	assert.Equal(t, Sample{Value: 1, I: 2, J: 0}, got[2])
	assert.Equal(t, 7.0, f.Sum())
}

func TestFieldCloneIsIndependent(t *testing.T) {
	f := rampField(2, 2)
	c := f.Clone()
	c.Set(0, 0, 42)
	assert.Equal(t, 0.0, f.Value(0, 0))
	f.CopyValues(c)
	assert.Equal(t, 42.0, f.Value(0, 0))
	assert.Panics(t, func() { f.CopyValues(NewField(UnitGrid(3, 2))) })
}
