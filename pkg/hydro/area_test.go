package hydro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erosim/pkg/core"
)

func bumpyField(w, h int) *core.Field {
	f := core.NewField(core.UnitGrid(w, h))
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			f.Set(i, j, float64(i+2*j)+0.3*math.Sin(float64(3*i+j)))
		}
	}
	return f
}

func line(values ...float64) *core.Field {
	f := core.NewField(core.UnitGrid(len(values), 1))
	copy(f.Values(), values)
	return f
}

func TestFlowAccumulationLine(t *testing.T) {
	height := line(2, 1, 0)
	tests := []struct {
		policy Policy
		want   []float64
	}{
		{Repartition, []float64{0, 0, 3}},
		{OneWay, []float64{1, 2, 3}},
		{Accumulate, []float64{1, 2, 3}},
	}
	for _, tc := range tests {
		t.Run(tc.policy.String(), func(t *testing.T) {
			got := FlowAccumulation(height, tc.policy)
			assert.InDeltaSlice(t, tc.want, got.Values(), 1e-12)
		})
	}
}

func TestRepartitionConservesArea(t *testing.T) {
	height := bumpyField(8, 6)
	area := FlowAccumulation(height, Repartition)
	assert.InDelta(t, float64(height.Len()), area.Sum(), 1e-9)
	for _, v := range area.Values() {
		assert.GreaterOrEqual(t, v, -1e-12)
	}
}

func TestOneWayDuplicatesArea(t *testing.T) {
	height := bumpyField(4, 4)
	area := FlowAccumulation(height, OneWay)
	assert.Greater(t, area.Sum(), float64(height.Len()))
}

func TestFlowAccumulationFlat(t *testing.T) {
	height := core.NewField(core.UnitGrid(5, 5))
	height.Fill(2)
	for _, p := range []Policy{Repartition, OneWay, Accumulate} {
		area := FlowAccumulation(height, p)
		assert.Equal(t, 25.0, area.Sum(), p.String())
	}
}

func TestWaterIndex(t *testing.T) {
	flat := core.NewField(core.UnitGrid(3, 3))
	wi := WaterIndexes(flat, Accumulate)
	for _, v := range wi.Values() {
		assert.Equal(t, 1.0, v)
	}

	height := line(2, 1, 0)
	area := FlowAccumulation(height, Accumulate)
	wi = WaterIndex(height, area)
	slope := height.SlopeMap()
	for idx, v := range wi.Values() {
		want := math.Sqrt(area.Values()[idx]) / (1 + 4*slope.Values()[idx])
		assert.InDelta(t, want, v, 1e-12)
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{Repartition, OneWay, Accumulate} {
		got, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParsePolicy(" One-Way ")
	require.NoError(t, err)
	assert.Equal(t, OneWay, got)

	_, err = ParsePolicy("sideways")
	assert.Error(t, err)
	assert.Equal(t, "Policy(9)", Policy(9).String())
}
