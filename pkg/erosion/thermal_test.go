package erosion

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erosim/pkg/core"
)

func hillMap(w, h int) *core.Map {
	m := core.NewMap(w, h, r2.Point{}, r2.Point{X: float64(w), Y: float64(h)})
	rock := m.NewLayer()
	cx, cy := float64(w-1)/2, float64(h-1)/2
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			d := math.Hypot(float64(i)-cx, float64(j)-cy)
			rock.Set(i, j, 10-d+0.25*math.Sin(float64(i*j)))
		}
	}
	return m
}

func TestErodeConstantScenario(t *testing.T) {
	m := core.NewMap(3, 3, r2.Point{}, r2.Point{X: 3, Y: 3})
	m.NewLayer()
	m.NewLayer()

	ErodeConstant(m, 0.1)

	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			if got := m.Layer(0).Value(i, j); got != -0.1 {
				t.Fatalf("bedrock (%d,%d) = %v, want -0.1", i, j, got)
			}
			if got := m.Layer(1).Value(i, j); got != 0.1 {
				t.Fatalf("sediment (%d,%d) = %v, want 0.1", i, j, got)
			}
		}
	}
}

func TestThermalLocalConservation(t *testing.T) {
	variants := []struct {
		name  string
		erode func(*core.Map, float64)
	}{
		{"constant", ErodeConstant},
		{"median", ErodeMedianSlope},
		{"mean", ErodeMeanSlope},
		{"slope-controlled", ErodeSlopeControlled},
	}
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			m := hillMap(9, 7)
			m.NewLayer().Fill(0.2)
			rock := append([]float64(nil), m.Layer(0).Values()...)
			sand := append([]float64(nil), m.Layer(1).Values()...)

			v.erode(m, 0.05)

			var moved float64
			for idx := range rock {
				dRock := m.Layer(0).Values()[idx] - rock[idx]
				dSand := m.Layer(1).Values()[idx] - sand[idx]
				assert.InDelta(t, -dRock, dSand, 1e-12)
				assert.LessOrEqual(t, dRock, 1e-15)
				moved += dSand
			}
			assert.Greater(t, moved, 0.0)
		})
	}
}

func TestThermalCreatesSediment(t *testing.T) {
	m := hillMap(4, 4)
	require.Equal(t, 1, m.LayerCount())
	ErodeMeanSlope(m, 0.1)
	require.Equal(t, 2, m.LayerCount())
	assert.Greater(t, m.Layer(1).Sum(), 0.0)

	empty := core.NewMap(2, 2, r2.Point{}, r2.Point{X: 1, Y: 1})
	assert.Panics(t, func() { ErodeConstant(empty, 1) })
}

func TestSlopeReductions(t *testing.T) {
	m := core.NewMap(3, 3, r2.Point{}, r2.Point{X: 3, Y: 3})
	rock := m.NewLayer()
	rock.Set(0, 1, 2)
	rock.Set(2, 1, 1)
	rock.Set(1, 0, 4)

	height := m.GenerateField()
	nb := height.Neighbors(1, 1)
	// Absolute slopes: 4, 2, 1 and five zeros.
	assert.Equal(t, 0.0, medianAbsSlope(&nb))
	assert.InDelta(t, 7.0/8, meanAbsSlope(&nb), 1e-12)

	corner := height.Neighbors(0, 0)
	// Neighbours (1,0)=4, (0,1)=2, (1,1)=0 at distances 1, 1, sqrt2.
	assert.Equal(t, 2.0, medianAbsSlope(&corner))

	var none core.Neighborhood
	assert.Equal(t, 0.0, medianAbsSlope(&none))
	assert.Equal(t, 0.0, meanAbsSlope(&none))
}

func TestMedianEvenCount(t *testing.T) {
	m := core.NewMap(4, 1, r2.Point{}, r2.Point{X: 4, Y: 1})
	copy(m.NewLayer().Values(), []float64{0, 1, 4, 0})
	height := m.GenerateField()
	nb := height.Neighbors(1, 0)
	// Two neighbours with absolute slopes 1 and 3.
	require.Equal(t, 2, nb.Len())
	assert.Equal(t, 2.0, medianAbsSlope(&nb))
}

func TestControlFunction(t *testing.T) {
	assert.Equal(t, 1.0, ControlFunction(0))
	assert.Equal(t, 0.0, ControlFunction(40))
	assert.Equal(t, 0.0, ControlFunction(55))
	assert.Equal(t, 0.0, ControlFunction(1e9))
	assert.InDelta(t, math.Pow(0.75, 3), ControlFunction(20), 1e-12)

	prev := ControlFunction(0)
	for s := 0.5; s <= 40; s += 0.5 {
		v := ControlFunction(s)
		if v > prev {
			t.Fatalf("ControlFunction increased at %v: %v > %v", s, v, prev)
		}
		prev = v
	}
}

func TestSlopeControlledUsesBedrock(t *testing.T) {
	m := core.NewMap(3, 3, r2.Point{}, r2.Point{X: 3, Y: 3})
	m.NewLayer()
	sand := m.NewLayer()
	// A sediment spike does not slow erosion because only bedrock slope counts.
	sand.Set(1, 1, 100)
	ErodeSlopeControlled(m, 0.5)
	for _, v := range m.Layer(0).Values() {
		assert.Equal(t, -0.5, v)
	}
}

func TestThermalRejectsNegativeRate(t *testing.T) {
	m := hillMap(5, 5)
	before := m.Bedrock().Clone().Values()
	for name, erode := range map[string]func(*core.Map, float64){
		"constant": ErodeConstant,
		"median":   ErodeMedianSlope,
		"mean":     ErodeMeanSlope,
		"slope":    ErodeSlopeControlled,
	} {
		assert.PanicsWithValue(t, "erosion: negative thermal rate -0.1", func() { erode(m, -0.1) }, name)
	}
	assert.Equal(t, before, m.Bedrock().Values(), "rejected passes leave the map untouched")
	assert.Equal(t, 1, m.LayerCount())
}
