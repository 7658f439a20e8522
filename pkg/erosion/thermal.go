// Package erosion holds the passes that reshape a layered map: thermal
// erosion, sediment transport and the two hydraulic drivers.
package erosion

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"erosim/pkg/core"
)

// ControlThreshold is the slope at which slope-controlled erosion stops.
const ControlThreshold = 40.0

// ControlFunction is the cubic falloff max(0, 1-(s/40)^2)^3. It is 1 on flat
// ground and 0 from a slope of 40 upwards.
func ControlFunction(s float64) float64 {
	if math.Abs(s) >= ControlThreshold {
		return 0
	}
	t := s / ControlThreshold
	u := 1 - t*t
	return u * u * u
}

// ErodeConstant turns k units of bedrock into sediment in every cell.
func ErodeConstant(m *core.Map, k float64) {
	mustRate(k)
	apply(m, func(int, int) float64 { return k })
}

// ErodeMedianSlope erodes k times the median absolute slope around each cell.
func ErodeMedianSlope(m *core.Map, k float64) {
	mustRate(k)
	height := m.GenerateField()
	apply(m, func(i, j int) float64 {
		nb := height.Neighbors(i, j)
		return k * medianAbsSlope(&nb)
	})
}

// ErodeMeanSlope erodes k times the mean absolute slope around each cell.
func ErodeMeanSlope(m *core.Map, k float64) {
	mustRate(k)
	height := m.GenerateField()
	apply(m, func(i, j int) float64 {
		nb := height.Neighbors(i, j)
		return k * meanAbsSlope(&nb)
	})
}

// ErodeSlopeControlled erodes k*ControlFunction(bedrock slope). Slopes are
// taken from the bedrock as it was before the pass.
func ErodeSlopeControlled(m *core.Map, k float64) {
	mustRate(k)
	rock := m.Bedrock().Clone()
	apply(m, func(i, j int) float64 {
		return k * ControlFunction(rock.Slope(i, j))
	})
}

// mustRate panics on a negative rate, which would move sediment back into
// bedrock.
func mustRate(k float64) {
	if k < 0 || math.IsNaN(k) {
		panic(fmt.Sprintf("erosion: negative thermal rate %g", k))
	}
}

// apply moves delta(i, j) from bedrock to sediment for every cell.
func apply(m *core.Map, delta func(i, j int) float64) {
	sediment := m.EnsureSediment()
	rock := m.Bedrock()
	for j := 0; j < m.H(); j++ {
		for i := 0; i < m.W(); i++ {
			d := delta(i, j)
			rock.Add(i, j, -d)
			sediment.Add(i, j, d)
		}
	}
}

func absSlopes(nb *core.Neighborhood, buf *[core.MaxNeighbors]float64) []float64 {
	s := buf[:nb.Len()]
	for k, n := range nb.All() {
		s[k] = math.Abs(n.Slope)
	}
	return s
}

func medianAbsSlope(nb *core.Neighborhood) float64 {
	var buf [core.MaxNeighbors]float64
	s := absSlopes(nb, &buf)
	if len(s) == 0 {
		return 0
	}
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

func meanAbsSlope(nb *core.Neighborhood) float64 {
	var buf [core.MaxNeighbors]float64
	s := absSlopes(nb, &buf)
	if len(s) == 0 {
		return 0
	}
	return stat.Mean(s, nil)
}
