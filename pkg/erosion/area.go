package erosion

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"erosim/pkg/core"
	"erosim/pkg/hydro"
)

// AreaStats reports the material moved by an area-driven pass.
type AreaStats struct {
	Eroded    float64
	Deposited float64
}

// ErodeFromArea derives flow accumulation and slope from the aggregate height
// and runs ErodeWithFields.
func ErodeFromArea(m *core.Map, k float64, p hydro.Policy, transport bool) AreaStats {
	height := m.GenerateField()
	area := hydro.FlowAccumulation(height, p)
	return ErodeWithFields(m, area, height.SlopeMap(), k, transport)
}

// ErodeWithFields removes k*normalize(sqrt(slope*sqrt(area))) from bedrock.
// Both inputs are normalized to [0, 1] first; the caller's fields are not
// modified. With transport the eroded total is laid down as sediment in
// proportion to log(1+area)/sqrt(1+slope^2), so the grid-wide sums match.
func ErodeWithFields(m *core.Map, area, slope *core.Field, k float64, transport bool) AreaStats {
	a := area.Clone().Normalize().Values()
	s := slope.Clone().Normalize().Values()

	rate := core.NewField(m.Grid)
	r := rate.Values()
	for idx := range r {
		r[idx] = math.Sqrt(s[idx] * math.Sqrt(a[idx]))
	}
	rate.Normalize()
	floats.Scale(k, r)

	rock := m.Bedrock()
	floats.Sub(rock.Values(), r)
	st := AreaStats{Eroded: floats.Sum(r)}
	if !transport {
		return st
	}

	sediment := m.EnsureSediment()
	deposit := core.NewField(m.Grid)
	d := deposit.Values()
	for idx := range d {
		d[idx] = math.Log1p(a[idx]) / math.Sqrt(1+s[idx]*s[idx])
	}
	deposit.Normalize()
	if total := floats.Sum(d); total > 0 {
		floats.Scale(st.Eroded/total, d)
	} else {
		for idx := range d {
			d[idx] = st.Eroded / float64(len(d))
		}
	}
	floats.Add(sediment.Values(), d)
	st.Deposited = floats.Sum(d)
	return st
}
