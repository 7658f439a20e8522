// Package hydro derives drainage fields from a height field.
package hydro

import (
	"fmt"
	"math"
	"strings"

	"erosim/pkg/core"
)

// Policy selects how a cell hands its accumulated area downhill.
type Policy int

const (
	// Repartition moves the whole area of a cell to its downhill neighbours in
	// slope proportion. The grid total stays equal to the cell count.
	Repartition Policy = iota
	// OneWay adds the area of a cell to its steepest downhill neighbour and
	// leaves the source untouched, so the grid total grows.
	OneWay
	// Accumulate adds slope-proportional shares to the downhill neighbours
	// without draining the source, giving the upstream contributing area.
	Accumulate
)

var policyNames = map[Policy]string{
	Repartition: "repartition",
	OneWay:      "one-way",
	Accumulate:  "accumulate",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps a policy name back to its value.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range policyNames {
		if s == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("hydro: unknown flow policy %q", s)
}

// FlowAccumulation returns the drained area of every cell. Every cell starts
// with one unit and cells are visited once from highest to lowest. Equal
// heights keep index order, so flat plateaus can be drained out of order.
func FlowAccumulation(height *core.Field, p Policy) *core.Field {
	area := core.NewField(height.Grid)
	area.Fill(1)

	for _, s := range height.ExportSorted() {
		nb := height.Downhill(s.I, s.J)
		if nb.Len() == 0 {
			continue
		}
		v := area.Value(s.I, s.J)

		switch p {
		case OneWay:
			n := nb.At(nb.Steepest())
			area.Add(n.I, n.J, v)
		case Repartition, Accumulate:
			props := core.Proportions(&nb)
			var moved float64
			for k, n := range nb.All() {
				share := v * props[k]
				area.Add(n.I, n.J, share)
				moved += share
			}
			if p == Repartition {
				area.Add(s.I, s.J, -moved)
			}
		}
	}
	return area
}

// SlopeDamping weighs the slope term of the water index.
const SlopeDamping = 4.0

// WaterIndex combines drainage area with a slope damping term:
// sqrt(area) / (1 + 4*slope).
func WaterIndex(height, area *core.Field) *core.Field {
	slope := height.SlopeMap()
	out := core.NewField(height.Grid)
	a, s, v := area.Values(), slope.Values(), out.Values()
	for idx := range v {
		v[idx] = math.Sqrt(a[idx]) / (1 + SlopeDamping*s[idx])
	}
	return out
}

// WaterIndexes computes flow accumulation under p and returns its water index.
func WaterIndexes(height *core.Field, p Policy) *core.Field {
	return WaterIndex(height, FlowAccumulation(height, p))
}
