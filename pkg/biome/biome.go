// Package biome derives a read-only snapshot of terrain descriptors from a
// layered map. The snapshot is not updated when the map changes.
package biome

import (
	"math"

	"erosim/pkg/core"
	"erosim/pkg/hydro"
)

// Info bundles normalized per-cell descriptors of a map at one point in time.
type Info struct {
	Slope      *core.Field
	Exposure   *core.Field
	WaterIndex *core.Field
	Height     *core.Field
	Sediment   *core.Field
}

// Options controls how the snapshot is computed.
type Options struct {
	// Steps is the number of cells marched along each horizon ray.
	Steps int
	// Samples is the number of horizon directions per cell.
	Samples int
	// Policy drives the flow accumulation behind the water index.
	Policy hydro.Policy
}

// DefaultOptions matches the light exposure resolution used by the viewer.
func DefaultOptions() Options {
	return Options{Steps: 10, Samples: 16, Policy: hydro.Accumulate}
}

// New computes the snapshot with DefaultOptions.
func New(m *core.Map) Info {
	return NewWithOptions(m, DefaultOptions())
}

// NewWithOptions computes every descriptor from the aggregate height. The
// sediment descriptor is all zeros when the map holds only bedrock.
func NewWithOptions(m *core.Map, opts Options) Info {
	height := m.GenerateField()
	info := Info{
		Slope:      height.SlopeMap().Normalize(),
		Exposure:   LightExposure(height, opts.Steps, opts.Samples).Normalize(),
		WaterIndex: hydro.WaterIndexes(height, opts.Policy).Normalize(),
		Height:     height.Clone().Normalize(),
	}
	if m.LayerCount() > core.Sediment {
		info.Sediment = m.Layer(core.Sediment).Clone().Normalize()
	} else {
		info.Sediment = core.NewField(m.Grid)
	}
	return info
}

// LightExposure returns the open sky fraction of every cell in [0, 1]. For
// each of samples evenly spaced directions a ray is marched steps cells out
// and the highest horizon angle found blocks that part of the sky.
func LightExposure(height *core.Field, steps, samples int) *core.Field {
	out := core.NewField(height.Grid)
	if samples <= 0 {
		out.Fill(1)
		return out
	}
	cs := height.CellSize()
	total := float64(samples) * math.Pi / 2

	for j := 0; j < height.H(); j++ {
		for i := 0; i < height.W(); i++ {
			base := height.Value(i, j)
			var open float64
			for d := 0; d < samples; d++ {
				angle := 2 * math.Pi * float64(d) / float64(samples)
				dx, dy := math.Cos(angle), math.Sin(angle)
				unit := math.Hypot(dx*cs.X, dy*cs.Y)

				var horizon float64
				for s := 1; s <= steps; s++ {
					si := i + int(math.Round(float64(s)*dx))
					sj := j + int(math.Round(float64(s)*dy))
					rise := height.ValueSafe(si, sj) - base
					if rise <= 0 {
						continue
					}
					if a := math.Atan(rise / (float64(s) * unit)); a > horizon {
						horizon = a
					}
				}
				open += math.Pi/2 - horizon
			}
			out.Set(i, j, open/total)
		}
	}
	return out
}
