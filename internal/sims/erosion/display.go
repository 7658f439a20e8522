package erosion

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"erosim/pkg/biome"
	terrain "erosim/pkg/core"
	"erosim/pkg/hydro"
)

// View selects which descriptor Cells renders.
type View int

const (
	ViewHeight View = iota
	ViewBedrock
	ViewSediment
	ViewWater
	ViewExposure
	viewCount
)

var viewNames = [...]string{"height", "bedrock", "sediment", "water", "exposure"}

func (v View) String() string {
	if v >= 0 && v < viewCount {
		return viewNames[v]
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// Views lists every view in key order.
func Views() []View {
	out := make([]View, viewCount)
	for i := range out {
		out[i] = View(i)
	}
	return out
}

// SetView switches the rendered descriptor. Unknown views are ignored.
func (w *World) SetView(v View) {
	if v < 0 || v >= viewCount || v == w.view {
		return
	}
	w.view = v
	w.redraw()
}

// SelectView switches to the n-th view of Views, for key bindings.
func (w *World) SelectView(n int) { w.SetView(View(n)) }

// View returns the rendered descriptor.
func (w *World) View() View { return w.view }

// Cells returns one palette index per cell for the current view.
func (w *World) Cells() []uint8 { return w.display }

// Palette exposes the 256 entry ramp of the current view.
func (w *World) Palette() []color.RGBA {
	switch w.view {
	case ViewWater:
		return waterPalette
	case ViewSediment:
		return sedimentPalette
	case ViewExposure:
		return greyPalette
	}
	return elevationPalette
}

// Field returns the normalized field behind the current view.
func (w *World) Field() *terrain.Field {
	switch w.view {
	case ViewBedrock:
		return w.m.Bedrock().Clone().Normalize()
	case ViewSediment:
		if w.m.LayerCount() > terrain.Sediment {
			return w.m.Layer(terrain.Sediment).Clone().Normalize()
		}
		return terrain.NewField(w.m.Grid)
	case ViewWater:
		return hydro.WaterIndexes(w.height, w.policy).Normalize()
	case ViewExposure:
		opts := biome.DefaultOptions()
		return biome.LightExposure(w.height, opts.Steps, opts.Samples).Normalize()
	}
	return w.height.Clone().Normalize()
}

// FlowAt returns the direction water leaves the cell under (x, y), in cell
// units, scaled by the steepness of the drop and capped at one. Sinks return
// a zero vector.
func (w *World) FlowAt(x, y float64) (float64, float64) {
	if w.height == nil {
		return 0, 0
	}
	i, j := w.height.Clamp(int(math.Floor(x)), int(math.Floor(y)))
	nb := w.height.Downhill(i, j)
	if nb.Len() == 0 {
		return 0, 0
	}
	n := nb.At(nb.Steepest())
	dx, dy := float64(n.I-i), float64(n.J-j)
	mag := math.Min(1, -n.Slope) / math.Hypot(dx, dy)
	return dx * mag, dy * mag
}

// Status summarizes the last step on one line.
func (w *World) Status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "iter %d  seed %d  view %s", w.iteration, w.seed, w.view)
	for _, st := range w.last {
		fmt.Fprintf(&b, "  %s:%.3g", st.Pass, st.Eroded)
	}
	return b.String()
}

func (w *World) redraw() {
	w.height = w.m.GenerateField()
	vals := w.Field().Values()
	if len(w.display) != len(vals) {
		w.display = make([]uint8, len(vals))
	}
	for i, v := range vals {
		w.display[i] = uint8(math.Round(255 * math.Max(0, math.Min(1, v))))
	}
}

type colorStop struct {
	t   float64
	col color.RGBA
}

var (
	elevationPalette = buildRamp([]colorStop{
		{0.0, color.RGBA{R: 40, G: 60, B: 120, A: 255}},
		{0.25, color.RGBA{R: 70, G: 105, B: 160, A: 255}},
		{0.5, color.RGBA{R: 90, G: 150, B: 100, A: 255}},
		{0.75, color.RGBA{R: 190, G: 160, B: 80, A: 255}},
		{1.0, color.RGBA{R: 240, G: 235, B: 215, A: 255}},
	})
	sedimentPalette = buildRamp([]colorStop{
		{0.0, color.RGBA{R: 60, G: 56, B: 52, A: 255}},
		{1.0, color.RGBA{R: 236, G: 200, B: 130, A: 255}},
	})
	waterPalette = buildRamp([]colorStop{
		{0.0, color.RGBA{R: 18, G: 20, B: 24, A: 255}},
		{0.4, color.RGBA{R: 40, G: 90, B: 160, A: 255}},
		{1.0, color.RGBA{R: 170, G: 230, B: 255, A: 255}},
	})
	greyPalette = buildRamp([]colorStop{
		{0.0, color.RGBA{A: 255}},
		{1.0, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	})
)

func buildRamp(stops []colorStop) []color.RGBA {
	palette := make([]color.RGBA, 256)
	for i := range palette {
		palette[i] = rampColor(stops, float64(i)/255)
	}
	return palette
}

func rampColor(stops []colorStop, t float64) color.RGBA {
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.t {
			prev := stops[i-1]
			var local float64
			if span := curr.t - prev.t; span > 0 {
				local = (t - prev.t) / span
			}
			return lerpRGBA(prev.col, curr.col, local)
		}
	}
	return stops[len(stops)-1].col
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
