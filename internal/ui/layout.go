package ui

import (
	"image/color"
	"math"

	"erosim/internal/core"
)

const (
	targetSamples = 360.0
	minSpacing    = 6
	maxSpacing    = 20
)

// sampleSpacing picks a cell spacing that yields roughly targetSamples flow
// arrows over the grid.
func sampleSpacing(size core.Size) int {
	area := float64(size.W * size.H)
	spacing := int(math.Sqrt(area / targetSamples))
	return max(minSpacing, min(maxSpacing, spacing))
}

// sampleCenters returns cell centre coordinates on a lattice with the given
// spacing, centred on the grid.
func sampleCenters(size core.Size, spacing int) [][2]float64 {
	if size.W <= 0 || size.H <= 0 || spacing <= 0 {
		return nil
	}
	countX := (size.W + spacing - 1) / spacing
	countY := (size.H + spacing - 1) / spacing
	startX := max(0, (size.W-1-(countX-1)*spacing)/2)
	startY := max(0, (size.H-1-(countY-1)*spacing)/2)

	out := make([][2]float64, 0, countX*countY)
	for yi := 0; yi < countY; yi++ {
		cellY := min(size.H-1, startY+yi*spacing)
		for xi := 0; xi < countX; xi++ {
			cellX := min(size.W-1, startX+xi*spacing)
			out = append(out, [2]float64{float64(cellX) + 0.5, float64(cellY) + 0.5})
		}
	}
	return out
}

func interpolateColor(t float64) color.RGBA {
	t = clamp01(t)
	r := uint8(math.Round(80 + 70*t))
	g := uint8(math.Round(170 + 70*t))
	b := uint8(math.Round(230 + 20*t))
	a := uint8(math.Round(150 + 90*t))
	return color.RGBA{R: r, G: g, B: b, A: a}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type hudLine struct {
	label  string
	value  string
	header bool
}

const (
	panelPadding   = 12
	lineHeight     = 16
	headerGap      = 8
	headerBaseline = 12
)

// panelLines flattens a snapshot into the rows the HUD paints.
func panelLines(title string, snap core.ParameterSnapshot) []hudLine {
	if title == "" {
		title = "Parameters"
	}
	lines := []hudLine{{label: title, header: true}}
	for _, g := range snap.Groups {
		lines = append(lines, hudLine{label: g.Name, header: true})
		if g.Summary != "" {
			lines = append(lines, hudLine{label: g.Summary})
		}
		for _, p := range g.Params {
			label := p.Label
			if label == "" {
				label = p.Key
			}
			lines = append(lines, hudLine{label: label, value: p.Value})
		}
	}
	return lines
}
