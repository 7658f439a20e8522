//go:build ebiten

package ui

import (
	"image/color"

	"erosim/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the parameter panel to the right of the terrain view.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []hudLine
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{sim: sim, width: width}
}

// Width reports the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the cached parameter listing from the simulation.
func (h *HUD) Update() {
	if h == nil {
		return
	}
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		h.lines = nil
		return
	}
	h.lines = panelLines(h.sim.Name(), provider.Parameters())
}

// Draw paints the HUD panel anchored to the right edge of the terrain view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawLines()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawLines() {
	face := basicfont.Face7x13
	headerColor := color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor := color.RGBA{R: 220, G: 220, B: 230, A: 255}
	valueColor := color.RGBA{R: 160, G: 200, B: 170, A: 255}

	y := panelPadding + headerBaseline
	for _, line := range h.lines {
		if line.header {
			y += headerGap
			text.Draw(h.panel, line.label, face, panelPadding, y, headerColor)
			y += lineHeight
			continue
		}
		text.Draw(h.panel, line.label, face, panelPadding, y, labelColor)
		if line.value != "" {
			bounds := text.BoundString(face, line.value)
			text.Draw(h.panel, line.value, face, h.width-panelPadding-bounds.Dx(), y, valueColor)
		}
		y += lineHeight
	}
}
