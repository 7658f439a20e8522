//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"erosim/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type viewSelector interface {
	SelectView(n int)
}

type flowProvider interface {
	FlowAt(x, y float64) (float64, float64)
}

type statusProvider interface {
	Status() string
}

var viewKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4, ebiten.KeyDigit5,
}

// Overlay draws flow arrows and a status line on top of the terrain and maps
// the digit keys to terrain views.
type Overlay struct {
	sim        core.Sim
	scale      int
	showFlow   bool
	showStatus bool

	pixel          *ebiten.Image
	flowSamples    []flowSample
	flowCacheW     int
	flowCacheH     int
	flowCacheScale int
	flowPixelSpan  float64
}

type flowSample struct {
	cx float64
	cy float64
	sx float64
	sy float64
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showStatus: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update switches views and toggles the flow and status layers.
func (o *Overlay) Update() {
	if selector, ok := o.sim.(viewSelector); ok {
		for n, key := range viewKeys {
			if inpututil.IsKeyJustPressed(key) {
				selector.SelectView(n)
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		o.showFlow = !o.showFlow
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		o.showStatus = !o.showStatus
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}

	if o.showFlow {
		if provider, ok := o.sim.(flowProvider); ok {
			o.drawFlowField(screen, provider, size, scale)
		}
	}
	if o.showStatus {
		if provider, ok := o.sim.(statusProvider); ok {
			ebitenutil.DebugPrint(screen, provider.Status())
		}
	}
}

func (o *Overlay) drawFlowField(screen *ebiten.Image, provider flowProvider, size core.Size, scale int) {
	if o.pixel == nil {
		return
	}
	if !o.ensureFlowSamples(size, scale) {
		return
	}

	const (
		sinkThreshold = 0.02
		headAngle     = math.Pi / 6
		sinkDotScale  = 0.18
		minThickness  = 0.65
		maxThickness  = 1.05
	)

	baseSpan := o.flowPixelSpan
	if baseSpan <= 0 {
		baseSpan = float64(scale) * 4
	}
	minLength := baseSpan * 0.35
	maxLength := baseSpan * 0.7

	sinkDotSize := math.Max(baseSpan*sinkDotScale, float64(scale)*0.75)

	for _, sample := range o.flowSamples {
		vx, vy := provider.FlowAt(sample.cx, sample.cy)
		strength := math.Hypot(vx, vy)
		if strength < sinkThreshold {
			o.drawPoint(screen, sample.sx, sample.sy, sinkDotSize, color.RGBA{R: 200, G: 90, B: 60, A: 140})
			continue
		}

		nx := vx / strength
		ny := vy / strength
		normalized := clamp01(strength)
		length := minLength + (maxLength-minLength)*math.Sqrt(normalized)
		headLength := math.Min(length*0.3, float64(scale)*4.5)
		tailLength := length * 0.4
		tipX := sample.sx + nx*(length-tailLength)
		tipY := sample.sy + ny*(length-tailLength)
		tailX := sample.sx - nx*tailLength
		tailY := sample.sy - ny*tailLength
		bodyEndX := tipX - nx*headLength
		bodyEndY := tipY - ny*headLength

		thickness := math.Max(1, float64(scale)*(minThickness+(maxThickness-minThickness)*normalized))

		col := interpolateColor(normalized)
		o.drawLine(screen, tailX, tailY, bodyEndX, bodyEndY, thickness, col)

		angle := math.Atan2(ny, nx)
		leftX := tipX - math.Cos(angle+headAngle)*headLength
		leftY := tipY - math.Sin(angle+headAngle)*headLength
		rightX := tipX - math.Cos(angle-headAngle)*headLength
		rightY := tipY - math.Sin(angle-headAngle)*headLength
		o.drawLine(screen, tipX, tipY, leftX, leftY, thickness*0.85, col)
		o.drawLine(screen, tipX, tipY, rightX, rightY, thickness*0.85, col)
	}
}

func (o *Overlay) ensureFlowSamples(size core.Size, scale int) bool {
	if o.flowCacheW == size.W && o.flowCacheH == size.H && o.flowCacheScale == scale && len(o.flowSamples) > 0 {
		return true
	}
	spacing := sampleSpacing(size)
	o.flowSamples = o.flowSamples[:0]
	for _, c := range sampleCenters(size, spacing) {
		o.flowSamples = append(o.flowSamples, flowSample{
			cx: c[0], cy: c[1],
			sx: c[0] * float64(scale), sy: c[1] * float64(scale),
		})
	}
	o.flowCacheW = size.W
	o.flowCacheH = size.H
	o.flowCacheScale = scale
	o.flowPixelSpan = float64(spacing) * float64(scale)
	return len(o.flowSamples) > 0
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
