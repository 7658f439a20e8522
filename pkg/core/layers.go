package core

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Layer indices used by the erosion passes.
const (
	Bedrock  = 0
	Sediment = 1
)

// Map is an ordered stack of fields sharing one grid. The terrain height of a
// cell is always the sum of its layers.
type Map struct {
	Grid
	layers []*Field
}

// NewMap returns an empty map of w*h cells over the box [a, b].
func NewMap(w, h int, a, b r2.Point) *Map {
	return &Map{Grid: NewGrid(w, h, a, b)}
}

// NewMapFromGrid returns an empty map over g.
func NewMapFromGrid(g Grid) *Map {
	return &Map{Grid: g}
}

// NewLayer appends a zero layer and returns it.
func (m *Map) NewLayer() *Field {
	f := NewField(m.Grid)
	m.layers = append(m.layers, f)
	return f
}

// LayerCount returns the number of layers.
func (m *Map) LayerCount() int { return len(m.layers) }

// Layer returns layer i.
func (m *Map) Layer(i int) *Field {
	if i < 0 || i >= len(m.layers) {
		panic(fmt.Sprintf("core: layer %d out of range with %d layers", i, len(m.layers)))
	}
	return m.layers[i]
}

// Layers returns the layers in order. The slice must not be modified.
func (m *Map) Layers() []*Field { return m.layers }

// AddLayer appends a copy of f, which must match the map's dimensions.
func (m *Map) AddLayer(f *Field) error {
	if !m.SameShape(f.Grid) {
		return fmt.Errorf("core: layer is %dx%d, map is %dx%d", f.W(), f.H(), m.W(), m.H())
	}
	m.NewLayer().CopyValues(f)
	return nil
}

// SetLayer copies the values of f into layer i, appending zero layers first
// when the map is shorter than that.
func (m *Map) SetLayer(i int, f *Field) error {
	if i < 0 {
		return fmt.Errorf("core: negative layer index %d", i)
	}
	if !m.SameShape(f.Grid) {
		return fmt.Errorf("core: layer is %dx%d, map is %dx%d", f.W(), f.H(), m.W(), m.H())
	}
	for len(m.layers) <= i {
		m.NewLayer()
	}
	m.layers[i].CopyValues(f)
	return nil
}

// Bedrock returns layer 0. A map without layers is a programming error.
func (m *Map) Bedrock() *Field {
	if len(m.layers) == 0 {
		panic("core: map has no layers")
	}
	return m.layers[Bedrock]
}

// EnsureSediment returns layer 1, creating it when the map holds only bedrock.
func (m *Map) EnsureSediment() *Field {
	switch len(m.layers) {
	case 0:
		panic("core: map has no layers")
	case 1:
		return m.NewLayer()
	}
	return m.layers[Sediment]
}

// Value returns the aggregate height at (i, j).
func (m *Map) Value(i, j int) float64 {
	m.mustInBounds(i, j)
	idx := m.Index(i, j)
	var v float64
	for _, l := range m.layers {
		v += l.data[idx]
	}
	return v
}

// GenerateField returns a new field holding the aggregate height.
func (m *Map) GenerateField() *Field {
	out := NewField(m.Grid)
	for _, l := range m.layers {
		for idx, v := range l.data {
			out.data[idx] += v
		}
	}
	return out
}

// Reshape relabels the box of the map and every layer without touching values.
func (m *Map) Reshape(a, b r2.Point) {
	m.Grid.Reshape(a, b)
	for _, l := range m.layers {
		l.Grid = m.Grid
	}
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	out := &Map{Grid: m.Grid, layers: make([]*Field, len(m.layers))}
	for i, l := range m.layers {
		out.layers[i] = l.Clone()
	}
	return out
}

// Normalized returns a copy shifted so the lowest bedrock cell sits at zero and
// scaled so the highest aggregate cell sits at one. When the aggregate range is
// empty the shifted copy is returned unscaled.
func (m *Map) Normalized() *Map {
	out := m.Clone()
	if len(out.layers) == 0 {
		return out
	}
	lo := out.layers[Bedrock].Min()
	hi := out.GenerateField().Max()
	for idx := range out.layers[Bedrock].data {
		out.layers[Bedrock].data[idx] -= lo
	}
	span := hi - lo
	if !(span > 0) {
		return out
	}
	for _, l := range out.layers {
		for idx := range l.data {
			l.data[idx] /= span
		}
	}
	return out
}
