// Package noise builds initial terrain for erosion runs out of composable
// two dimensional value maps.
package noise

// Map is a two dimensional field of values, using 64 bit floats.
type Map interface {
	Eval2(x, y float64) float64
}

// Func adapts a plain function to a Map.
type Func func(x, y float64) float64

// Eval2 gives the value at a coordinate.
func (f Func) Eval2(x, y float64) float64 { return f(x, y) }

// NewScale stretches or shrinks a map along both axes.
func NewScale(source Map, scale float64) Scale {
	return Scale{source: source, scale: scale}
}

// Scale is a map that has been scaled.
type Scale struct {
	source Map
	scale  float64
}

// Eval2 gives the value at a coordinate.
func (m Scale) Eval2(x, y float64) float64 {
	return m.source.Eval2(x*m.scale, y*m.scale)
}

// NewAmplify returns a map where every value is multiplied by a value.
func NewAmplify(source Map, value float64) Amplify {
	return Amplify{source: source, value: value}
}

// Amplify multiplies the magnitude of the value at every coordinate.
type Amplify struct {
	source Map
	value  float64
}

// Eval2 gives the value at a coordinate.
func (m Amplify) Eval2(x, y float64) float64 {
	return m.value * m.source.Eval2(x, y)
}

// NewOffset translates a map so that (x, y) reads the source at (x+dx, y+dy).
func NewOffset(source Map, dx, dy float64) Offset {
	return Offset{source: source, dx: dx, dy: dy}
}

// Offset is a translated map.
type Offset struct {
	source Map
	dx, dy float64
}

// Eval2 gives the value at a coordinate.
func (m Offset) Eval2(x, y float64) float64 {
	return m.source.Eval2(x+m.dx, y+m.dy)
}

// Sum is a map where each value is the sum of the values of other maps.
type Sum []Map

// Eval2 gives the value at a coordinate.
func (s Sum) Eval2(x, y float64) float64 {
	var z float64
	for i := 0; i < len(s); i++ {
		z += s[i].Eval2(x, y)
	}
	return z
}

// NewRidge folds base over ridge: where base rises above ridge it is mirrored
// back down, which carves sharp crests.
func NewRidge(base, ridge Map) Ridge {
	return Ridge{base: base, ridge: ridge}
}

// Ridge is a ridged combination of two maps.
type Ridge struct {
	base, ridge Map
}

// Eval2 gives the value at a coordinate.
func (m Ridge) Eval2(x, y float64) float64 {
	b := m.base.Eval2(x, y)
	r := m.ridge.Eval2(x, y)
	if b < r {
		return b
	}
	return 2*r - b
}
