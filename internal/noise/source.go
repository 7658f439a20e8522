package noise

import (
	"fmt"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Kind names a noise source.
type Kind string

const (
	KindSimplex Kind = "simplex"
	KindPerlin  Kind = "perlin"
)

// ParseKind validates a source name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSimplex, KindPerlin:
		return k, nil
	}
	return "", fmt.Errorf("noise: unknown source %q", s)
}

// NewSource returns the seeded base noise of the given kind. Kind names are
// matched like ParseKind matches them.
func NewSource(kind Kind, seed int64) (Map, error) {
	k, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	if k == KindPerlin {
		return Perlin(seed), nil
	}
	return Simplex(seed), nil
}

// Simplex is OpenSimplex noise in roughly [-1, 1].
func Simplex(seed int64) Map {
	return opensimplex.New(seed)
}

// Perlin is classic Perlin noise with three octaves of its own.
func Perlin(seed int64) Map {
	p := perlin.NewPerlin(2, 2, 3, seed)
	return Func(p.Noise2D)
}

// Octaves sums count layers from newSource, each at twice the frequency and half the
// amplitude of the previous one. Layers are offset so they do not correlate at
// the origin.
func Octaves(newSource func(octave int) Map, count int, frequency, amplitude float64) Sum {
	layers := make(Sum, 0, count)
	freq, ampl := frequency, amplitude
	for k := 0; k < count; k++ {
		shifted := NewOffset(newSource(k), float64(k)*100, float64(k)*100)
		layers = append(layers, NewAmplify(NewScale(shifted, freq), ampl))
		freq *= 2
		ampl /= 2
	}
	return layers
}

// Terrain is a ridged octave series where each finer octave is weighted by
// the height already accumulated, so detail concentrates on high ground.
type Terrain struct {
	base, ridge Map
	octaves     int
	frequency   float64
	amplitude   float64
}

// NewTerrain combines a base and a ridge source into a Terrain.
func NewTerrain(base, ridge Map, octaves int, frequency, amplitude float64) Terrain {
	if octaves < 1 {
		octaves = 1
	}
	return Terrain{base: base, ridge: ridge, octaves: octaves, frequency: frequency, amplitude: amplitude}
}

// Eval2 gives the value at a coordinate.
func (t Terrain) Eval2(x, y float64) float64 {
	if t.amplitude == 0 {
		return 0
	}
	var value float64
	freq, ampl := t.frequency, t.amplitude
	for k := 0; k < t.octaves; k++ {
		off := float64(k) * 100
		px, py := (x+off)*freq, (y+off)*freq
		v := NewRidge(t.base, t.ridge).Eval2(px, py)
		if k == 0 {
			value += ampl * v
		} else {
			weight := 1 - 1/(0.5+float64(k*k))
			relief := (value + t.amplitude) / (2 * t.amplitude)
			value += (1 - (1-relief)*weight) * ampl * v
		}
		freq *= 2
		ampl /= 2
	}
	return value + 2*t.amplitude
}
