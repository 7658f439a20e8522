package noise

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r2"
	"go.uber.org/multierr"

	"erosim/pkg/core"
)

// Shape selects how the initial bedrock is generated.
type Shape string

const (
	ShapeFlat        Shape = "flat"
	ShapeOctaves     Shape = "octaves"
	ShapeRidged      Shape = "ridged"
	ShapeStair       Shape = "stair"
	ShapeDoubleStair Shape = "double-stair"
)

// Config describes the initial bedrock of a run.
type Config struct {
	Shape     Shape   `toml:"shape"`
	Source    Kind    `toml:"source"`
	Octaves   int     `toml:"octaves"`
	Frequency float64 `toml:"frequency"`
	Amplitude float64 `toml:"amplitude"`
	// Sediment is the initial uniform sediment depth; zero leaves a single layer.
	Sediment float64 `toml:"sediment"`
}

// DefaultConfig returns six octaves of simplex noise.
func DefaultConfig() Config {
	return Config{
		Shape:     ShapeOctaves,
		Source:    KindSimplex,
		Octaves:   6,
		Frequency: 1.0 / 64,
		Amplitude: 32,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var err error
	switch c.Shape {
	case ShapeFlat, ShapeOctaves, ShapeRidged, ShapeStair, ShapeDoubleStair:
	default:
		err = multierr.Append(err, fmt.Errorf("noise: unknown shape %q", c.Shape))
	}
	if c.Shape == ShapeOctaves || c.Shape == ShapeRidged {
		if _, kerr := ParseKind(string(c.Source)); kerr != nil {
			err = multierr.Append(err, kerr)
		}
		if c.Octaves < 1 {
			err = multierr.Append(err, errors.New("noise: octaves must be >= 1"))
		}
		if !(c.Frequency > 0) {
			err = multierr.Append(err, errors.New("noise: frequency must be > 0"))
		}
	}
	if c.Amplitude < 0 {
		err = multierr.Append(err, errors.New("noise: amplitude must be >= 0"))
	}
	if c.Sediment < 0 {
		err = multierr.Append(err, errors.New("noise: sediment must be >= 0"))
	}
	return err
}

// Generate builds a map over the box [a, b] with a bedrock layer shaped by
// cfg and, when cfg.Sediment is positive, a uniform sediment layer.
func Generate(w, h int, a, b r2.Point, cfg Config, seed int64) (*core.Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := core.NewMap(w, h, a, b)
	rock := m.NewLayer()

	switch cfg.Shape {
	case ShapeFlat:
	case ShapeStair:
		Stair(rock, cfg.Amplitude)
	case ShapeDoubleStair:
		DoubleStair(rock, cfg.Amplitude)
	case ShapeOctaves:
		sources := make([]Map, cfg.Octaves)
		for k := range sources {
			s, err := NewSource(cfg.Source, seed+int64(k))
			if err != nil {
				return nil, err
			}
			sources[k] = s
		}
		src := func(k int) Map { return sources[k] }
		Fill(rock, Octaves(src, cfg.Octaves, cfg.Frequency, cfg.Amplitude))
	case ShapeRidged:
		base, err := NewSource(cfg.Source, seed)
		if err != nil {
			return nil, err
		}
		ridge, err := NewSource(cfg.Source, seed+1)
		if err != nil {
			return nil, err
		}
		Fill(rock, NewTerrain(base, ridge, cfg.Octaves, cfg.Frequency, cfg.Amplitude))
	}

	if cfg.Sediment > 0 {
		m.NewLayer().Fill(cfg.Sediment)
	}
	return m, nil
}

// Fill samples src at every cell index of f. Sampling by index keeps a
// terrain identical when the map is later reshaped.
func Fill(f *core.Field, src Map) {
	for j := 0; j < f.H(); j++ {
		for i := 0; i < f.W(); i++ {
			f.Set(i, j, src.Eval2(float64(i), float64(j)))
		}
	}
}

// Stair raises the left half of f by amplitude/2 and lowers the right half by
// the same amount.
func Stair(f *core.Field, amplitude float64) {
	for j := 0; j < f.H(); j++ {
		for i := 0; i < f.W(); i++ {
			if i < f.W()/2 {
				f.Set(i, j, amplitude/2)
			} else {
				f.Set(i, j, -amplitude/2)
			}
		}
	}
}

// DoubleStair splits f into four quadrant terraces descending from the top
// left through the bottom left and bottom right to the top right.
func DoubleStair(f *core.Field, amplitude float64) {
	for j := 0; j < f.H(); j++ {
		for i := 0; i < f.W(); i++ {
			left, top := i < f.W()/2, j < f.H()/2
			var v float64
			switch {
			case left && top:
				v = amplitude / 2
			case left:
				v = amplitude / 3
			case top:
				v = -amplitude
			default:
				v = -amplitude / 3
			}
			f.Set(i, j, v)
		}
	}
}
