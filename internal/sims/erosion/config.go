package erosion

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
	"go.uber.org/multierr"

	"erosim/internal/noise"
	ero "erosim/pkg/erosion"
	"erosim/pkg/hydro"
)

// Pass names one erosion operation of the per-step pipeline.
type Pass string

const (
	PassThermalConstant Pass = "thermal-constant"
	PassThermalMedian   Pass = "thermal-median"
	PassThermalMean     Pass = "thermal-mean"
	PassThermalSlope    Pass = "thermal-slope"
	PassTransport       Pass = "transport"
	PassArea            Pass = "area"
	PassDroplets        Pass = "droplets"
)

// KnownPasses lists every pass in a stable order.
var KnownPasses = []Pass{
	PassThermalConstant, PassThermalMedian, PassThermalMean, PassThermalSlope,
	PassTransport, PassArea, PassDroplets,
}

func (p Pass) valid() bool {
	for _, k := range KnownPasses {
		if p == k {
			return true
		}
	}
	return false
}

// Params holds the tunables of every pass.
type Params struct {
	ThermalK float64 `toml:"thermal_k"`

	TransportK        float64 `toml:"transport_k"`
	TransportPasses   int     `toml:"transport_passes"`
	RestAngle         float64 `toml:"rest_angle"`
	TransportMaxSteps int     `toml:"transport_max_steps"`

	AreaK         float64 `toml:"area_k"`
	AreaPolicy    string  `toml:"area_policy"`
	AreaTransport bool    `toml:"area_transport"`

	Droplets  int     `toml:"droplets"`
	DropletK  float64 `toml:"droplet_k"`
	WaterLoss float64 `toml:"water_loss"`
}

// Config controls the erosion simulation.
type Config struct {
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	Seed     int64   `toml:"seed"`
	CellSize float64 `toml:"cell_size"`

	Passes []Pass       `toml:"passes"`
	Noise  noise.Config `toml:"noise"`
	Params Params       `toml:"params"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:    128,
		Height:   128,
		Seed:     1337,
		CellSize: 1,
		Passes:   []Pass{PassThermalSlope, PassTransport, PassDroplets},
		Noise:    noise.DefaultConfig(),
		Params: Params{
			ThermalK:        0.02,
			TransportK:      0,
			TransportPasses: 1,
			RestAngle:       30,
			AreaK:           0.05,
			AreaPolicy:      hydro.Accumulate.String(),
			AreaTransport:   true,
			Droplets:        2000,
			DropletK:        0.05,
			WaterLoss:       0.02,
		},
	}
}

// Transport returns the stabilization settings of the transport pass.
func (c Config) Transport() ero.TransportConfig {
	tc := ero.DefaultTransportConfig()
	tc.K = c.Params.TransportK
	tc.Iterations = c.Params.TransportPasses
	tc.RestAngle = c.Params.RestAngle
	tc.MaxSteps = c.Params.TransportMaxSteps
	return tc
}

// Droplet returns the settings of the droplet pass.
func (c Config) Droplet() ero.DropletConfig {
	dc := ero.DefaultDropletConfig()
	dc.Droplets = c.Params.Droplets
	dc.K = c.Params.DropletK
	dc.WaterLoss = c.Params.WaterLoss
	return dc
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var err error
	if c.Width <= 0 || c.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("erosion: size must be positive, got %dx%d", c.Width, c.Height))
	}
	if !(c.CellSize > 0) {
		err = multierr.Append(err, errors.New("erosion: cell_size must be > 0"))
	}
	for _, p := range c.Passes {
		if !p.valid() {
			err = multierr.Append(err, fmt.Errorf("erosion: unknown pass %q", p))
		}
	}
	if c.Params.ThermalK < 0 {
		err = multierr.Append(err, errors.New("erosion: thermal_k must be >= 0"))
	}
	if c.Params.AreaK < 0 {
		err = multierr.Append(err, errors.New("erosion: area_k must be >= 0"))
	}
	if _, perr := hydro.ParsePolicy(c.Params.AreaPolicy); perr != nil {
		err = multierr.Append(err, perr)
	}
	err = multierr.Append(err, c.Transport().Validate())
	err = multierr.Append(err, c.Droplet().Validate())
	err = multierr.Append(err, c.Noise.Validate())
	return err
}

// DecodeConfig reads a TOML document over DefaultConfig and validates it.
func DecodeConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return Config{}, fmt.Errorf("erosion: decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("erosion: unknown config keys: %s", strings.Join(keys, ", "))
	}
	if kind, kerr := noise.ParseKind(string(c.Noise.Source)); kerr == nil {
		c.Noise.Source = kind
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Values that do not parse keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.Apply(cfg)
	return c
}

// Apply overrides fields of c from a string map, ignoring values that do not
// parse or fall outside their domain.
func (c *Config) Apply(cfg map[string]string) {
	setInt(cfg, "w", func(v int) bool { return v > 0 }, &c.Width)
	setInt(cfg, "h", func(v int) bool { return v > 0 }, &c.Height)
	if v, ok := cfg["seed"]; ok {
		if parsed, err := cast.ToInt64E(v); err == nil {
			c.Seed = parsed
		}
	}
	setFloat(cfg, "cell_size", positive, &c.CellSize)
	if v, ok := cfg["passes"]; ok {
		var passes []Pass
		for _, name := range strings.Split(v, ",") {
			if p := Pass(strings.ToLower(strings.TrimSpace(name))); p.valid() {
				passes = append(passes, p)
			}
		}
		c.Passes = passes
	}

	if v, ok := cfg["noise_shape"]; ok {
		c.Noise.Shape = noise.Shape(v)
	}
	if v, ok := cfg["noise_source"]; ok {
		if kind, err := noise.ParseKind(v); err == nil {
			c.Noise.Source = kind
		}
	}
	setInt(cfg, "noise_octaves", func(v int) bool { return v > 0 }, &c.Noise.Octaves)
	setFloat(cfg, "noise_frequency", positive, &c.Noise.Frequency)
	setFloat(cfg, "noise_amplitude", nonNegative, &c.Noise.Amplitude)
	setFloat(cfg, "noise_sediment", nonNegative, &c.Noise.Sediment)

	p := &c.Params
	setFloat(cfg, "thermal_k", nonNegative, &p.ThermalK)
	setFloat(cfg, "transport_k", nonNegative, &p.TransportK)
	setInt(cfg, "transport_passes", func(v int) bool { return v >= 0 }, &p.TransportPasses)
	setFloat(cfg, "rest_angle", func(v float64) bool { return v >= 0 && v < 90 }, &p.RestAngle)
	setInt(cfg, "transport_max_steps", func(v int) bool { return v >= 0 }, &p.TransportMaxSteps)
	setFloat(cfg, "area_k", nonNegative, &p.AreaK)
	if v, ok := cfg["area_policy"]; ok {
		if pol, err := hydro.ParsePolicy(v); err == nil {
			p.AreaPolicy = pol.String()
		}
	}
	if v, ok := cfg["area_transport"]; ok {
		if parsed, err := cast.ToBoolE(v); err == nil {
			p.AreaTransport = parsed
		}
	}
	setInt(cfg, "droplets", func(v int) bool { return v >= 0 }, &p.Droplets)
	setFloat(cfg, "droplet_k", nonNegative, &p.DropletK)
	setFloat(cfg, "water_loss", positive, &p.WaterLoss)
}

func positive(v float64) bool    { return v > 0 }
func nonNegative(v float64) bool { return v >= 0 }

func setInt(cfg map[string]string, key string, ok func(int) bool, dst *int) {
	v, present := cfg[key]
	if !present {
		return
	}
	if parsed, err := cast.ToIntE(v); err == nil && ok(parsed) {
		*dst = parsed
	}
}

func setFloat(cfg map[string]string, key string, ok func(float64) bool, dst *float64) {
	v, present := cfg[key]
	if !present {
		return
	}
	if parsed, err := cast.ToFloat64E(v); err == nil && ok(parsed) {
		*dst = parsed
	}
}
