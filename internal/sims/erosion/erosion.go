// Package erosion runs a configured pipeline of erosion passes over a layered
// terrain map, one pipeline per simulation step.
package erosion

import (
	"github.com/golang/geo/r2"
	"github.com/sirupsen/logrus"

	"erosim/internal/core"
	"erosim/internal/noise"
	terrain "erosim/pkg/core"
	ero "erosim/pkg/erosion"
	"erosim/pkg/hydro"
)

// PassStats records what one pass did during the last step.
type PassStats struct {
	Pass      Pass
	Eroded    float64
	Deposited float64
	// Moved is sediment relocated by transport.
	Moved     float64
	Steps     int
	Converged bool
}

// World owns a terrain map, the random stream and the pass pipeline.
type World struct {
	cfg    Config
	policy hydro.Policy
	log    logrus.FieldLogger

	m         *terrain.Map
	rng       *terrain.RNG
	seed      int64
	iteration int
	last      []PassStats

	view    View
	height  *terrain.Field
	display []uint8
}

// New returns an erosion simulation with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	world, err := NewWithConfig(cfg)
	if err != nil {
		panic(err)
	}
	return world
}

// NewWithConfig validates cfg and returns a world reset to cfg.Seed.
func NewWithConfig(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, _ := hydro.ParsePolicy(cfg.Params.AreaPolicy)
	w := &World{
		cfg:     cfg,
		policy:  policy,
		log:     logrus.StandardLogger(),
		display: make([]uint8, cfg.Width*cfg.Height),
	}
	w.Reset(0)
	return w, nil
}

// SetLogger replaces the logger used by the passes.
func (w *World) SetLogger(l logrus.FieldLogger) {
	if l != nil {
		w.log = l
	}
}

// Name implements core.Sim.
func (w *World) Name() string { return "erosion" }

// Size implements core.Sim.
func (w *World) Size() core.Size { return core.Size{W: w.cfg.Width, H: w.cfg.Height} }

// Config returns the configuration the world was built with.
func (w *World) Config() Config { return w.cfg }

// Map exposes the terrain. Callers must not step the world concurrently.
func (w *World) Map() *terrain.Map { return w.m }

// Iteration returns the number of completed steps since the last reset.
func (w *World) Iteration() int { return w.iteration }

// Seed returns the seed of the last reset.
func (w *World) Seed() int64 { return w.seed }

// LastStats returns per-pass statistics of the most recent step.
func (w *World) LastStats() []PassStats { return w.last }

// Reset regenerates the terrain. A zero seed selects the configured seed.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	box := r2.Point{X: float64(w.cfg.Width) * w.cfg.CellSize, Y: float64(w.cfg.Height) * w.cfg.CellSize}
	m, err := noise.Generate(w.cfg.Width, w.cfg.Height, r2.Point{}, box, w.cfg.Noise, effective)
	if err != nil {
		// The noise config was validated in NewWithConfig.
		panic(err)
	}
	w.m = m
	w.rng = terrain.NewRNG(effective)
	w.seed = effective
	w.iteration = 0
	w.last = nil
	w.redraw()
}

// Step runs every configured pass once, in order.
func (w *World) Step() {
	stats := make([]PassStats, 0, len(w.cfg.Passes))
	for _, p := range w.cfg.Passes {
		st, err := w.run(p)
		if err != nil {
			w.log.WithError(err).WithField("pass", p).Error("erosion pass failed")
			continue
		}
		stats = append(stats, st)
	}
	w.last = stats
	w.iteration++
	w.log.WithFields(logrus.Fields{
		"iteration": w.iteration,
		"seed":      w.seed,
		"passes":    len(stats),
	}).Debug("erosion step")
	w.redraw()
}

func (w *World) run(p Pass) (PassStats, error) {
	st := PassStats{Pass: p, Converged: true}
	k := w.cfg.Params.ThermalK

	measure := func(erode func()) {
		before := w.m.Bedrock().Sum()
		erode()
		st.Eroded = before - w.m.Bedrock().Sum()
		st.Deposited = st.Eroded
	}

	switch p {
	case PassThermalConstant:
		measure(func() { ero.ErodeConstant(w.m, k) })
	case PassThermalMedian:
		measure(func() { ero.ErodeMedianSlope(w.m, k) })
	case PassThermalMean:
		measure(func() { ero.ErodeMeanSlope(w.m, k) })
	case PassThermalSlope:
		measure(func() { ero.ErodeSlopeControlled(w.m, k) })
	case PassTransport:
		tc := w.cfg.Transport()
		tc.Logger = w.log
		var ts ero.TransportStats
		var err error
		measure(func() { ts, err = ero.Transport(w.m, tc) })
		if err != nil {
			return st, err
		}
		st.Steps, st.Converged, st.Moved = ts.Steps, ts.Converged, ts.Moved
	case PassArea:
		as := ero.ErodeFromArea(w.m, w.cfg.Params.AreaK, w.policy, w.cfg.Params.AreaTransport)
		st.Eroded, st.Deposited = as.Eroded, as.Deposited
	case PassDroplets:
		dc := w.cfg.Droplet()
		dc.Logger = w.log
		ds, err := ero.ErodeDroplets(w.m, w.rng, dc)
		if err != nil {
			return st, err
		}
		st.Eroded, st.Deposited, st.Steps = ds.Eroded, ds.Deposited, ds.Steps
	}
	return st, nil
}

func init() {
	core.Register("erosion", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		w, err := NewWithConfig(c)
		if err != nil {
			logrus.WithError(err).Warn("invalid erosion config, using defaults")
			w, _ = NewWithConfig(DefaultConfig())
		}
		return w
	})
}
