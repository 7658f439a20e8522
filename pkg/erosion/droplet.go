package erosion

import (
	"errors"
	"math"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"erosim/pkg/core"
)

// DropletConfig tunes particle hydraulic erosion.
type DropletConfig struct {
	Droplets int
	// K scales erosion and deposition; pits deposit 0.1*K per step.
	K float64
	// WaterLoss is subtracted from every droplet after each move.
	WaterLoss float64
	// InitialWater is the water a droplet spawns with. Zero means 1.
	InitialWater float64

	Logger logrus.FieldLogger
}

// DefaultDropletConfig returns a light rain over the whole map.
func DefaultDropletConfig() DropletConfig {
	return DropletConfig{
		Droplets:     1000,
		K:            0.05,
		WaterLoss:    0.02,
		InitialWater: 1,
	}
}

// Validate reports every invalid field at once.
func (c DropletConfig) Validate() error {
	var err error
	if c.Droplets < 0 {
		err = multierr.Append(err, errors.New("erosion: droplet count must be >= 0"))
	}
	if c.K < 0 {
		err = multierr.Append(err, errors.New("erosion: droplet k must be >= 0"))
	}
	if !(c.WaterLoss > 0) {
		err = multierr.Append(err, errors.New("erosion: droplet water loss must be > 0"))
	}
	if c.InitialWater < 0 {
		err = multierr.Append(err, errors.New("erosion: droplet initial water must be >= 0"))
	}
	return err
}

// DropletStats summarizes a droplet pass.
type DropletStats struct {
	Droplets  int
	Steps     int
	PitHalts  int
	Eroded    float64
	Deposited float64
}

// ErodeDroplets traces cfg.Droplets droplets downhill from uniformly random
// cells. Each droplet picks its next cell among the lower neighbours with
// probability proportional to slope, eroding bedrock as it goes and dropping
// its load in pits and where it dries up. Every draw comes from rng.
func ErodeDroplets(m *core.Map, rng *core.RNG, cfg DropletConfig) (DropletStats, error) {
	if err := cfg.Validate(); err != nil {
		return DropletStats{}, err
	}
	if cfg.InitialWater == 0 {
		cfg.InitialWater = 1
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	rock := m.Bedrock()
	height := m.GenerateField()
	st := DropletStats{Droplets: cfg.Droplets}
	for n := 0; n < cfg.Droplets; n++ {
		i, j := m.Coords(rng.IntN(m.Len()))
		d := droplet{i: i, j: j, water: cfg.InitialWater}
		d.run(rock, height, rng, cfg, &st)
	}
	log.WithFields(logrus.Fields{
		"droplets":  st.Droplets,
		"steps":     st.Steps,
		"pit_halts": st.PitHalts,
		"eroded":    st.Eroded,
		"deposited": st.Deposited,
	}).Debug("droplet pass")
	return st, nil
}

type droplet struct {
	i, j     int
	sediment float64
	water    float64
}

// deposit lays amount of carried sediment into bedrock and the working height.
func (d *droplet) deposit(rock, height *core.Field, amount float64, st *DropletStats) {
	rock.Add(d.i, d.j, amount)
	height.Add(d.i, d.j, amount)
	d.sediment -= amount
	st.Deposited += amount
}

func (d *droplet) run(rock, height *core.Field, rng *core.RNG, cfg DropletConfig, st *DropletStats) {
	pitRate := 0.1 * cfg.K
	for d.water > 0 {
		nb := height.Downhill(d.i, d.j)
		if nb.Len() == 0 {
			amount := math.Min(pitRate, d.sediment)
			if amount <= 0 {
				d.water = 0
				st.PitHalts++
				break
			}
			d.deposit(rock, height, amount, st)
			continue
		}

		next := nb.At(pick(&nb, rng))
		slope := math.Abs(next.Slope)
		drop := height.Value(d.i, d.j) - next.Value
		erode := math.Min(slope, math.Min(drop, 1))
		settle := 1 - math.Min(math.Sqrt(1+slope*slope), 1)
		delta := cfg.K * (erode - settle)
		if d.sediment+delta > 1 {
			delta = 1 - d.sediment
		}
		if d.sediment+delta < 0 {
			delta = -d.sediment
		}

		rock.Add(d.i, d.j, -delta)
		height.Add(d.i, d.j, -delta)
		d.sediment += delta
		if delta > 0 {
			st.Eroded += delta
		} else {
			st.Deposited -= delta
		}

		d.i, d.j = next.I, next.J
		d.water -= cfg.WaterLoss
		st.Steps++
	}
	if d.sediment > 0 {
		d.deposit(rock, height, d.sediment, st)
	}
}

// pick samples a neighbour by cumulative slope weight.
func pick(nb *core.Neighborhood, rng *core.RNG) int {
	props := core.Proportions(nb)
	r := rng.Float64()
	var acc float64
	for k := 0; k < nb.Len(); k++ {
		acc += props[k]
		if r < acc {
			return k
		}
	}
	return nb.Len() - 1
}
