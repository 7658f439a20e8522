package erosion

import (
	"errors"
	"math"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"erosim/pkg/core"
)

// TransportConfig tunes sediment stabilization.
type TransportConfig struct {
	// K is the constant thermal erosion applied at the start of every pass.
	K float64
	// Iterations is the number of outer passes.
	Iterations int
	// RestAngle is the angle of repose in degrees.
	RestAngle float64
	// Share is the fraction of a cell's sediment moved per visit. Zero means 0.1.
	Share float64
	// Epsilon is the sediment below which a cell counts as settled. Zero means 0.01.
	Epsilon float64
	// MaxSteps bounds the worklist visits of one pass. Zero means 64 per cell.
	MaxSteps int

	Logger logrus.FieldLogger
}

// DefaultTransportConfig returns a single pass at a 30 degree angle of repose.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		K:          0.01,
		Iterations: 1,
		RestAngle:  30,
		Share:      0.1,
		Epsilon:    0.01,
	}
}

// Validate reports every invalid field at once.
func (c TransportConfig) Validate() error {
	var err error
	if c.K < 0 {
		err = multierr.Append(err, errors.New("erosion: transport k must be >= 0"))
	}
	if c.Iterations < 0 {
		err = multierr.Append(err, errors.New("erosion: transport iterations must be >= 0"))
	}
	if c.RestAngle < 0 || c.RestAngle >= 90 {
		err = multierr.Append(err, errors.New("erosion: rest angle must be in [0, 90)"))
	}
	if c.Share < 0 || c.Share > 1 {
		err = multierr.Append(err, errors.New("erosion: transport share must be in [0, 1]"))
	}
	if c.Epsilon < 0 {
		err = multierr.Append(err, errors.New("erosion: transport epsilon must be >= 0"))
	}
	if c.MaxSteps < 0 {
		err = multierr.Append(err, errors.New("erosion: transport max steps must be >= 0"))
	}
	return err
}

func (c TransportConfig) withDefaults(cells int) TransportConfig {
	if c.Share == 0 {
		c.Share = 0.1
	}
	if c.Epsilon == 0 {
		c.Epsilon = 0.01
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = 64 * cells
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// TransportStats summarizes a Transport or Stabilize call.
type TransportStats struct {
	Passes    int
	Steps     int
	Transfers int
	Moved     float64
	// Converged is false when any pass stopped at the step bound.
	Converged bool
}

func (s *TransportStats) merge(o TransportStats) {
	s.Passes += o.Passes
	s.Steps += o.Steps
	s.Transfers += o.Transfers
	s.Moved += o.Moved
	s.Converged = s.Converged && o.Converged
}

// Transport runs cfg.Iterations passes of constant erosion followed by
// stabilization.
func Transport(m *core.Map, cfg TransportConfig) (TransportStats, error) {
	if err := cfg.Validate(); err != nil {
		return TransportStats{}, err
	}
	cfg = cfg.withDefaults(m.Len())

	total := TransportStats{Converged: true}
	for pass := 0; pass < cfg.Iterations; pass++ {
		ErodeConstant(m, cfg.K)
		st := stabilize(m, cfg)
		cfg.Logger.WithFields(logrus.Fields{
			"pass":      pass,
			"steps":     st.Steps,
			"transfers": st.Transfers,
			"moved":     st.Moved,
		}).Debug("transport pass")
		total.merge(st)
	}
	return total, nil
}

// Stabilize moves sediment downhill until no cell exceeds the angle of repose
// or the step bound is reached. It does not erode bedrock.
func Stabilize(m *core.Map, cfg TransportConfig) (TransportStats, error) {
	if err := cfg.Validate(); err != nil {
		return TransportStats{}, err
	}
	return stabilize(m, cfg.withDefaults(m.Len())), nil
}

func stabilize(m *core.Map, cfg TransportConfig) TransportStats {
	sediment := m.EnsureSediment()
	height := m.GenerateField()
	threshold := m.CellSize().X * math.Tan(cfg.RestAngle*math.Pi/180)

	n := m.Len()
	queued := make([]bool, n)
	queue := make([]int, n, 2*n)
	for idx := range queue {
		queue[idx] = idx
		queued[idx] = true
	}

	st := TransportStats{Passes: 1, Converged: true}
	head := 0
	for head < len(queue) {
		if st.Steps == cfg.MaxSteps {
			st.Converged = false
			cfg.Logger.WithFields(logrus.Fields{
				"steps": st.Steps,
				"queue": len(queue) - head,
			}).Warn("transport step bound reached")
			break
		}
		if head > n && head > len(queue)/2 {
			queue = queue[:copy(queue, queue[head:])]
			head = 0
		}

		idx := queue[head]
		head++
		st.Steps++
		i, j := m.Coords(idx)

		nb := height.NeighborsFilter(i, j, -threshold, false)
		if nb.Len() == 0 {
			queued[idx] = false
			continue
		}

		amount := cfg.Share * sediment.Value(i, j)
		if amount > 0 {
			props := core.Proportions(&nb)
			var moved float64
			for k, nbr := range nb.All() {
				q := amount * props[k]
				if q == 0 {
					continue
				}
				sediment.Add(nbr.I, nbr.J, q)
				height.Add(nbr.I, nbr.J, q)
				moved += q
				st.Transfers++
				if nidx := m.Index(nbr.I, nbr.J); !queued[nidx] {
					queued[nidx] = true
					queue = append(queue, nidx)
				}
			}
			sediment.Add(i, j, -moved)
			height.Add(i, j, -moved)
			st.Moved += moved
		}

		if sediment.Value(i, j) > cfg.Epsilon {
			queue = append(queue, idx)
		} else {
			queued[idx] = false
		}
	}
	return st
}
