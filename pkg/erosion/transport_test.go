package erosion

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"erosim/pkg/core"
)

func pileMap(w, h int, pile float64) *core.Map {
	m := core.NewMap(w, h, r2.Point{}, r2.Point{X: float64(w), Y: float64(h)})
	m.NewLayer().Fill(5)
	m.NewLayer().Set(w/2, h/2, pile)
	return m
}

func quietLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func TestStabilizeFlatIsIdle(t *testing.T) {
	m := core.NewMap(6, 4, r2.Point{}, r2.Point{X: 6, Y: 4})
	m.NewLayer().Fill(3)
	m.NewLayer()
	before := m.Clone()

	cfg := DefaultTransportConfig()
	cfg.K = 0
	cfg.Logger = quietLogger()
	st, err := Transport(m, cfg)
	require.NoError(t, err)

	assert.True(t, st.Converged)
	assert.Equal(t, 0, st.Transfers)
	assert.Equal(t, m.Len(), st.Steps, "every cell is visited once and dropped")
	for l := range before.Layers() {
		assert.Equal(t, before.Layer(l).Values(), m.Layer(l).Values())
	}
}

func TestStabilizeSpreadsPile(t *testing.T) {
	m := pileMap(9, 9, 12)
	cfg := DefaultTransportConfig()
	cfg.Logger = quietLogger()

	st, err := Stabilize(m, cfg)
	require.NoError(t, err)
	assert.Greater(t, st.Transfers, 0)

	sand := m.Layer(core.Sediment)
	assert.InDelta(t, 12, sand.Sum(), 1e-9)
	assert.Less(t, sand.Value(4, 4), 12.0)
	assert.Greater(t, sand.Value(3, 4), 0.0)
	for _, v := range m.Layer(core.Bedrock).Values() {
		assert.Equal(t, 5.0, v)
	}
}

func TestTransportConservesMass(t *testing.T) {
	m := hillMap(8, 8)
	before := m.GenerateField().Sum()

	cfg := DefaultTransportConfig()
	cfg.K = 0.2
	cfg.Iterations = 3
	cfg.Logger = quietLogger()
	st, err := Transport(m, cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, st.Passes)
	assert.Equal(t, 2, m.LayerCount())
	assert.InDelta(t, before, m.GenerateField().Sum(), 1e-9)
	assert.InDelta(t, 0.2*3*64, m.Layer(core.Sediment).Sum(), 1e-9)
}

func TestTransportStepBound(t *testing.T) {
	m := pileMap(7, 7, 50)
	logger, hook := test.NewNullLogger()
	cfg := DefaultTransportConfig()
	cfg.K = 0
	cfg.MaxSteps = 60
	cfg.Logger = logger

	st, err := Transport(m, cfg)
	require.NoError(t, err)
	assert.False(t, st.Converged)
	assert.Equal(t, 60, st.Steps)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, 60, e.Data["steps"])
		}
	}
	assert.True(t, warned, "reaching the step bound must be logged")
	assert.InDelta(t, 50, m.Layer(core.Sediment).Sum(), 1e-9)
}

func TestTransportConfigValidate(t *testing.T) {
	require.NoError(t, DefaultTransportConfig().Validate())

	bad := TransportConfig{K: -1, Iterations: -2, RestAngle: 95, Share: 2, Epsilon: -1, MaxSteps: -1}
	err := bad.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 6)

	_, err = Transport(pileMap(3, 3, 1), bad)
	assert.Error(t, err)
}
