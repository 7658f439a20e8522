package erosion

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"erosim/pkg/core"
)

func dropletConfig() DropletConfig {
	cfg := DefaultDropletConfig()
	cfg.Droplets = 200
	cfg.K = 0.1
	cfg.WaterLoss = 0.05
	cfg.Logger = quietLogger()
	return cfg
}

func TestDropletsDeterministic(t *testing.T) {
	a := hillMap(16, 12)
	a.NewLayer().Fill(0.1)
	b := a.Clone()

	stA, err := ErodeDroplets(a, core.NewRNG(42), dropletConfig())
	require.NoError(t, err)
	stB, err := ErodeDroplets(b, core.NewRNG(42), dropletConfig())
	require.NoError(t, err)

	assert.Equal(t, stA, stB)
	for l := range a.Layers() {
		assert.Equal(t, a.Layer(l).Values(), b.Layer(l).Values())
	}

	c := hillMap(16, 12)
	c.NewLayer().Fill(0.1)
	_, err = ErodeDroplets(c, core.NewRNG(43), dropletConfig())
	require.NoError(t, err)
	assert.NotEqual(t, a.Bedrock().Values(), c.Bedrock().Values())
}

func TestDropletsKeepBedrockMass(t *testing.T) {
	m := hillMap(12, 12)
	sand := m.NewLayer()
	sand.Fill(0.3)
	before := m.Bedrock().Sum()

	st, err := ErodeDroplets(m, core.NewRNG(7), dropletConfig())
	require.NoError(t, err)

	assert.Greater(t, st.Steps, 0)
	assert.Greater(t, st.Eroded, 0.0)
	assert.InDelta(t, st.Eroded, st.Deposited, 1e-9)
	assert.InDelta(t, before, m.Bedrock().Sum(), 1e-9)
	for _, v := range sand.Values() {
		assert.Equal(t, 0.3, v, "droplets only touch bedrock")
	}
}

func TestDropletHaltsInPit(t *testing.T) {
	m := core.NewMap(1, 1, r2.Point{}, r2.Point{X: 1, Y: 1})
	m.NewLayer().Fill(2)
	cfg := dropletConfig()
	cfg.Droplets = 3

	st, err := ErodeDroplets(m, core.NewRNG(1), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, st.PitHalts)
	assert.Equal(t, 0, st.Steps)
	assert.Equal(t, 2.0, m.Bedrock().Value(0, 0))
}

func TestDropletsFillPit(t *testing.T) {
	m := core.NewMap(3, 1, r2.Point{}, r2.Point{X: 3, Y: 1})
	copy(m.NewLayer().Values(), []float64{1, 0, 1})
	cfg := dropletConfig()
	cfg.Droplets = 50

	st, err := ErodeDroplets(m, core.NewRNG(5), cfg)
	require.NoError(t, err)
	assert.Equal(t, 50, st.PitHalts, "every droplet ends halted in a pit")
	assert.InDelta(t, 2, m.Bedrock().Sum(), 1e-9)
}

func TestDropletConfigValidate(t *testing.T) {
	require.NoError(t, DefaultDropletConfig().Validate())

	err := DropletConfig{Droplets: -1, K: -1, WaterLoss: 0, InitialWater: -1}.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)

	m := hillMap(3, 3)
	_, err = ErodeDroplets(m, core.NewRNG(1), DropletConfig{Droplets: 1})
	assert.Error(t, err, "water loss must be positive")
}
