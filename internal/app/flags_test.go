package app

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	cfg := NewConfig()
	fs := pflag.NewFlagSet("terrainview", pflag.ContinueOnError)
	cfg.Bind(fs)

	require.NoError(t, fs.Parse([]string{"--scale", "2", "--sps=10", "--set", "w=64", "--set", "area_policy=one-way"}))
	assert.Equal(t, "erosion", cfg.Sim)
	assert.Equal(t, 2, cfg.Scale)
	assert.Equal(t, 10, cfg.SPS)

	overrides, err := cfg.Overrides()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"w": "64", "area_policy": "one-way"}, overrides)
}

func TestParseOverrides(t *testing.T) {
	got, err := ParseOverrides([]string{" seed = 3", "seed=4", "passes=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"seed": "4", "passes": "a=b"}, got)

	_, err = ParseOverrides([]string{"noequals"})
	assert.Error(t, err)
	_, err = ParseOverrides([]string{"=1"})
	assert.Error(t, err)
}
