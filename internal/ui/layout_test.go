package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"erosim/internal/core"
)

func TestSampleSpacing(t *testing.T) {
	assert.Equal(t, minSpacing, sampleSpacing(core.Size{W: 16, H: 16}))
	assert.Equal(t, maxSpacing, sampleSpacing(core.Size{W: 1024, H: 1024}))
	assert.Equal(t, 13, sampleSpacing(core.Size{W: 256, H: 256}))
}

func TestSampleCenters(t *testing.T) {
	centers := sampleCenters(core.Size{W: 13, H: 7}, 6)
	assert.Equal(t, [][2]float64{
		{0.5, 0.5}, {6.5, 0.5}, {12.5, 0.5},
		{0.5, 6.5}, {6.5, 6.5}, {12.5, 6.5},
	}, centers)
	for _, c := range centers {
		assert.Less(t, c[0], 13.0)
		assert.Less(t, c[1], 7.0)
	}
	assert.Nil(t, sampleCenters(core.Size{}, 6))
}

func TestPanelLines(t *testing.T) {
	snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "World", Summary: "grid", Params: []core.Parameter{
			{Key: "w", Label: "Width", Value: "64"},
			{Key: "seed", Value: "7"},
		}},
	}}
	lines := panelLines("erosion", snap)
	assert.Equal(t, []hudLine{
		{label: "erosion", header: true},
		{label: "World", header: true},
		{label: "grid"},
		{label: "Width", value: "64"},
		{label: "seed", value: "7"},
	}, lines)
	assert.Equal(t, "Parameters", panelLines("", core.ParameterSnapshot{})[0].label)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-2))
	assert.Equal(t, 0.25, clamp01(0.25))
	assert.Equal(t, 1.0, clamp01(3))
	assert.Equal(t, uint8(80), interpolateColor(0).R)
}
