package core

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridGeometry(t *testing.T) {
	g := NewGrid(4, 2, r2.Point{X: -2, Y: 0}, r2.Point{X: 2, Y: 1})
	assert.Equal(t, 4, g.W())
	assert.Equal(t, 2, g.H())
	assert.Equal(t, 8, g.Len())
	assert.Equal(t, r2.Point{X: 1, Y: 0.5}, g.CellSize())
	assert.Equal(t, r2.Point{X: -1.5, Y: 0.25}, g.Position(0, 0))
	assert.Equal(t, r2.Point{X: 1.5, Y: 0.75}, g.Position(3, 1))
	assert.InDelta(t, 1.118033988749895, g.Distance(1, 1), 1e-12)
}

func TestGridIndexRoundTrip(t *testing.T) {
	g := UnitGrid(5, 3)
	for j := 0; j < g.H(); j++ {
		for i := 0; i < g.W(); i++ {
			idx := g.Index(i, j)
			assert.Equal(t, j*5+i, idx)
			ci, cj := g.Coords(idx)
			assert.Equal(t, i, ci)
			assert.Equal(t, j, cj)
		}
	}
}

func TestGridNearest(t *testing.T) {
	g := NewGrid(10, 10, r2.Point{}, r2.Point{X: 5, Y: 5})
	for j := 0; j < g.H(); j++ {
		for i := 0; i < g.W(); i++ {
			ni, nj := g.Nearest(g.Position(i, j))
			require.Equal(t, i, ni)
			require.Equal(t, j, nj)
		}
	}

	tests := []struct {
		name   string
		p      r2.Point
		wi, wj int
	}{
		{"below origin", r2.Point{X: -3, Y: -1}, 0, 0},
		{"past far corner", r2.Point{X: 7, Y: 12}, 9, 9},
		{"on far edge", r2.Point{X: 5, Y: 5}, 9, 9},
		{"mixed", r2.Point{X: 2.2, Y: -0.1}, 4, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			i, j := g.Nearest(tc.p)
			assert.Equal(t, tc.wi, i)
			assert.Equal(t, tc.wj, j)
		})
	}
}

func TestGridClampsDimensions(t *testing.T) {
	g := NewGrid(0, -4, r2.Point{}, r2.Point{X: 1, Y: 1})
	assert.Equal(t, 1, g.W())
	assert.Equal(t, 1, g.H())
}

func TestGridDegenerateBoxPanics(t *testing.T) {
	assert.Panics(t, func() { NewGrid(2, 2, r2.Point{X: 1, Y: 0}, r2.Point{X: 1, Y: 1}) })
	assert.Panics(t, func() { NewGrid(2, 2, r2.Point{X: 1, Y: 1}, r2.Point{}) })
}

func TestGridReshapeKeepsCount(t *testing.T) {
	g := UnitGrid(4, 4)
	g.Reshape(r2.Point{X: 10, Y: 10}, r2.Point{X: 18, Y: 12})
	assert.Equal(t, 16, g.Len())
	assert.Equal(t, r2.Point{X: 2, Y: 0.5}, g.CellSize())
	assert.Equal(t, r2.Point{X: 11, Y: 10.25}, g.Position(0, 0))
}
