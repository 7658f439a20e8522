package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/golang/geo/r2"
)

// MaxCells bounds the W*H a stored map may declare.
const MaxCells = 1 << 26

// WriteMap stores m as whitespace separated text: the header
// "ax ay bx by W H csx csy L" followed by one line of row-major values per layer.
func WriteMap(w io.Writer, m *Map) error {
	bw := bufio.NewWriter(w)
	a, b, cs := m.Lower(), m.Upper(), m.CellSize()
	header := []float64{a.X, a.Y, b.X, b.Y}
	for _, v := range header {
		bw.WriteString(formatFloat(v))
		bw.WriteByte(' ')
	}
	fmt.Fprintf(bw, "%d %d %s %s %d\n", m.W(), m.H(), formatFloat(cs.X), formatFloat(cs.Y), m.LayerCount())
	for _, l := range m.layers {
		for idx, v := range l.data {
			if idx > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatFloat(v))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("core: write map: %w", err)
	}
	return nil
}

// ReadMap parses the layout produced by WriteMap. The stored cell size is
// ignored in favour of the one derived from the box.
func ReadMap(r io.Reader) (*Map, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	sc.Split(bufio.ScanWords)

	next := func(what string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("core: read map %s: %w", what, err)
			}
			return "", fmt.Errorf("core: read map %s: %w", what, io.ErrUnexpectedEOF)
		}
		return sc.Text(), nil
	}
	float := func(what string) (float64, error) {
		tok, err := next(what)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, fmt.Errorf("core: read map %s: %w", what, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("core: read map %s: %w", what, errNotFinite)
		}
		return v, nil
	}
	integer := func(what string) (int, error) {
		tok, err := next(what)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return 0, fmt.Errorf("core: read map %s: %w", what, err)
		}
		return v, nil
	}

	var box [4]float64
	for k, name := range []string{"ax", "ay", "bx", "by"} {
		v, err := float(name)
		if err != nil {
			return nil, err
		}
		box[k] = v
	}
	w, err := integer("width")
	if err != nil {
		return nil, err
	}
	h, err := integer("height")
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 || w > MaxCells/h {
		return nil, fmt.Errorf("core: read map: invalid size %dx%d", w, h)
	}
	if _, err := float("cell size x"); err != nil {
		return nil, err
	}
	if _, err := float("cell size y"); err != nil {
		return nil, err
	}
	layers, err := integer("layer count")
	if err != nil {
		return nil, err
	}
	if layers < 0 {
		return nil, fmt.Errorf("core: read map: invalid layer count %d", layers)
	}
	a := r2.Point{X: box[0], Y: box[1]}
	b := r2.Point{X: box[2], Y: box[3]}
	if !(b.X > a.X) || !(b.Y > a.Y) {
		return nil, errors.New("core: read map: degenerate box")
	}

	m := NewMap(w, h, a, b)
	for l := 0; l < layers; l++ {
		layer := m.NewLayer()
		for idx := range layer.data {
			v, err := float("layer value")
			if err != nil {
				return nil, fmt.Errorf("%w (layer %d, cell %d)", err, l, idx)
			}
			layer.data[idx] = v
		}
	}
	return m, nil
}

var errNotFinite = errors.New("value is not finite")

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
