package core

import "testing"

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(7)
	b := NewRNG(7)
	for i := 0; i < 64; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d: IntN diverged %d != %d", i, x, y)
		}
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d: Float64 diverged %v != %v", i, x, y)
		}
	}
}

func TestRNGRanges(t *testing.T) {
	r := NewRNG(1)
	if got := r.IntN(0); got != 0 {
		t.Fatalf("IntN(0) = %d, want 0", got)
	}
	for i := 0; i < 256; i++ {
		if v := r.IntN(5); v < 0 || v >= 5 {
			t.Fatalf("IntN(5) out of range: %d", v)
		}
		if v := r.Uniform(-2, 3); v < -2 || v >= 3 {
			t.Fatalf("Uniform(-2, 3) out of range: %v", v)
		}
	}
}
