package rng

import (
	"testing"

	"pgregory.net/rapid"
)

func TestSameSeedSameSequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		n := rapid.IntRange(1, 200).Draw(t, "n")

		a := New(seed)
		b := New(seed)
		for i := 0; i < n; i++ {
			if x, y := a.Next(), b.Next(); x != y {
				t.Fatalf("draw %d diverged: %v != %v", i, x, y)
			}
			if x, y := a.NextInt(-5, 5), b.NextInt(-5, 5); x != y {
				t.Fatalf("int draw %d diverged: %d != %d", i, x, y)
			}
		}
	})
}

func TestNextRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(rapid.Int64().Draw(t, "seed"))
		min := rapid.IntRange(-1000, 1000).Draw(t, "min")
		max := rapid.IntRange(min, min+1000).Draw(t, "max")

		f := s.Next()
		if f < 0 || f >= 1 {
			t.Fatalf("Next() = %v, want [0,1)", f)
		}
		v := s.NextInt(min, max)
		if v < min || v > max {
			t.Fatalf("NextInt(%d, %d) = %d out of range", min, max, v)
		}
	})
}

func TestReseedRestartsSequence(t *testing.T) {
	s := New(12345)
	first := []float64{s.Next(), s.Next(), s.Next()}

	s.Seed(12345)
	for i, want := range first {
		if got := s.Next(); got != want {
			t.Errorf("after reseed draw %d: expected %v, got %v", i, want, got)
		}
	}
	if s.CurrentSeed() != 12345 {
		t.Errorf("CurrentSeed: expected 12345, got %d", s.CurrentSeed())
	}
}

func TestPickWeighted(t *testing.T) {
	tests := []struct {
		name    string
		weights []int
		allowed map[int]bool
	}{
		{"单一正权重", []int{0, 5, 0}, map[int]bool{1: true}},
		{"全零退化为均匀", []int{0, 0}, map[int]bool{0: true, 1: true}},
		{"负权重被忽略", []int{-3, 2}, map[int]bool{1: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(7)
			for i := 0; i < 50; i++ {
				idx := s.PickWeighted(tt.weights)
				if !tt.allowed[idx] {
					t.Fatalf("PickWeighted(%v) returned %d", tt.weights, idx)
				}
			}
		})
	}
}
