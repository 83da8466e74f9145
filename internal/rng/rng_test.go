package rng

import "testing"

func TestSequenceMatchesReference(t *testing.T) {
	r := New(42)
	if got := r.Next(); got != 2027382 {
		t.Fatalf("first value = %d, want 2027382", got)
	}
	if got := r.Next(); got != 1226992407 {
		t.Fatalf("second value = %d, want 1226992407", got)
	}
}

func TestSeedOneSequence(t *testing.T) {
	r := New(1)
	want := []uint32{48271, 182605794}
	for i, w := range want {
		if got := r.Next(); got != w {
			t.Fatalf("value %d = %d, want %d", i, got, w)
		}
	}
}

func TestSeedZeroStaysZero(t *testing.T) {
	r := New(0)
	for i := 0; i < 5; i++ {
		if got := r.Next(); got != 0 {
			t.Fatalf("seed 0 iteration %d = %d, want 0", i, got)
		}
	}
}

func TestNextBoundedRange(t *testing.T) {
	r := New(7)
	for i := 0; i < 1000; i++ {
		if got := r.NextBounded(10); got >= 10 {
			t.Fatalf("NextBounded(10) = %d, out of range", got)
		}
	}
}
