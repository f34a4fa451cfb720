package random

import "testing"

func TestIntnStaysInRange(t *testing.T) {
	src := NewSeeded(7)
	for i := 0; i < 1000; i++ {
		v := Intn(src, 12)
		if v < 0 || v >= 12 {
			t.Fatalf("Intn out of range: %d", v)
		}
	}
}

func TestBetweenInclusiveBounds(t *testing.T) {
	if got := Between(NewFixed(0), 5, 9); got != 5 {
		t.Fatalf("expected lower bound 5, got %d", got)
	}
	if got := Between(NewFixed(0.9999999), 5, 9); got != 9 {
		t.Fatalf("expected upper bound 9, got %d", got)
	}
}

func TestSeededSourceIsDeterministic(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("seeded sources diverged at draw %d", i)
		}
	}
}

func TestFixedCyclesAndCounts(t *testing.T) {
	f := NewFixed(0.1, 0.2)
	got := []float64{f.Float64(), f.Float64(), f.Float64()}
	want := []float64{0.1, 0.2, 0.1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("draw %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if f.Draws() != 3 {
		t.Fatalf("expected 3 draws, got %d", f.Draws())
	}
}

func TestChance(t *testing.T) {
	if !Chance(NewFixed(0.29), 0.3) {
		t.Fatal("expected 0.29 to pass a 0.3 chance")
	}
	if Chance(NewFixed(0.3), 0.3) {
		t.Fatal("expected 0.3 to fail a 0.3 chance")
	}
}

func TestNewSeed(t *testing.T) {
	if _, err := NewSeed(); err != nil {
		t.Fatalf("NewSeed returned error: %v", err)
	}
}
