package solver_test

import (
	"testing"

	"github.com/martsime/hybridcvrp/solver"
)

func TestRandom_Deterministic(t *testing.T) {
	a := solver.NewRandom(true, 7)
	b := solver.NewRandom(true, 7)

	for i := 0; i < 1000; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("same seed diverged on Float64")
		}
		if a.Intn(100) != b.Intn(100) {
			t.Fatal("same seed diverged on Intn")
		}
	}
}

func TestRandom_ZeroSeedFallback(t *testing.T) {
	a := solver.NewRandom(true, 0)
	if a.Seed() != 1 {
		t.Errorf("seed 0 should fall back to 1, got %d", a.Seed())
	}
}

func TestRandom_IntRange(t *testing.T) {
	r := solver.NewRandom(true, 3)
	for i := 0; i < 1000; i++ {
		v := r.IntRange(5, 9)
		if v < 5 || v >= 9 {
			t.Fatalf("IntRange(5,9) = %d out of [5,9)", v)
		}
	}
}

func TestRandom_ShuffleIsPermutation(t *testing.T) {
	r := solver.NewRandom(true, 11)
	a := make([]int, 50)
	for i := range a {
		a[i] = i
	}
	r.Shuffle(a)

	seen := make([]bool, 50)
	for _, v := range a {
		if v < 0 || v >= 50 || seen[v] {
			t.Fatal("shuffle broke the permutation")
		}
		seen[v] = true
	}
}

func TestRandom_Reset(t *testing.T) {
	r := solver.NewRandom(true, 5)
	first := make([]float64, 10)
	for i := range first {
		first[i] = r.Float64()
	}
	r.Reset()
	for i := range first {
		if got := r.Float64(); got != first[i] {
			t.Fatalf("draw %d after reset: got %v, want %v", i, got, first[i])
		}
	}
}
