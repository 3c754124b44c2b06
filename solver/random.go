package solver

import (
	"math/rand"
	"time"
)

// Random is the single pseudo-random stream of a run. Every randomized
// decision (parent selection, crossover cut points, ruin seeds, blinks)
// draws from it in a fixed sequence, which is what makes deterministic
// runs reproducible. It is not safe for concurrent use; the engine is
// single-threaded by design.
type Random struct {
	rng  *rand.Rand
	seed int64
	det  bool
}

// NewRandom builds the stream. With deterministic=true the given seed is
// used verbatim (seed 0 falls back to 1 to keep a stable default);
// otherwise the seed derives from wall time.
func NewRandom(deterministic bool, seed int64) *Random {
	if !deterministic {
		seed = time.Now().UnixNano()
	} else if seed == 0 {
		seed = 1
	}

	return &Random{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
		det:  deterministic,
	}
}

// Seed returns the seed the stream was built from.
func (r *Random) Seed() int64 { return r.seed }

// Deterministic reports whether the seed was fixed by configuration.
func (r *Random) Deterministic() bool { return r.det }

// Float64 returns a uniform draw from [0,1).
func (r *Random) Float64() float64 { return r.rng.Float64() }

// Intn returns a uniform draw from [0,n).
func (r *Random) Intn(n int) int { return r.rng.Intn(n) }

// IntRange returns a uniform draw from [lower, upper); upper is exclusive.
func (r *Random) IntRange(lower, upper int) int {
	return lower + r.rng.Intn(upper-lower)
}

// Shuffle permutes a in place (Fisher–Yates).
func (r *Random) Shuffle(a []int) {
	r.rng.Shuffle(len(a), func(i, j int) { a[i], a[j] = a[j], a[i] })
}

// Perm returns a random permutation of 0..n-1.
func (r *Random) Perm(n int) []int { return r.rng.Perm(n) }

// Reset rewinds a deterministic stream to its seed. Non-deterministic
// streams are reseeded from wall time.
func (r *Random) Reset() {
	s := r.seed
	if !r.det {
		s = time.Now().UnixNano()
		r.seed = s
	}
	r.rng = rand.New(rand.NewSource(s))
}
