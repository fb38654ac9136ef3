package quiz

import (
	"math/rand/v2"
	"time"
)

// Rand is the source of randomness for quiz assembly. Float64 returns a
// value in [0, 1).
type Rand interface {
	Float64() float64
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DefaultRand returns a source seeded from the current time.
func DefaultRand() Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}

// weightedIndex picks an index with probability proportional to its weight.
// Non-positive weights are never picked. It returns false when the total
// weight is zero.
func weightedIndex(weights []float64, rng Rand) (int, bool) {
	total := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 {
			total += w
			last = i
		}
	}
	if total <= 0 {
		return -1, false
	}

	r := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		r -= w
		if r <= 0 {
			return i, true
		}
	}

	// float rounding can leave r slightly above zero
	return last, true
}

// intn returns a value in [0, n) drawn from rng.
func intn(n int, rng Rand) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
