package tetra

import "math/rand/v2"

// Rand is the source of randomness used for spawning, velocity perturbation,
// turn route choice, depth re-targeting and frame suppression. *rand.Rand
// from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a deterministic PCG-backed Rand for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// chance reports true with probability p.
func chance(rng Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	return rng.Float64() < p
}

// signedUnit returns -1 or +1 with equal probability.
func signedUnit(rng Rand) float64 {
	if rng.IntN(2) == 0 {
		return -1
	}
	return 1
}
