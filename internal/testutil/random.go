package testutil

import "math/rand/v2"

// Rand returns a deterministic generator for the given seed so
// statistical tests are reproducible run to run.
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Normals returns n samples from N(mean, sigma^2) drawn from a
// deterministic generator seeded with seed.
func Normals(seed uint64, n int, mean, sigma float64) []float64 {
	rng := Rand(seed)

	out := make([]float64, n)
	for i := range out {
		out[i] = mean + sigma*rng.NormFloat64()
	}

	return out
}
