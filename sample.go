package cluster2d

import "math/rand/v2"

// newRand returns a PCG generator seeded from seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// sampleIndices returns m distinct indices from [0, n) in uniformly random
// order, drawn with a partial Fisher–Yates shuffle. Only the displaced
// positions of the virtual permutation are stored, so a draw costs O(m)
// regardless of n. Panics if m > n.
func sampleIndices(rng *rand.Rand, n, m int) []int {
	if m > n {
		panic("cluster2d: sample larger than population")
	}
	out := make([]int, m)
	displaced := make(map[int]int, m)
	at := func(i int) int {
		if v, ok := displaced[i]; ok {
			return v
		}
		return i
	}
	for i := 0; i < m; i++ {
		j := i + rng.IntN(n-i)
		out[i] = at(j)
		displaced[j] = at(i)
	}
	return out
}

// Permutation returns a uniformly random permutation of [0, n) drawn from
// a generator seeded with seed. The same seed always yields the same order.
func Permutation(n int, seed uint64) []int {
	return sampleIndices(newRand(seed), n, n)
}
