// Package sampling draws fixed-size uniform samples from finite sequences.
package sampling

import "math/rand/v2"

// Source yields uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Default returns a Source backed by the runtime's shared generator. It is
// safe for concurrent use.
func Default() Source { return globalSource{} }

// Seeded returns a deterministic Source, for tests and reproducible runs.
func Seeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Reservoir returns min(k, len(items)) items chosen uniformly at random in a
// single pass. Each item is kept with probability k/n. The result order is
// unspecified and items is not modified.
func Reservoir[T any](items []T, k int, src Source) []T {
	if k <= 0 || len(items) == 0 {
		return nil
	}
	if src == nil {
		src = Default()
	}
	if k > len(items) {
		k = len(items)
	}
	reservoir := make([]T, k)
	copy(reservoir, items[:k])
	for i := k; i < len(items); i++ {
		if j := src.IntN(i + 1); j < k {
			reservoir[j] = items[i]
		}
	}
	return reservoir
}
