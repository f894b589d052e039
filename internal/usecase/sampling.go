package usecase

import (
	"math"

	"github.com/flight-search/flexible-date-search/internal/domain"
)

// SampleCombinations picks an evenly spaced, order-preserving subset of at
// most target combinations.
//
// Behavior:
//   - target <= 0 or len(combos) <= target returns combos unchanged.
//   - Otherwise index i*stride is rounded for i in [0, target), with
//     stride = len/target, and duplicates are dropped.
//   - The first and last input elements are always included. With target >= 2
//     the last sampled index is replaced by the final element, so the output
//     has exactly target elements; target == 1 yields the first and last.
//   - The selection is a pure function of len(combos) and target.
func SampleCombinations(combos []domain.DateCombination, target int) []domain.DateCombination {
	n := len(combos)
	if target <= 0 || n <= target {
		return combos
	}

	indices := sampleIndices(n, target)
	out := make([]domain.DateCombination, 0, len(indices))
	for _, idx := range indices {
		out = append(out, combos[idx])
	}
	return out
}

// sampleIndices returns ascending, unique indices into a sequence of length n.
// It requires n > target > 0.
func sampleIndices(n, target int) []int {
	stride := float64(n) / float64(target)

	indices := make([]int, 0, target+1)
	seen := make(map[int]struct{}, target+1)
	add := func(idx int) {
		if idx < 0 || idx >= n {
			return
		}
		if _, ok := seen[idx]; ok {
			return
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
	}

	for i := 0; i < target; i++ {
		add(int(math.Round(float64(i) * stride)))
	}

	last := n - 1
	if _, ok := seen[last]; !ok {
		if len(indices) >= 2 {
			// stride > 1, so rounded indices are strictly increasing and the
			// final one is the largest; swapping it for last keeps the order
			delete(seen, indices[len(indices)-1])
			indices[len(indices)-1] = last
			seen[last] = struct{}{}
		} else {
			add(last)
		}
	}

	return indices
}
