package crossval

import (
	"math/rand/v2"
	"slices"

	"github.com/YuminosukeSato/crossval/pkg/errors"
)

// Split is one train/test partition of the sample indices. TestIndex and
// TrainIndex are disjoint and together cover every index exactly once.
type Split struct {
	TestIndex  []int
	TrainIndex []int
}

// KFoldPartition randomly partitions n sample indices into k folds.
//
// Indices are drawn uniformly without replacement. The first k folds each
// receive n/k indices in draw order; the remaining n%k indices are appended
// to the last fold, so the last fold may be larger than the others. The
// TrainIndex of fold i is the concatenation of the other folds' TestIndex in
// fold order.
//
// A nil rng uses a randomly seeded PCG generator.
func KFoldPartition(n, k int, rng *rand.Rand) ([]Split, error) {
	if k < 1 || k > n {
		return nil, errors.NewValidationError("k", "must be in [1, n]", k)
	}
	if rng == nil {
		rng = newRand()
	}

	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	foldSize := n / k
	folds := make([][]int, 0, k)
	current := make([]int, 0, foldSize)
	for len(pool) > 0 {
		r := rng.IntN(len(pool))
		current = append(current, pool[r])
		pool = slices.Delete(pool, r, r+1)

		if len(folds) < k && len(current) == foldSize {
			folds = append(folds, current)
			current = make([]int, 0, foldSize)
		}
	}
	folds[k-1] = append(folds[k-1], current...)

	splits := make([]Split, k)
	for i, test := range folds {
		train := make([]int, 0, n-len(test))
		for j, other := range folds {
			if j != i {
				train = append(train, other...)
			}
		}
		splits[i] = Split{TestIndex: test, TrainIndex: train}
	}
	return splits, nil
}

// complement returns the indices of [0, n) not in test, in ascending order.
func complement(n int, test []int) []int {
	in := make([]bool, n)
	for _, i := range test {
		in[i] = true
	}
	out := make([]int, 0, n-len(test))
	for i, held := range in {
		if !held {
			out = append(out, i)
		}
	}
	return out
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededRand returns a PCG generator seeded with seed, for reproducible partitions.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
