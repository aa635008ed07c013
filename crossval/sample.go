package crossval

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/YuminosukeSato/crossval/pkg/errors"
)

// ClassSample is the result of SampleAClass.
type ClassSample struct {
	// TrainIndex holds the sampled indices, grouped by class in ascending class order.
	TrainIndex []int
	// TestIndex holds the remaining indices in their original order.
	TestIndex []int
	// Mask marks the sampled indices.
	Mask []bool
}

// SampleAClass draws floor(count*fraction) indices without replacement from
// every class of classes, keeping the class proportions of the sample close
// to those of the whole set. A nil rng uses a randomly seeded PCG generator.
func SampleAClass[L cmp.Ordered](classes []L, fraction float64, rng *rand.Rand) (ClassSample, error) {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return ClassSample{}, errors.NewValidationError("fraction", "must be in [0, 1]", fraction)
	}
	if rng == nil {
		rng = newRand()
	}

	order := make([]int, len(classes))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(classes[a], classes[b])
	})

	selected := make([]bool, len(classes))
	train := make([]int, 0, int(float64(len(classes))*fraction))
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && classes[order[end]] == classes[order[start]] {
			end++
		}

		pool := slices.Clone(order[start:end])
		take := int(math.Floor(float64(len(pool)) * fraction))
		for range take {
			r := rng.IntN(len(pool))
			idx := pool[r]
			pool = slices.Delete(pool, r, r+1)
			selected[idx] = true
			train = append(train, idx)
		}
		start = end
	}

	test := make([]int, 0, len(classes)-len(train))
	for i, s := range selected {
		if !s {
			test = append(test, i)
		}
	}
	return ClassSample{TrainIndex: train, TestIndex: test, Mask: selected}, nil
}

// Split returns the sample as a train/test split.
func (s ClassSample) Split() Split {
	return Split{TestIndex: s.TestIndex, TrainIndex: s.TrainIndex}
}
