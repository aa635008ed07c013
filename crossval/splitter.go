package crossval

import (
	"iter"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/YuminosukeSato/crossval/pkg/log"
)

// Splitter produces the train/test splits of a validation scheme.
type Splitter interface {
	// Scheme names the scheme for logging.
	Scheme() string
	// NSplits returns the number of splits for nSamples, or 0 when the
	// parameters are invalid for nSamples.
	NSplits(nSamples int) int
	// Split validates the parameters against nSamples and returns the splits.
	Split(nSamples int) (iter.Seq[Split], error)
}

// LeavePOutSplitter holds out every combination of P samples in turn.
type LeavePOutSplitter struct {
	P int
}

// Scheme implements Splitter.
func (s LeavePOutSplitter) Scheme() string {
	if s.P == 1 {
		return log.SchemeLeaveOneOut
	}
	return log.SchemeLeavePOut
}

// NSplits returns C(nSamples, P).
func (s LeavePOutSplitter) NSplits(nSamples int) int {
	if s.P < 0 || s.P > nSamples {
		return 0
	}
	return combin.Binomial(nSamples, s.P)
}

// Split implements Splitter. Test indices follow the revolving-door order of
// Combinations; train indices are the complement in ascending order.
func (s LeavePOutSplitter) Split(nSamples int) (iter.Seq[Split], error) {
	subsets, err := CombinationSeq(s.P, nSamples)
	if err != nil {
		return nil, err
	}
	return func(yield func(Split) bool) {
		for test := range subsets {
			if !yield(Split{TestIndex: test, TrainIndex: complement(nSamples, test)}) {
				return
			}
		}
	}, nil
}

// KFoldSplitter partitions the samples into K random folds, see KFoldPartition.
type KFoldSplitter struct {
	K int
	// Rand is the randomness source; nil uses the run's generator.
	Rand *rand.Rand
}

// Scheme implements Splitter.
func (s KFoldSplitter) Scheme() string {
	return log.SchemeKFold
}

// NSplits returns K.
func (s KFoldSplitter) NSplits(nSamples int) int {
	if s.K < 1 || s.K > nSamples {
		return 0
	}
	return s.K
}

// Split implements Splitter.
func (s KFoldSplitter) Split(nSamples int) (iter.Seq[Split], error) {
	folds, err := KFoldPartition(nSamples, s.K, s.Rand)
	if err != nil {
		return nil, err
	}
	return slices.Values(folds), nil
}

func (s KFoldSplitter) withRand(r *rand.Rand) Splitter {
	if s.Rand == nil {
		s.Rand = r
	}
	return s
}

// randomized is implemented by splitters that accept the run's generator.
type randomized interface {
	withRand(r *rand.Rand) Splitter
}

// StaticSplitter replays a fixed list of splits, e.g. one produced by
// SampleAClass or by an external tool.
type StaticSplitter struct {
	Name   string
	Splits []Split
}

// Scheme implements Splitter.
func (s StaticSplitter) Scheme() string {
	if s.Name == "" {
		return log.SchemeCustom
	}
	return s.Name
}

// NSplits implements Splitter.
func (s StaticSplitter) NSplits(int) int {
	return len(s.Splits)
}

// Split implements Splitter. Every index must lie in [0, nSamples).
func (s StaticSplitter) Split(nSamples int) (iter.Seq[Split], error) {
	for i, sp := range s.Splits {
		for _, idx := range slices.Concat(sp.TestIndex, sp.TrainIndex) {
			if idx < 0 || idx >= nSamples {
				return nil, newIndexError(i, idx, nSamples)
			}
		}
	}
	return slices.Values(s.Splits), nil
}
