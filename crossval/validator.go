package crossval

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/crossval/core/model"
	"github.com/YuminosukeSato/crossval/metrics"
	"github.com/YuminosukeSato/crossval/pkg/errors"
	"github.com/YuminosukeSato/crossval/pkg/log"
)

// SkippedLabel is an (actual, predicted) pair left out of the confusion
// matrix because one of its labels is outside the label set.
type SkippedLabel[L comparable] struct {
	Split int
	metrics.SkippedPair[L]
}

// SplitResult describes one evaluated split.
type SplitResult struct {
	Index     int
	TrainSize int
	TestSize  int
	// Counted is the number of test pairs added to the confusion matrix.
	Counted int
	Correct int
	Elapsed time.Duration
}

// Accuracy returns Correct/Counted, NaN when nothing was counted.
func (s SplitResult) Accuracy() float64 {
	return float64(s.Correct) / float64(s.Counted)
}

// Result is the outcome of Run.
type Result[L comparable] struct {
	RunID   string
	Scheme  string
	Matrix  *metrics.ConfusionMatrix[L]
	Splits  []SplitResult
	Skipped []SkippedLabel[L]
}

// SplitAccuracies returns the accuracy of every split that counted at least one pair.
func (r *Result[L]) SplitAccuracies() []float64 {
	out := make([]float64, 0, len(r.Splits))
	for _, s := range r.Splits {
		if s.Counted > 0 {
			out = append(out, s.Accuracy())
		}
	}
	return out
}

// MeanAccuracy returns the mean split accuracy, 0 when no split counted a pair.
func (r *Result[L]) MeanAccuracy() float64 {
	acc := r.SplitAccuracies()
	if len(acc) == 0 {
		return 0
	}
	return stat.Mean(acc, nil)
}

// StdAccuracy returns the sample standard deviation of the split accuracies,
// 0 with fewer than two splits.
func (r *Result[L]) StdAccuracy() float64 {
	acc := r.SplitAccuracies()
	if len(acc) <= 1 {
		return 0
	}
	return stat.StdDev(acc, nil)
}

// Run evaluates est on every split produced by splitter and accumulates the
// test predictions into one confusion matrix. The label set is the distinct
// values of labels in first-occurrence order.
//
// Splits are evaluated sequentially. ctx is checked before each split. The
// first classifier error or panic aborts the run with a *errors.ModelError
// naming the split.
func Run[F any, L comparable](ctx context.Context, splitter Splitter, features []F, labels []L, est model.Estimator[F, L], opts ...Option) (*Result[L], error) {
	cfg := newRunConfig(opts)

	if !est.Valid() {
		return nil, errors.NewValueError("crossval.Run", "estimator is not configured")
	}
	if splitter == nil {
		return nil, errors.NewValueError("crossval.Run", "splitter is nil")
	}
	if len(features) != len(labels) {
		return nil, errors.NewDimensionError("crossval.Run", len(features), len(labels), 0)
	}
	if r, ok := splitter.(randomized); ok && cfg.rng != nil {
		splitter = r.withRand(cfg.rng)
	}

	n := len(features)
	splits, err := splitter.Split(n)
	if err != nil {
		return nil, err
	}

	runID := cfg.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := cfg.logger.With(
		log.RunIDKey, runID,
		log.SchemeKey, splitter.Scheme(),
		log.EstimatorKey, est.Name(),
	)

	result := &Result[L]{RunID: runID, Scheme: splitter.Scheme()}
	acc := metrics.NewAccumulator(labels)

	current := 0
	acc.OnSkip(func(p metrics.SkippedPair[L]) {
		result.Skipped = append(result.Skipped, SkippedLabel[L]{Split: current, SkippedPair: p})
		w := errors.NewUnknownLabelWarning(current, p.Position, p.Actual, p.Predicted)
		logger.Warn("ignoring prediction with unknown label",
			log.SplitKey, current,
			log.ActualLabelKey, fmt.Sprint(p.Actual),
			log.PredictLabelKey, fmt.Sprint(p.Predicted),
		)
		if cfg.onSkip != nil {
			cfg.onSkip(w)
		}
	})

	logger.Info("cross-validation started", append([]any{
		log.SamplesKey, n,
		log.LabelsKey, len(acc.Labels()),
		log.SplitsTotalKey, splitter.NSplits(n),
	}, schemeParams(splitter)...)...)
	start := time.Now()

	for split := range splits {
		if err := ctx.Err(); err != nil {
			logger.Warn("cross-validation cancelled", log.SplitKey, current,
				log.ErrorTypeKey, log.ErrorTypeCancelled, log.ErrorKey, err)
			return nil, errors.Wrapf(err, "crossval: cancelled before split %d", current)
		}

		splitStart := time.Now()
		data := SplitData(features, labels, split.TestIndex, split.TrainIndex)

		pred, err := errors.SafeCall("TrainPredict", func() ([]L, error) {
			return est.TrainPredict(data.TrainFeatures, data.TrainLabels, data.TestFeatures)
		})
		if err != nil {
			err = errors.NewModelError("TrainPredict", current, err)
			logger.Error("classifier failed", log.SplitKey, current,
				log.ErrorTypeKey, log.ErrorTypeModel, log.ErrorKey, err)
			return nil, err
		}
		if len(pred) != len(data.TestLabels) {
			err := errors.Wrapf(
				errors.NewDimensionError("crossval.Run", len(data.TestLabels), len(pred), 0),
				"split %d: predictions", current)
			logger.Error("prediction length mismatch", log.SplitKey, current,
				log.ErrorTypeKey, log.ErrorTypeDimension, log.ErrorKey, err)
			return nil, err
		}

		before := acc.TrueCount()
		counted, err := acc.Add(data.TestLabels, pred)
		if err != nil {
			return nil, err
		}
		sr := SplitResult{
			Index:     current,
			TrainSize: len(split.TrainIndex),
			TestSize:  len(split.TestIndex),
			Counted:   counted,
			Correct:   acc.TrueCount() - before,
			Elapsed:   time.Since(splitStart),
		}
		result.Splits = append(result.Splits, sr)

		logger.Debug("split evaluated",
			log.SplitKey, current,
			log.TrainSizeKey, sr.TrainSize,
			log.TestSizeKey, sr.TestSize,
			log.CorrectKey, sr.Correct,
		)
		current++
	}

	result.Matrix = acc.Matrix()

	accuracy := result.Matrix.Accuracy()
	if math.IsNaN(accuracy) {
		accuracy = 0
	}
	logger.Info("cross-validation finished",
		log.SplitsTotalKey, len(result.Splits),
		log.AccuracyKey, accuracy,
		log.AccuracyStdKey, result.StdAccuracy(),
		log.SkippedKey, len(result.Skipped),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return result, nil
}

// schemeParams returns the log fields describing the parameters of s.
func schemeParams(s Splitter) []any {
	switch s := s.(type) {
	case LeavePOutSplitter:
		return []any{log.PKey, s.P}
	case KFoldSplitter:
		return []any{log.KKey, s.K}
	default:
		return nil
	}
}

func newIndexError(split, idx, n int) error {
	return errors.NewValidationError("split", fmt.Sprintf("split %d has an index outside [0, %d)", split, n), idx)
}
