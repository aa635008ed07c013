// Package crossval provides model-agnostic cross-validation for classifiers.
//
// A classifier is registered once as a model.Estimator (stateful, one-shot,
// callback or a gonum matrix model) and driven through the train/test splits
// of a validation scheme. The test predictions of every split are accumulated
// into a single metrics.ConfusionMatrix.
//
// # Schemes
//
//   - LeaveOneOut / LeavePOut: every combination of p held-out samples, in
//     revolving-door order (see Combinations).
//   - KFold: k random folds; the remainder of n/k goes to the last fold.
//   - Run with a custom Splitter, e.g. a StaticSplitter built from SampleAClass.
//
// # Example
//
//	est := model.Stateful(func(o Options) model.Trainer[float64, int] {
//	    return NewThreshold(o)
//	}, Options{Threshold: 0})
//
//	cm, err := crossval.KFold(ctx, est, features, labels, 5, crossval.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	f1, _ := cm.F1Score(1)
//
// Pairs whose actual or predicted label is outside the label set of the
// whole label column are not counted. They are reported through
// WithSkipHandler, the run's logger and Result.Skipped.
package crossval
