package crossval

import (
	"context"

	"github.com/YuminosukeSato/crossval/core/model"
	"github.com/YuminosukeSato/crossval/metrics"
)

// LeaveOneOut is LeavePOut with p = 1.
func LeaveOneOut[F any, L comparable](ctx context.Context, est model.Estimator[F, L], features []F, labels []L, opts ...Option) (*metrics.ConfusionMatrix[L], error) {
	return LeavePOut(ctx, est, features, labels, 1, opts...)
}

// LeaveOneOutWithCallback is LeaveOneOut driven by a prediction callback.
func LeaveOneOutWithCallback[F any, L comparable](ctx context.Context, features []F, labels []L, cb model.Callback[F, L], opts ...Option) (*metrics.ConfusionMatrix[L], error) {
	return LeavePOut(ctx, model.FromCallback(cb), features, labels, 1, opts...)
}

// LeavePOut trains est once for every p-subset of the samples, holding that
// subset out as the test set, and returns the confusion matrix accumulated
// over all C(n, p) test sets.
func LeavePOut[F any, L comparable](ctx context.Context, est model.Estimator[F, L], features []F, labels []L, p int, opts ...Option) (*metrics.ConfusionMatrix[L], error) {
	return matrixOf(Run(ctx, LeavePOutSplitter{P: p}, features, labels, est, opts...))
}

// LeavePOutWithCallback is LeavePOut driven by a prediction callback.
func LeavePOutWithCallback[F any, L comparable](ctx context.Context, features []F, labels []L, p int, cb model.Callback[F, L], opts ...Option) (*metrics.ConfusionMatrix[L], error) {
	return LeavePOut(ctx, model.FromCallback(cb), features, labels, p, opts...)
}

// KFold partitions the samples into k random folds, trains est on every
// fold's complement and returns the confusion matrix accumulated over the
// k held-out folds. Use WithSeed or WithRand for reproducible folds.
func KFold[F any, L comparable](ctx context.Context, est model.Estimator[F, L], features []F, labels []L, k int, opts ...Option) (*metrics.ConfusionMatrix[L], error) {
	return matrixOf(Run(ctx, KFoldSplitter{K: k}, features, labels, est, opts...))
}

// KFoldWithCallback is KFold driven by a prediction callback.
func KFoldWithCallback[F any, L comparable](ctx context.Context, features []F, labels []L, k int, cb model.Callback[F, L], opts ...Option) (*metrics.ConfusionMatrix[L], error) {
	return KFold(ctx, model.FromCallback(cb), features, labels, k, opts...)
}

func matrixOf[L comparable](r *Result[L], err error) (*metrics.ConfusionMatrix[L], error) {
	if err != nil {
		return nil, err
	}
	return r.Matrix, nil
}
