// Standard attribute keys for cross-validation logging.
//
// Keys follow a dotted naming convention ("cv.split", "data.samples") so that
// log pipelines can filter by prefix.

package log

// Run and split context.
const (
	// RunIDKey identifies one evaluation call (a UUID).
	RunIDKey = "cv.run_id"

	// SchemeKey names the validation scheme, see the Scheme* values.
	SchemeKey = "cv.scheme"

	// SplitKey is the zero-based number of the split being evaluated.
	SplitKey = "cv.split"

	// SplitsTotalKey is the number of splits the scheme will produce.
	SplitsTotalKey = "cv.splits_total"

	// TrainSizeKey and TestSizeKey are the sizes of the current split.
	TrainSizeKey = "cv.train_size"
	TestSizeKey  = "cv.test_size"

	// PKey and KKey carry the scheme parameters.
	PKey = "cv.p"
	KKey = "cv.k"

	// ComponentKey identifies which package emitted the record.
	ComponentKey = "cv.component"

	// EstimatorKey names the classifier variant ("stateful", "one_shot", "callback").
	EstimatorKey = "cv.estimator"
)

// Data shape.
const (
	// SamplesKey indicates the number of samples in the dataset.
	SamplesKey = "data.samples"

	// LabelsKey indicates the number of distinct labels.
	LabelsKey = "data.labels"
)

// Results.
const (
	AccuracyKey     = "metrics.accuracy"
	AccuracyStdKey  = "metrics.accuracy_std"
	CorrectKey      = "metrics.correct"
	SkippedKey      = "metrics.skipped"
	ActualLabelKey  = "label.actual"
	PredictLabelKey = "label.predicted"
	DurationMsKey   = "perf.duration_ms"
)

// Errors.
const (
	// ErrorKey carries the error value itself; ErrFmtHandler expands its stack trace.
	ErrorKey = ErrAttrKey

	// ErrorTypeKey categorizes the error, e.g. "ModelError".
	ErrorTypeKey = "error.type"
)

// Standard values.
const (
	SchemeLeaveOneOut = "loo"
	SchemeLeavePOut   = "lpo"
	SchemeKFold       = "kfold"
	SchemeCustom      = "custom"

	EstimatorStateful = "stateful"
	EstimatorOneShot  = "one_shot"
	EstimatorCallback = "callback"

	ErrorTypeModel     = "ModelError"
	ErrorTypeDimension = "DimensionError"
	ErrorTypeCancelled = "Cancelled"
)
