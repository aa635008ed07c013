// Package report renders cross-validation results for people: a plain-text
// summary and a heat map of the confusion matrix.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/YuminosukeSato/crossval/crossval"
	"github.com/YuminosukeSato/crossval/metrics"
	"github.com/YuminosukeSato/crossval/pkg/errors"
)

// LabelReport holds the one-vs-rest metrics of a label.
type LabelReport[L comparable] struct {
	Label L
	// Support is the number of samples whose actual label is Label.
	Support   int
	TP        int
	FP        int
	FN        int
	TN        int
	Precision float64
	Recall    float64
	F1        float64
	MCC       float64
}

// LabelMetrics computes a LabelReport for every label of cm. Metrics whose
// denominator is zero are NaN and reported through errors.Warn.
func LabelMetrics[L comparable](cm *metrics.ConfusionMatrix[L]) ([]LabelReport[L], error) {
	if cm == nil {
		return nil, errors.NewValueError("LabelMetrics", "confusion matrix is nil")
	}
	out := make([]LabelReport[L], 0, cm.Len())
	for _, l := range cm.Labels() {
		table, err := cm.ConfusionTable(l)
		if err != nil {
			return nil, err
		}
		r := LabelReport[L]{
			Label: l,
			TP:    table[0][0],
			FN:    table[0][1],
			FP:    table[1][0],
			TN:    table[1][1],
		}
		r.Support = r.TP + r.FN

		if r.Precision, err = cm.PositivePredictiveValue(l); err != nil {
			return nil, err
		}
		if r.Recall, err = cm.TruePositiveRate(l); err != nil {
			return nil, err
		}
		if r.F1, err = cm.F1Score(l); err != nil {
			return nil, err
		}
		if r.MCC, err = cm.MatthewsCorrelationCoefficient(l); err != nil {
			return nil, err
		}

		warnUndefined("precision", l, r.Precision, "no predicted samples")
		warnUndefined("recall", l, r.Recall, "no true samples")
		warnUndefined("f1", l, r.F1, "no true nor predicted samples")
		warnUndefined("mcc", l, r.MCC, "a zero row or column sum")
		out = append(out, r)
	}
	return out, nil
}

func warnUndefined(metric string, label any, v float64, condition string) {
	if !errors.IsFinite(v) {
		errors.Warn(errors.NewUndefinedMetricWarning(metric, label, condition, v))
	}
}

// WriteMatrix writes the confusion matrix as an aligned table with actual
// labels as rows and predicted labels as columns.
func WriteMatrix[L comparable](w io.Writer, cm *metrics.ConfusionMatrix[L]) error {
	if cm == nil {
		return errors.NewValueError("WriteMatrix", "confusion matrix is nil")
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	labels := cm.Labels()

	fmt.Fprint(tw, "actual\\predicted\t")
	for _, l := range labels {
		fmt.Fprintf(tw, "%v\t", l)
	}
	fmt.Fprintln(tw)
	for i, row := range cm.Matrix() {
		fmt.Fprintf(tw, "%v\t", labels[i])
		for _, v := range row {
			fmt.Fprintf(tw, "%d\t", v)
		}
		fmt.Fprintln(tw)
	}
	return errors.WithStack(tw.Flush())
}

// WriteSummary writes the confusion matrix, the accuracy and the per-label metrics.
func WriteSummary[L comparable](w io.Writer, cm *metrics.ConfusionMatrix[L]) error {
	if err := WriteMatrix(w, cm); err != nil {
		return err
	}
	fmt.Fprintf(w, "\naccuracy: %s (%d/%d)\n\n", formatFloat(cm.Accuracy()), cm.TrueCount(), cm.TotalCount())

	rows, err := LabelMetrics(cm)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "label\tsupport\tprecision\trecall\tf1\tmcc\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%v\t%d\t%s\t%s\t%s\t%s\t\n",
			r.Label, r.Support, formatFloat(r.Precision), formatFloat(r.Recall), formatFloat(r.F1), formatFloat(r.MCC))
	}
	return errors.WithStack(tw.Flush())
}

// WriteResult writes the run header of res followed by WriteSummary.
func WriteResult[L comparable](w io.Writer, res *crossval.Result[L]) error {
	if res == nil {
		return errors.NewValueError("WriteResult", "result is nil")
	}
	fmt.Fprintf(w, "run %s (%s): %d splits, split accuracy %s ± %s, %d skipped pairs\n\n",
		res.RunID, res.Scheme, len(res.Splits),
		formatFloat(res.MeanAccuracy()), formatFloat(res.StdAccuracy()), len(res.Skipped))
	return WriteSummary(w, res.Matrix)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}
