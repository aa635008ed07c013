package metrics

import (
	"cmp"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/crossval/pkg/errors"
)

func TestNewConfusionMatrix(t *testing.T) {
	tests := []struct {
		name    string
		matrix  [][]int
		labels  []string
		wantErr func(error) bool
	}{
		{
			name:   "valid 2x2",
			matrix: [][]int{{5, 3}, {2, 10}},
			labels: []string{"cat", "dog"},
		},
		{
			name:   "empty",
			matrix: [][]int{},
			labels: []string{},
		},
		{
			name:   "labels length mismatch",
			matrix: [][]int{{1, 0}, {0, 1}},
			labels: []string{"a"},
			wantErr: func(err error) bool {
				var de *errors.DimensionError
				return errors.As(err, &de) && de.Axis == 0
			},
		},
		{
			name:   "not square",
			matrix: [][]int{{1, 0, 0}, {0, 1}},
			labels: []string{"a", "b"},
			wantErr: func(err error) bool {
				var de *errors.DimensionError
				return errors.As(err, &de) && de.Axis == 1
			},
		},
		{
			name:   "negative count",
			matrix: [][]int{{1, -1}, {0, 1}},
			labels: []string{"a", "b"},
			wantErr: func(err error) bool {
				var ve *errors.ValueError
				return errors.As(err, &ve)
			},
		},
		{
			name:   "duplicate labels",
			matrix: [][]int{{1, 0}, {0, 1}},
			labels: []string{"a", "a"},
			wantErr: func(err error) bool {
				var ve *errors.ValueError
				return errors.As(err, &ve)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, err := NewConfusionMatrix(tt.matrix, tt.labels)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error type: %v", err)
				assert.Nil(t, cm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.matrix, cm.Matrix())
			assert.Equal(t, tt.labels, cm.Labels())
		})
	}
}

func TestConfusionMatrixIsReadOnly(t *testing.T) {
	src := [][]int{{1, 2}, {3, 4}}
	cm, err := NewConfusionMatrix(src, []int{0, 1})
	require.NoError(t, err)

	src[0][0] = 100
	got := cm.Matrix()
	assert.Equal(t, 1, got[0][0])

	got[1][1] = 100
	labels := cm.Labels()
	labels[0] = 42
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, cm.Matrix())
	assert.Equal(t, []int{0, 1}, cm.Labels())
}

func TestFromLabels(t *testing.T) {
	t.Run("inferred labels in first-occurrence order", func(t *testing.T) {
		cm, err := FromLabels([]int{1, 1, -1, 1}, []int{-1, -1, -1, 1})
		require.NoError(t, err)
		assert.Equal(t, []int{1, -1}, cm.Labels())
		assert.Equal(t, [][]int{{1, 2}, {0, 1}}, cm.Matrix())
		assert.Equal(t, 0.5, cm.Accuracy())
	})

	t.Run("predicted-only label is part of the set", func(t *testing.T) {
		cm, err := FromLabels([]string{"a", "a"}, []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, cm.Labels())
		assert.Equal(t, [][]int{{1, 1}, {0, 0}}, cm.Matrix())
	})

	t.Run("sorted labels", func(t *testing.T) {
		cm, err := FromLabels([]int{2, 0, 1}, []int{2, 0, 1}, WithLabelOrder[int](cmp.Compare[int]))
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, cm.Labels())
		assert.Equal(t, [][]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, cm.Matrix())
	})

	t.Run("explicit labels skip unknown pairs", func(t *testing.T) {
		var skipped []SkippedPair[string]
		cm, err := FromLabels(
			[]string{"x", "y", "z", "x"},
			[]string{"x", "z", "y", "y"},
			WithLabels([]string{"y", "x", "x"}),
			WithSkippedPairs(func(p SkippedPair[string]) { skipped = append(skipped, p) }),
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"y", "x"}, cm.Labels())
		assert.Equal(t, [][]int{{0, 0}, {1, 1}}, cm.Matrix())
		assert.Equal(t, 2, cm.TotalCount())
		require.Len(t, skipped, 2)
		assert.Equal(t, SkippedPair[string]{Position: 1, Actual: "y", Predicted: "z"}, skipped[0])
		assert.Equal(t, 2, skipped[1].Position)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := FromLabels([]int{1, 2}, []int{1})
		var de *errors.DimensionError
		assert.True(t, errors.As(err, &de))
	})

	t.Run("all correct gives diagonal matrix", func(t *testing.T) {
		labels := []string{"a", "b", "c", "b", "a", "a"}
		cm, err := FromLabels(labels, labels)
		require.NoError(t, err)
		assert.Equal(t, [][]int{{3, 0, 0}, {0, 2, 0}, {0, 0, 1}}, cm.Matrix())
		assert.Equal(t, 1.0, cm.Accuracy())
	})
}

func TestAggregates(t *testing.T) {
	cm, err := NewConfusionMatrix([][]int{{1, 2, 0}, {0, 3, 1}, {4, 0, 5}}, []string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, 16, cm.TotalCount())
	assert.Equal(t, 9, cm.TrueCount())
	assert.Equal(t, 7, cm.FalseCount())
	assert.Equal(t, cm.TotalCount(), cm.TrueCount()+cm.FalseCount())
	assert.InDelta(t, 9.0/16.0, cm.Accuracy(), 1e-12)

	n, err := cm.Count("c", "a")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = cm.Count("c", "zebra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "label not found")

	d := cm.Dense()
	r, c := d.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 5.0, d.At(2, 2))
}

func TestEmptyMatrixAccuracyIsNaN(t *testing.T) {
	cm, err := FromLabels([]int{}, []int{})
	require.NoError(t, err)
	assert.Equal(t, 0, cm.TotalCount())
	assert.True(t, math.IsNaN(cm.Accuracy()))
	assert.Nil(t, cm.Dense())
}

func TestPerLabelMetrics(t *testing.T) {
	// cat を陽性とすると TP=5, FN=3, FP=2, TN=10
	cm, err := NewConfusionMatrix([][]int{{5, 3}, {2, 10}}, []string{"cat", "dog"})
	require.NoError(t, err)

	counts := []struct {
		name string
		fn   func(string) (int, error)
		want int
	}{
		{"TruePositiveCount", cm.TruePositiveCount, 5},
		{"FalseNegativeCount", cm.FalseNegativeCount, 3},
		{"FalsePositiveCount", cm.FalsePositiveCount, 2},
		{"TrueNegativeCount", cm.TrueNegativeCount, 10},
		{"PositiveCount", cm.PositiveCount, 8},
		{"NegativeCount", cm.NegativeCount, 12},
	}
	for _, tt := range counts {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn("cat")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	rates := []struct {
		name string
		fn   func(string) (float64, error)
		want float64
	}{
		{"TruePositiveRate", cm.TruePositiveRate, 5.0 / 8.0},
		{"TrueNegativeRate", cm.TrueNegativeRate, 10.0 / 12.0},
		{"PositivePredictiveValue", cm.PositivePredictiveValue, 5.0 / 7.0},
		{"NegativePredictiveValue", cm.NegativePredictiveValue, 10.0 / 13.0},
		{"FalseNegativeRate", cm.FalseNegativeRate, 3.0 / 8.0},
		{"FalsePositiveRate", cm.FalsePositiveRate, 2.0 / 12.0},
		{"FalseDiscoveryRate", cm.FalseDiscoveryRate, 2.0 / 7.0},
		{"FalseOmissionRate", cm.FalseOmissionRate, 3.0 / 8.0},
		{"F1Score", cm.F1Score, 10.0 / 15.0},
		{"MatthewsCorrelationCoefficient", cm.MatthewsCorrelationCoefficient, 44.0 / math.Sqrt(7*8*12*13)},
		{"Informedness", cm.Informedness, 5.0/8.0 + 10.0/12.0 - 1},
		{"Markedness", cm.Markedness, 5.0/7.0 + 10.0/13.0 - 1},
	}
	for _, tt := range rates {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn("cat")
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)

			_, err = tt.fn("bird")
			var lnf *errors.LabelNotFoundError
			assert.True(t, errors.As(err, &lnf))
		})
	}

	table, err := cm.ConfusionTable("dog")
	require.NoError(t, err)
	assert.Equal(t, [2][2]int{{10, 2}, {3, 5}}, table)
}

func TestPerLabelIdentities(t *testing.T) {
	cm, err := NewConfusionMatrix([][]int{{1, 2, 0}, {0, 3, 1}, {4, 0, 5}}, []int{7, 8, 9})
	require.NoError(t, err)

	for _, l := range cm.Labels() {
		pos, _ := cm.PositiveCount(l)
		tp, _ := cm.TruePositiveCount(l)
		fn, _ := cm.FalseNegativeCount(l)
		fp, _ := cm.FalsePositiveCount(l)
		tn, _ := cm.TrueNegativeCount(l)
		assert.Equal(t, tp+fn, pos, "label %d", l)
		assert.Equal(t, cm.TotalCount(), tp+fn+fp+tn, "label %d", l)

		fpr, _ := cm.FalsePositiveRate(l)
		tnr, _ := cm.TrueNegativeRate(l)
		assert.InDelta(t, 1-tnr, fpr, 1e-12, "label %d", l)
	}
}

func TestDegenerateMetricsAreNonFinite(t *testing.T) {
	// b は実ラベルにも予測にも現れない
	cm, err := NewConfusionMatrix([][]int{{4, 0}, {0, 0}}, []string{"a", "b"})
	require.NoError(t, err)

	tpr, err := cm.TruePositiveRate("b")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(tpr))

	f1, err := cm.F1Score("b")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(f1))

	mcc, err := cm.MatthewsCorrelationCoefficient("a")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(mcc))

	assert.False(t, errors.IsFinite(tpr))
	assert.Error(t, errors.CheckScalar("TruePositiveRate", tpr))
}

func TestAccumulator(t *testing.T) {
	acc := NewAccumulator([]int{1, -1, 1})
	assert.Equal(t, []int{1, -1}, acc.Labels())

	var skipped []SkippedPair[int]
	acc.OnSkip(func(p SkippedPair[int]) { skipped = append(skipped, p) })

	n, err := acc.Add([]int{1, -1}, []int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snapshot := acc.Matrix()

	n, err = acc.Add([]int{1, 1}, []int{0, -1})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []SkippedPair[int]{{Position: 0, Actual: 1, Predicted: 0}}, skipped)

	assert.Equal(t, [][]int{{1, 0}, {1, 0}}, snapshot.Matrix(), "snapshots are not affected by later adds")
	assert.Equal(t, [][]int{{1, 1}, {1, 0}}, acc.Matrix().Matrix())

	_, err = acc.Add([]int{1}, nil)
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}

func TestAccuracyScore(t *testing.T) {
	score, err := AccuracyScore([]string{"a", "b", "c", "a"}, []string{"a", "c", "c", "a"})
	require.NoError(t, err)
	assert.Equal(t, 0.75, score)

	_, err = AccuracyScore([]int{}, []int{})
	assert.Error(t, err)

	_, err = AccuracyScore([]int{1}, []int{1, 2})
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}
