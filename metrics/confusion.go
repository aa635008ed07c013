// Package metrics は交差検証の結果を集計する混同行列と、そこから導かれる評価指標を提供する。
package metrics

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/crossval/pkg/errors"
)

// ConfusionMatrix は実ラベル（行）と予測ラベル（列）の件数表。
// 生成後は変更されない。
type ConfusionMatrix[L comparable] struct {
	matrix [][]int
	labels []L
	index  map[L]int
}

// NewConfusionMatrix は正方行列とラベル列から混同行列を作成する。
func NewConfusionMatrix[L comparable](matrix [][]int, labels []L) (*ConfusionMatrix[L], error) {
	if len(matrix) != len(labels) {
		return nil, errors.NewDimensionError("NewConfusionMatrix", len(labels), len(matrix), 0)
	}
	for _, row := range matrix {
		if len(row) != len(matrix) {
			return nil, errors.NewDimensionError("NewConfusionMatrix", len(matrix), len(row), 1)
		}
		for _, v := range row {
			if v < 0 {
				return nil, errors.NewValueError("NewConfusionMatrix", "counts must be non-negative")
			}
		}
	}
	if len(DistinctLabels(labels)) != len(labels) {
		return nil, errors.NewValueError("NewConfusionMatrix", "labels must be distinct")
	}
	return newConfusionMatrix(cloneCounts(matrix), slices.Clone(labels)), nil
}

func newConfusionMatrix[L comparable](matrix [][]int, labels []L) *ConfusionMatrix[L] {
	index := make(map[L]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	return &ConfusionMatrix[L]{matrix: matrix, labels: labels, index: index}
}

// LabelOption は FromLabels のラベル集合の決め方を変更する。
type LabelOption[L comparable] func(*labelConfig[L])

type labelConfig[L comparable] struct {
	labels   []L
	cmp      func(a, b L) int
	onSkip   func(SkippedPair[L])
	explicit bool
}

// WithLabels はラベル集合を明示する（重複は除去される）。
// 集合に無いラベルを含む組は数えられない。
func WithLabels[L comparable](labels []L) LabelOption[L] {
	return func(c *labelConfig[L]) {
		c.labels = labels
		c.explicit = true
	}
}

// WithLabelOrder はラベル集合を cmp で並べ替える。
func WithLabelOrder[L comparable](cmp func(a, b L) int) LabelOption[L] {
	return func(c *labelConfig[L]) {
		c.cmp = cmp
	}
}

// WithSkippedPairs は除外された組を受け取る関数を設定する。
func WithSkippedPairs[L comparable](fn func(SkippedPair[L])) LabelOption[L] {
	return func(c *labelConfig[L]) {
		c.onSkip = fn
	}
}

// FromLabels は実ラベルと予測ラベルの列から混同行列を作成する。
// ラベル集合を明示しない場合は actual, predicted の順に最初に現れた順となる。
func FromLabels[L comparable](actual, predicted []L, opts ...LabelOption[L]) (*ConfusionMatrix[L], error) {
	if len(actual) != len(predicted) {
		return nil, errors.NewDimensionError("FromLabels", len(actual), len(predicted), 0)
	}

	cfg := &labelConfig[L]{}
	for _, opt := range opts {
		opt(cfg)
	}

	var labels []L
	if cfg.explicit {
		labels = DistinctLabels(cfg.labels)
	} else {
		labels = DistinctLabels(actual, predicted)
	}
	if cfg.cmp != nil {
		slices.SortStableFunc(labels, cfg.cmp)
	}

	acc := NewAccumulator(labels)
	acc.OnSkip(cfg.onSkip)
	if _, err := acc.Add(actual, predicted); err != nil {
		return nil, err
	}
	return acc.Matrix(), nil
}

// Matrix は件数表のコピーを返す。
func (cm *ConfusionMatrix[L]) Matrix() [][]int {
	return cloneCounts(cm.matrix)
}

// Labels はラベル列のコピーを返す。
func (cm *ConfusionMatrix[L]) Labels() []L {
	return slices.Clone(cm.labels)
}

// Len はラベル数を返す。
func (cm *ConfusionMatrix[L]) Len() int {
	return len(cm.labels)
}

// Dense は件数表を gonum の行列として返す。ラベルが無い場合は nil。
func (cm *ConfusionMatrix[L]) Dense() *mat.Dense {
	n := len(cm.labels)
	if n == 0 {
		return nil
	}
	d := mat.NewDense(n, n, nil)
	for i, row := range cm.matrix {
		for j, v := range row {
			d.Set(i, j, float64(v))
		}
	}
	return d
}

// Index はラベルの位置を返す。
func (cm *ConfusionMatrix[L]) Index(label L) (int, error) {
	i, ok := cm.index[label]
	if !ok {
		return -1, errors.NewLabelNotFoundError(label)
	}
	return i, nil
}

// Count は実ラベル actual を predicted と予測した件数を返す。
func (cm *ConfusionMatrix[L]) Count(actual, predicted L) (int, error) {
	i, err := cm.Index(actual)
	if err != nil {
		return 0, err
	}
	j, err := cm.Index(predicted)
	if err != nil {
		return 0, err
	}
	return cm.matrix[i][j], nil
}

// TotalCount は全件数を返す。
func (cm *ConfusionMatrix[L]) TotalCount() int {
	total := 0
	for _, row := range cm.matrix {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// TrueCount は正しく予測された件数（対角和）を返す。
func (cm *ConfusionMatrix[L]) TrueCount() int {
	count := 0
	for i := range cm.matrix {
		count += cm.matrix[i][i]
	}
	return count
}

// FalseCount は誤って予測された件数を返す。
func (cm *ConfusionMatrix[L]) FalseCount() int {
	return cm.TotalCount() - cm.TrueCount()
}

// Accuracy は正解率を返す。件数が0の場合は NaN。
func (cm *ConfusionMatrix[L]) Accuracy() float64 {
	return ratio(cm.TrueCount(), cm.TotalCount())
}

// outcome は label を陽性とみなした場合の TP, FP, FN, TN。
type outcome struct {
	tp, fp, fn, tn int
}

func (cm *ConfusionMatrix[L]) outcome(label L) (outcome, error) {
	k, err := cm.Index(label)
	if err != nil {
		return outcome{}, err
	}
	var o outcome
	total := 0
	for i, row := range cm.matrix {
		for j, v := range row {
			total += v
			switch {
			case i == k && j == k:
				o.tp += v
			case j == k:
				o.fp += v
			case i == k:
				o.fn += v
			}
		}
	}
	o.tn = total - o.tp - o.fp - o.fn
	return o, nil
}

// TruePositiveCount は label を正しく予測した件数を返す。
func (cm *ConfusionMatrix[L]) TruePositiveCount(label L) (int, error) {
	o, err := cm.outcome(label)
	return o.tp, err
}

// TrueNegativeCount は label 以外を label 以外と予測した件数を返す。
func (cm *ConfusionMatrix[L]) TrueNegativeCount(label L) (int, error) {
	o, err := cm.outcome(label)
	return o.tn, err
}

// FalsePositiveCount は label 以外を label と予測した件数を返す。
func (cm *ConfusionMatrix[L]) FalsePositiveCount(label L) (int, error) {
	o, err := cm.outcome(label)
	return o.fp, err
}

// FalseNegativeCount は label を label 以外と予測した件数を返す。
func (cm *ConfusionMatrix[L]) FalseNegativeCount(label L) (int, error) {
	o, err := cm.outcome(label)
	return o.fn, err
}

// PositiveCount は実ラベルが label の件数 (TP+FN) を返す。
func (cm *ConfusionMatrix[L]) PositiveCount(label L) (int, error) {
	o, err := cm.outcome(label)
	return o.tp + o.fn, err
}

// NegativeCount は実ラベルが label 以外の件数 (TN+FP) を返す。
func (cm *ConfusionMatrix[L]) NegativeCount(label L) (int, error) {
	o, err := cm.outcome(label)
	return o.tn + o.fp, err
}

// TruePositiveRate は再現率 TP/(TP+FN) を返す。
func (cm *ConfusionMatrix[L]) TruePositiveRate(label L) (float64, error) {
	o, err := cm.outcome(label)
	if err != nil {
		return 0, err
	}
	return ratio(o.tp, o.tp+o.fn), nil
}

// TrueNegativeRate は特異度 TN/(TN+FP) を返す。
func (cm *ConfusionMatrix[L]) TrueNegativeRate(label L) (float64, error) {
	o, err := cm.outcome(label)
	if err != nil {
		return 0, err
	}
	return ratio(o.tn, o.tn+o.fp), nil
}

// PositivePredictiveValue は適合率 TP/(TP+FP) を返す。
func (cm *ConfusionMatrix[L]) PositivePredictiveValue(label L) (float64, error) {
	o, err := cm.outcome(label)
	if err != nil {
		return 0, err
	}
	return ratio(o.tp, o.tp+o.fp), nil
}

// NegativePredictiveValue は TN/(TN+FN) を返す。
func (cm *ConfusionMatrix[L]) NegativePredictiveValue(label L) (float64, error) {
	o, err := cm.outcome(label)
	if err != nil {
		return 0, err
	}
	return ratio(o.tn, o.tn+o.fn), nil
}

// FalseNegativeRate は 1 - TruePositiveRate を返す。
func (cm *ConfusionMatrix[L]) FalseNegativeRate(label L) (float64, error) {
	tpr, err := cm.TruePositiveRate(label)
	if err != nil {
		return 0, err
	}
	return 1 - tpr, nil
}

// FalsePositiveRate は 1 - TrueNegativeRate を返す。
func (cm *ConfusionMatrix[L]) FalsePositiveRate(label L) (float64, error) {
	tnr, err := cm.TrueNegativeRate(label)
	if err != nil {
		return 0, err
	}
	return 1 - tnr, nil
}

// FalseDiscoveryRate は FP/(FP+TP) を返す。
func (cm *ConfusionMatrix[L]) FalseDiscoveryRate(label L) (float64, error) {
	o, err := cm.outcome(label)
	if err != nil {
		return 0, err
	}
	return ratio(o.fp, o.fp+o.tp), nil
}

// FalseOmissionRate は FN/(FN+TP) を返す。
func (cm *ConfusionMatrix[L]) FalseOmissionRate(label L) (float64, error) {
	o, err := cm.outcome(label)
	if err != nil {
		return 0, err
	}
	return ratio(o.fn, o.fn+o.tp), nil
}

// F1Score は 2TP/(2TP+FP+FN) を返す。
func (cm *ConfusionMatrix[L]) F1Score(label L) (float64, error) {
	o, err := cm.outcome(label)
	if err != nil {
		return 0, err
	}
	return ratio(2*o.tp, 2*o.tp+o.fp+o.fn), nil
}

// MatthewsCorrelationCoefficient はマシューズ相関係数を返す。
func (cm *ConfusionMatrix[L]) MatthewsCorrelationCoefficient(label L) (float64, error) {
	o, err := cm.outcome(label)
	if err != nil {
		return 0, err
	}
	tp, tn, fp, fn := float64(o.tp), float64(o.tn), float64(o.fp), float64(o.fn)
	return (tp*tn - fp*fn) / math.Sqrt((tp+fp)*(tp+fn)*(tn+fp)*(tn+fn)), nil
}

// Informedness は TPR + TNR - 1 を返す。
func (cm *ConfusionMatrix[L]) Informedness(label L) (float64, error) {
	tpr, err := cm.TruePositiveRate(label)
	if err != nil {
		return 0, err
	}
	tnr, _ := cm.TrueNegativeRate(label)
	return tpr + tnr - 1, nil
}

// Markedness は PPV + NPV - 1 を返す。
func (cm *ConfusionMatrix[L]) Markedness(label L) (float64, error) {
	ppv, err := cm.PositivePredictiveValue(label)
	if err != nil {
		return 0, err
	}
	npv, _ := cm.NegativePredictiveValue(label)
	return ppv + npv - 1, nil
}

// ConfusionTable は label を陽性とした 2×2 の表 [[TP, FN], [FP, TN]] を返す。
func (cm *ConfusionMatrix[L]) ConfusionTable(label L) ([2][2]int, error) {
	o, err := cm.outcome(label)
	if err != nil {
		return [2][2]int{}, err
	}
	return [2][2]int{{o.tp, o.fn}, {o.fp, o.tn}}, nil
}

// AccuracyScore は yTrue と yPred の一致率を計算する
func AccuracyScore[L comparable](yTrue, yPred []L) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("AccuracyScore", "empty labels")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("AccuracyScore", n, len(yPred), 0)
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ratio は IEEE-754 に従って num/den を計算する（0/0 は NaN、x/0 は +Inf）。
func ratio(num, den int) float64 {
	return float64(num) / float64(den)
}
