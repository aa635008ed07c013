package metrics

import (
	"slices"

	"github.com/YuminosukeSato/crossval/pkg/errors"
)

// SkippedPair は集計時にラベル集合に存在しないため除外された (actual, predicted) の組。
type SkippedPair[L comparable] struct {
	// Position は Add に渡されたスライス内での位置
	Position  int
	Actual    L
	Predicted L
}

// Accumulator は固定されたラベル集合に対して (actual, predicted) の組を数え上げる。
// 単一のゴルーチンから使用すること。
type Accumulator[L comparable] struct {
	labels []L
	index  map[L]int
	counts [][]int
	onSkip func(SkippedPair[L])
}

// NewAccumulator は labels を重複除去した順序でラベル集合とする Accumulator を作成する。
func NewAccumulator[L comparable](labels []L) *Accumulator[L] {
	distinct := DistinctLabels(labels)
	index := make(map[L]int, len(distinct))
	for i, l := range distinct {
		index[l] = i
	}
	counts := make([][]int, len(distinct))
	for i := range counts {
		counts[i] = make([]int, len(distinct))
	}
	return &Accumulator[L]{labels: distinct, index: index, counts: counts}
}

// OnSkip は未知ラベルの組が除外されるたびに呼ばれる関数を設定する。
func (a *Accumulator[L]) OnSkip(fn func(SkippedPair[L])) {
	a.onSkip = fn
}

// Add は actual[i] と predicted[i] の組を数え、集計に含めた組の数を返す。
// どちらかのラベルが集合に無い組は除外される。
func (a *Accumulator[L]) Add(actual, predicted []L) (int, error) {
	if len(actual) != len(predicted) {
		return 0, errors.NewDimensionError("Accumulator.Add", len(actual), len(predicted), 0)
	}
	added := 0
	for i := range actual {
		ai, okA := a.index[actual[i]]
		pi, okP := a.index[predicted[i]]
		if !okA || !okP {
			if a.onSkip != nil {
				a.onSkip(SkippedPair[L]{Position: i, Actual: actual[i], Predicted: predicted[i]})
			}
			continue
		}
		a.counts[ai][pi]++
		added++
	}
	return added, nil
}

// TrueCount はこれまでに正しく予測された組の数を返す。
func (a *Accumulator[L]) TrueCount() int {
	n := 0
	for i := range a.counts {
		n += a.counts[i][i]
	}
	return n
}

// Labels はラベル集合のコピーを返す。
func (a *Accumulator[L]) Labels() []L {
	return slices.Clone(a.labels)
}

// Matrix は現在の集計結果のスナップショットを返す。
func (a *Accumulator[L]) Matrix() *ConfusionMatrix[L] {
	return newConfusionMatrix(cloneCounts(a.counts), slices.Clone(a.labels))
}

// DistinctLabels は seqs を順に走査し、最初に出現した順で重複のないラベルを返す。
func DistinctLabels[L comparable](seqs ...[]L) []L {
	seen := make(map[L]struct{})
	var out []L
	for _, seq := range seqs {
		for _, l := range seq {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	return out
}

func cloneCounts(counts [][]int) [][]int {
	out := make([][]int, len(counts))
	for i, row := range counts {
		out[i] = slices.Clone(row)
	}
	return out
}
