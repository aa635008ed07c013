package model

import "github.com/YuminosukeSato/crossval/pkg/errors"

// MostFrequent は訓練ラベルの最頻値を常に予測するベースライン分類器。
// 同数の場合は先にその出現回数へ達したラベルを選ぶ。
type MostFrequent[F any, L comparable] struct {
	state *StateManager
	label L
}

// NewMostFrequent は未学習の MostFrequent を作成する。
func NewMostFrequent[F any, L comparable]() *MostFrequent[F, L] {
	return &MostFrequent[F, L]{state: NewStateManager()}
}

// Train は最頻ラベルを記録する。
func (m *MostFrequent[F, L]) Train(features []F, labels []L) error {
	if len(labels) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "MostFrequent.Train")
	}
	if len(features) != len(labels) {
		return errors.NewDimensionError("MostFrequent.Train", len(features), len(labels), 0)
	}

	counts := make(map[L]int, len(labels))
	best, bestCount := labels[0], 0
	for _, l := range labels {
		counts[l]++
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	m.label = best
	m.state.SetFitted(len(labels), 0)
	return nil
}

// Predict は各特徴量に対して最頻ラベルを返す。
func (m *MostFrequent[F, L]) Predict(features []F) ([]L, error) {
	if err := m.state.RequireFitted("MostFrequent", "Predict"); err != nil {
		return nil, err
	}
	out := make([]L, len(features))
	for i := range out {
		out[i] = m.label
	}
	return out, nil
}

// Baseline は MostFrequent を使う Stateful な Estimator を返す。
func Baseline[F any, L comparable]() Estimator[F, L] {
	return Stateful(func(struct{}) Trainer[F, L] {
		return NewMostFrequent[F, L]()
	}, struct{}{}).Named("most-frequent")
}
