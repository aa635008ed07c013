package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/crossval/pkg/errors"
	"github.com/YuminosukeSato/crossval/pkg/log"
)

// Trainer は生成後に Train で学習し、Predict で予測する分類器。
type Trainer[F any, L comparable] interface {
	Train(features []F, labels []L) error
	Predict(features []F) ([]L, error)
}

// Classifier は学習済みの分類器。
type Classifier[F any, L comparable] interface {
	Predict(features []F) ([]L, error)
}

// Callback は訓練データとテスト特徴量を受け取り、テストの予測ラベルを返す関数。
type Callback[F any, L comparable] func(trainFeatures []F, trainLabels []L, testFeatures []F) ([]L, error)

// Kind は分類器の呼び出し規約の種類。
type Kind int

const (
	// KindNone はゼロ値の Estimator を表す。
	KindNone Kind = iota
	KindStateful
	KindOneShot
	KindCallback
)

func (k Kind) String() string {
	switch k {
	case KindStateful:
		return log.EstimatorStateful
	case KindOneShot:
		return log.EstimatorOneShot
	case KindCallback:
		return log.EstimatorCallback
	default:
		return "none"
	}
}

// Estimator は登録時に決定された呼び出し規約を持つ分類器。
// 交差検証は各分割で TrainPredict を一度だけ呼ぶ。
type Estimator[F any, L comparable] struct {
	kind Kind
	name string
	run  Callback[F, L]
}

// Kind は呼び出し規約を返す。
func (e Estimator[F, L]) Kind() Kind {
	return e.kind
}

// Name はログ出力用の名前を返す。
func (e Estimator[F, L]) Name() string {
	if e.name == "" {
		return e.kind.String()
	}
	return e.name
}

// Valid はゼロ値でないことを確認する。
func (e Estimator[F, L]) Valid() bool {
	return e.run != nil
}

// Named は名前を付けた Estimator を返す。
func (e Estimator[F, L]) Named(name string) Estimator[F, L] {
	e.name = name
	return e
}

// TrainPredict は訓練データで学習し、テスト特徴量の予測ラベルを返す。
func (e Estimator[F, L]) TrainPredict(trainFeatures []F, trainLabels []L, testFeatures []F) ([]L, error) {
	if e.run == nil {
		return nil, errors.NewValueError("TrainPredict", "estimator is not configured")
	}
	return e.run(trainFeatures, trainLabels, testFeatures)
}

// Stateful は分割ごとに newFn(opts) で分類器を生成し、Train と Predict を呼ぶ Estimator を返す。
func Stateful[F any, L comparable, O any](newFn func(opts O) Trainer[F, L], opts O) Estimator[F, L] {
	if newFn == nil {
		return Estimator[F, L]{}
	}
	return Estimator[F, L]{
		kind: KindStateful,
		run: func(trainF []F, trainL []L, testF []F) ([]L, error) {
			clf := newFn(opts)
			if clf == nil {
				return nil, errors.NewValueError("Stateful", "constructor returned nil")
			}
			if err := clf.Train(trainF, trainL); err != nil {
				return nil, err
			}
			return clf.Predict(testF)
		},
	}
}

// OneShot は分割ごとに newFn(features, labels, opts) で学習済み分類器を生成し、Predict を呼ぶ Estimator を返す。
func OneShot[F any, L comparable, O any](newFn func(features []F, labels []L, opts O) (Classifier[F, L], error), opts O) Estimator[F, L] {
	if newFn == nil {
		return Estimator[F, L]{}
	}
	return Estimator[F, L]{
		kind: KindOneShot,
		run: func(trainF []F, trainL []L, testF []F) ([]L, error) {
			clf, err := newFn(trainF, trainL, opts)
			if err != nil {
				return nil, err
			}
			if clf == nil {
				return nil, errors.NewValueError("OneShot", "constructor returned nil")
			}
			return clf.Predict(testF)
		},
	}
}

// FromCallback は予測関数をそのまま Estimator として扱う。
func FromCallback[F any, L comparable](cb Callback[F, L]) Estimator[F, L] {
	if cb == nil {
		return Estimator[F, L]{}
	}
	return Estimator[F, L]{kind: KindCallback, run: cb}
}

// FromMatrix は MatrixClassifier を行ベクトルの特徴量と float64 ラベルの Estimator に変換する。
// 分割ごとに newFn で新しいモデルを生成する。
func FromMatrix(newFn func() MatrixClassifier) Estimator[[]float64, float64] {
	if newFn == nil {
		return Estimator[[]float64, float64]{}
	}
	return Estimator[[]float64, float64]{
		kind: KindStateful,
		run: func(trainF [][]float64, trainL []float64, testF [][]float64) ([]float64, error) {
			X, err := RowsToDense(trainF)
			if err != nil {
				return nil, err
			}
			if len(trainL) != len(trainF) {
				return nil, errors.NewDimensionError("FromMatrix", len(trainF), len(trainL), 0)
			}
			y := mat.NewVecDense(len(trainL), append([]float64(nil), trainL...))

			clf := newFn()
			if clf == nil {
				return nil, errors.NewValueError("FromMatrix", "constructor returned nil")
			}
			if err := clf.Fit(X, y); err != nil {
				return nil, err
			}

			if len(testF) == 0 {
				return []float64{}, nil
			}
			Xt, err := RowsToDense(testF)
			if err != nil {
				return nil, err
			}
			pred, err := clf.Predict(Xt)
			if err != nil {
				return nil, err
			}
			r, c := pred.Dims()
			if r != len(testF) {
				return nil, errors.NewDimensionError("FromMatrix", len(testF), r, 0)
			}
			if c != 1 {
				return nil, errors.NewDimensionError("FromMatrix", 1, c, 1)
			}
			out := make([]float64, r)
			for i := range out {
				out[i] = pred.At(i, 0)
			}
			return out, nil
		},
	}
}

// RowsToDense は同じ長さの行ベクトルを mat.Dense に詰める。
func RowsToDense(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "RowsToDense")
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, errors.NewValueError("RowsToDense", "rows must have at least one column")
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.Wrap(errors.NewDimensionError("RowsToDense", cols, len(row), 1), fmt.Sprintf("row %d", i))
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}
