package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// MatrixClassifier は gonum の行列を入出力とする分類器のインターフェース。
// y と予測値はラベルを float64 で表した n×1 の列ベクトル。
type MatrixClassifier interface {
	Fitter
	Predictor
}
