// Package linear provides a least-squares linear classifier for two classes
// that can be cross-validated through model.FromMatrix.
package linear

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/crossval/core/model"
	"github.com/YuminosukeSato/crossval/pkg/errors"
)

var _ model.MatrixClassifier = (*LeastSquares)(nil)

// LeastSquares は2クラスの線形分類器。
// 小さい方のラベルを -1、大きい方を +1 として最小二乗法で回帰し、
// スコアの符号でラベルを選ぶ。
type LeastSquares struct {
	state *model.StateManager

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	// Classes は学習データに現れた2つのラベル（昇順）。
	Classes [2]float64
}

// NewLeastSquares は新しい LeastSquares を作成する。
func NewLeastSquares() *LeastSquares {
	return &LeastSquares{state: model.NewStateManager()}
}

// Fit は正規方程式 (X^T X) w = X^T y を解いて重みを求める。
func (ls *LeastSquares) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LeastSquares.Fit")
	}
	if ry != r {
		return errors.NewDimensionError("LeastSquares.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("LeastSquares.Fit", "y must be a column vector")
	}

	classes, err := twoClasses(y)
	if err != nil {
		return err
	}

	// 切片項のために X に 1 の列を追加
	Xi := mat.NewDense(r, c+1, nil)
	target := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		Xi.Set(i, 0, 1)
		for j := 0; j < c; j++ {
			Xi.Set(i, j+1, X.At(i, j))
		}
		if y.At(i, 0) == classes[1] {
			target.SetVec(i, 1)
		} else {
			target.SetVec(i, -1)
		}
	}

	var XTX mat.Dense
	XTX.Mul(Xi.T(), Xi)
	var XTy mat.VecDense
	XTy.MulVec(Xi.T(), target)

	var w mat.VecDense
	if err := w.SolveVec(&XTX, &XTy); err != nil {
		return errors.NewValueError("LeastSquares.Fit", "singular matrix: "+err.Error())
	}

	ls.Intercept = w.AtVec(0)
	ls.Weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		ls.Weights.SetVec(j, w.AtVec(j+1))
	}
	ls.Classes = classes
	ls.stateManager().SetFitted(r, c)
	return nil
}

// Predict は各行のスコアを計算し、負なら Classes[0]、それ以外は Classes[1] を返す。
func (ls *LeastSquares) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := ls.stateManager().RequireFitted("LeastSquares", "Predict"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if _, nFeatures := ls.stateManager().Dimensions(); c != nFeatures {
		return nil, errors.NewDimensionError("LeastSquares.Predict", nFeatures, c, 1)
	}

	var scores mat.VecDense
	scores.MulVec(X, ls.Weights)
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		if scores.AtVec(i)+ls.Intercept < 0 {
			out.Set(i, 0, ls.Classes[0])
		} else {
			out.Set(i, 0, ls.Classes[1])
		}
	}
	return out, nil
}

// Score は X の予測の y に対する正解率を返す。
func (ls *LeastSquares) Score(X, y mat.Matrix) (float64, error) {
	pred, err := ls.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := pred.Dims()
	if ry, _ := y.Dims(); ry != r {
		return 0, errors.NewDimensionError("LeastSquares.Score", r, ry, 0)
	}
	correct := 0
	for i := 0; i < r; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(r), nil
}

func (ls *LeastSquares) stateManager() *model.StateManager {
	if ls.state == nil {
		ls.state = model.NewStateManager()
	}
	return ls.state
}

// twoClasses は y に現れるラベルがちょうど2種類であることを確認し、昇順で返す。
func twoClasses(y mat.Matrix) ([2]float64, error) {
	r, _ := y.Dims()
	seen := make(map[float64]struct{}, 2)
	for i := 0; i < r; i++ {
		seen[y.At(i, 0)] = struct{}{}
	}
	if len(seen) != 2 {
		return [2]float64{}, errors.NewValidationError("y", "exactly two classes are required", len(seen))
	}
	labels := make([]float64, 0, 2)
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Float64s(labels)
	return [2]float64{labels[0], labels[1]}, nil
}
