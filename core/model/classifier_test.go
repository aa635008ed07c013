package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/crossval/pkg/errors"
	"github.com/YuminosukeSato/crossval/pkg/log"
)

type signOptions struct {
	threshold float64
}

// signClassifier predicts -1, 0 or 1 by comparing x with a threshold.
type signClassifier struct {
	opts    signOptions
	trained bool
}

func (c *signClassifier) Train(features []float64, labels []int) error {
	c.trained = true
	return nil
}

func (c *signClassifier) Predict(features []float64) ([]int, error) {
	out := make([]int, len(features))
	for i, x := range features {
		switch {
		case x == c.opts.threshold:
			out[i] = 0
		case x < c.opts.threshold:
			out[i] = -1
		default:
			out[i] = 1
		}
	}
	return out, nil
}

// matrixSign is a MatrixClassifier over the first column.
type matrixSign struct {
	fitted bool
}

func (m *matrixSign) Fit(X, y mat.Matrix) error {
	r, _ := X.Dims()
	yr, _ := y.Dims()
	if r != yr {
		return fmt.Errorf("rows mismatch")
	}
	m.fitted = true
	return nil
}

func (m *matrixSign) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !m.fitted {
		return nil, fmt.Errorf("not fitted")
	}
	r, _ := X.Dims()
	out := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		switch v := X.At(i, 0); {
		case v < 0:
			out.SetVec(i, -1)
		case v > 0:
			out.SetVec(i, 1)
		}
	}
	return out, nil
}

func TestStateful(t *testing.T) {
	var constructed []signOptions
	est := Stateful(func(o signOptions) Trainer[float64, int] {
		constructed = append(constructed, o)
		return &signClassifier{opts: o}
	}, signOptions{threshold: 0})

	require.True(t, est.Valid())
	assert.Equal(t, KindStateful, est.Kind())
	assert.Equal(t, "stateful", est.Name())

	pred, err := est.TrainPredict([]float64{-3, 5}, []int{-1, 1}, []float64{-1, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, 1}, pred)

	_, err = est.TrainPredict(nil, nil, []float64{1})
	require.NoError(t, err)
	assert.Len(t, constructed, 2, "a fresh classifier is constructed per call")
}

func TestStatefulTrainError(t *testing.T) {
	boom := fmt.Errorf("boom")
	est := Stateful(func(struct{}) Trainer[float64, int] {
		return &failingTrainer{err: boom}
	}, struct{}{})

	_, err := est.TrainPredict([]float64{1}, []int{1}, []float64{1})
	assert.ErrorIs(t, err, boom)
}

type failingTrainer struct {
	err error
}

func (f *failingTrainer) Train([]float64, []int) error { return f.err }

func (f *failingTrainer) Predict([]float64) ([]int, error) { return nil, nil }

func TestOneShot(t *testing.T) {
	var seen int
	est := OneShot(func(features []float64, labels []int, o signOptions) (Classifier[float64, int], error) {
		seen = len(features)
		return &signClassifier{opts: o, trained: true}, nil
	}, signOptions{threshold: 1})

	assert.Equal(t, KindOneShot, est.Kind())
	pred, err := est.TrainPredict([]float64{0, 1, 2}, []int{-1, 0, 1}, []float64{1, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, seen)
	assert.Equal(t, []int{0, 1}, pred)

	failing := OneShot(func([]float64, []int, struct{}) (Classifier[float64, int], error) {
		return nil, fmt.Errorf("cannot train")
	}, struct{}{})
	_, err = failing.TrainPredict([]float64{0}, []int{0}, []float64{0})
	assert.EqualError(t, err, "cannot train")
}

func TestFromCallback(t *testing.T) {
	est := FromCallback(func(trainF []string, trainL []string, testF []string) ([]string, error) {
		return testF, nil
	}).Named("echo")

	assert.Equal(t, KindCallback, est.Kind())
	assert.Equal(t, "echo", est.Name())
	pred, err := est.TrainPredict(nil, nil, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, pred)
}

func TestZeroEstimator(t *testing.T) {
	tests := []struct {
		name string
		est  Estimator[float64, int]
	}{
		{"zero value", Estimator[float64, int]{}},
		{"nil callback", FromCallback[float64, int](nil)},
		{"nil stateful constructor", Stateful[float64, int, struct{}](nil, struct{}{})},
		{"nil one-shot constructor", OneShot[float64, int, struct{}](nil, struct{}{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.est.Valid())
			assert.Equal(t, KindNone, tt.est.Kind())
			_, err := tt.est.TrainPredict(nil, nil, nil)
			var ve *errors.ValueError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestFromMatrix(t *testing.T) {
	est := FromMatrix(func() MatrixClassifier { return &matrixSign{} })

	pred, err := est.TrainPredict(
		[][]float64{{-3, 1}, {4, 1}},
		[]float64{-1, 1},
		[][]float64{{-10, 0}, {0, 0}, {7, 0}},
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 1}, pred)

	t.Run("empty test set", func(t *testing.T) {
		pred, err := est.TrainPredict([][]float64{{1}}, []float64{1}, nil)
		require.NoError(t, err)
		assert.Empty(t, pred)
	})

	t.Run("ragged rows", func(t *testing.T) {
		_, err := est.TrainPredict([][]float64{{1, 2}, {3}}, []float64{1, 1}, [][]float64{{1, 2}})
		var de *errors.DimensionError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 1, de.Axis)
	})
}

func TestRowsToDense(t *testing.T) {
	d, err := RowsToDense([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	r, c := d.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4.0, d.At(1, 1))

	_, err = RowsToDense(nil)
	assert.ErrorIs(t, err, errors.ErrEmptyData)
}

func TestMostFrequent(t *testing.T) {
	m := NewMostFrequent[float64, string]()

	_, err := m.Predict([]float64{1})
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "MostFrequent", nf.ModelName)

	require.NoError(t, m.Train([]float64{1, 2, 3, 4}, []string{"cat", "dog", "dog", "cat"}))
	pred, err := m.Predict([]float64{9, 9})
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "dog"}, pred)

	n, _ := m.state.Dimensions()
	assert.Equal(t, 4, n)

	assert.ErrorIs(t, m.Train(nil, nil), errors.ErrEmptyData)
}

func TestBaseline(t *testing.T) {
	est := Baseline[float64, int]()
	assert.Equal(t, "most-frequent", est.Name())
	pred, err := est.TrainPredict([]float64{1, 2, 3}, []int{7, 7, 8}, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, []int{7}, pred)
}

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())
	assert.Error(t, s.RequireFitted("m", "Predict"))

	s.SetFitted(10, 3)
	assert.True(t, s.IsFitted())
	assert.NoError(t, s.RequireFitted("m", "Predict"))
	n, f := s.Dimensions()
	assert.Equal(t, 10, n)
	assert.Equal(t, 3, f)

	s.Reset()
	assert.False(t, s.IsFitted())
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindStateful, log.EstimatorStateful},
		{KindOneShot, log.EstimatorOneShot},
		{KindCallback, log.EstimatorCallback},
		{KindNone, "none"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}
