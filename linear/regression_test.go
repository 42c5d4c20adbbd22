package linear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/mllib/core/model"
	"github.com/YuminosukeSato/mllib/pkg/errors"
	"github.com/YuminosukeSato/mllib/pkg/log"
)

// y = 2x の5点
var (
	doubleX = []float64{1, 2, 3, 4, 5}
	doubleY = []float64{2, 4, 6, 8, 10}
)

func newTrainedDouble(t *testing.T, iterations int) *LinearRegression {
	t.Helper()
	lr, err := NewLinearRegression(1)
	require.NoError(t, err)
	cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: iterations, EarlyStoppingThreshold: 1e-6}
	require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))
	return lr
}

func TestLinearRegression_Train(t *testing.T) {
	t.Run("2000 iterations", func(t *testing.T) {
		lr := newTrainedDouble(t, 2000)

		assert.True(t, lr.IsFitted())
		assert.InDelta(t, 2.0, lr.Weights()[0], 1e-2)
		// 切片はゆっくり収束する方向にあるため2000回では約0.017残る
		assert.InDelta(t, 0.0, lr.Bias(), 2e-2)

		pred, err := lr.Predict([]float64{6})
		require.NoError(t, err)
		assert.InDelta(t, 12.0, pred, 2e-2)
	})

	t.Run("5000 iterations", func(t *testing.T) {
		lr := newTrainedDouble(t, 5000)

		assert.InDelta(t, 2.0, lr.Weights()[0], 1e-3)
		assert.InDelta(t, 0.0, lr.Bias(), 1e-3)
		assert.Equal(t, 5000, lr.StoppingIteration())
		assert.Less(t, lr.LastLoss(), 1e-6)
	})

	t.Run("multiple features", func(t *testing.T) {
		// y = 1 + 2*x1 - 3*x2
		X := []float64{
			0, 0,
			1, 0,
			0, 1,
			1, 1,
			2, 1,
			1, 2,
		}
		y := []float64{1, 3, -2, 0, 2, -3}
		lr, err := NewLinearRegression(2)
		require.NoError(t, err)
		cfg := model.TrainingConfig{LearningRate: 0.1, NumIterations: 10000, EarlyStoppingThreshold: 0}
		require.NoError(t, lr.Train(X, y, 6, cfg))

		assert.InDeltaSlice(t, []float64{2, -3}, lr.Weights(), 1e-6)
		assert.InDelta(t, 1.0, lr.Bias(), 1e-6)
	})

	t.Run("extra trailing data is ignored", func(t *testing.T) {
		lr, err := NewLinearRegression(1)
		require.NoError(t, err)
		cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 1, EarlyStoppingThreshold: 0}
		require.NoError(t, lr.Train(append(doubleX, 100), append(doubleY, -100), 5, cfg))
		assert.InDelta(t, 0.22, lr.Weights()[0], 1e-12)
	})
}

func TestLinearRegression_SingleStep(t *testing.T) {
	// 1回の更新: grad_w = Σ(0-2x)x/5 = -22, grad_b = Σ(0-2x)/5 = -6
	lr, err := NewLinearRegression(1)
	require.NoError(t, err)
	cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 1, EarlyStoppingThreshold: 0}
	require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))

	assert.InDelta(t, 0.22, lr.Weights()[0], 1e-12)
	assert.InDelta(t, 0.06, lr.Bias(), 1e-12)
	assert.Equal(t, 1, lr.StoppingIteration())
	assert.InDelta(t, 22.0, lr.LastLoss(), 1e-12)
}

func TestLinearRegression_EarlyStopping(t *testing.T) {
	t.Run("stops before applying the update", func(t *testing.T) {
		// 閾値が十分大きいと2回目の損失評価で停止し、更新は1回だけ適用される
		lr, err := NewLinearRegression(1)
		require.NoError(t, err)
		cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 10, EarlyStoppingThreshold: 1e300}
		require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))

		assert.Equal(t, 1, lr.StoppingIteration())
		assert.InDelta(t, 0.22, lr.Weights()[0], 1e-12)
		assert.InDelta(t, 0.06, lr.Bias(), 1e-12)
	})

	t.Run("relative threshold", func(t *testing.T) {
		lr, err := NewLinearRegression(1)
		require.NoError(t, err)
		cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 2000, EarlyStoppingThreshold: 1e-2}
		require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))

		assert.Greater(t, lr.StoppingIteration(), 1)
		assert.Less(t, lr.StoppingIteration(), 2000)
		assert.True(t, lr.IsFitted())
	})

	t.Run("zero threshold runs every iteration", func(t *testing.T) {
		lr, err := NewLinearRegression(1)
		require.NoError(t, err)
		cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 300, EarlyStoppingThreshold: 0}
		require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))
		assert.Equal(t, 300, lr.StoppingIteration())
	})

	t.Run("identical losses count as converged", func(t *testing.T) {
		// 完全に当てはまった状態から始めると損失は0のまま変化しない
		lr, err := NewLinearRegression(1)
		require.NoError(t, err)
		require.NoError(t, lr.SetParams(&model.ModelWeights{ModelType: "LinearRegression", Coefficients: []float64{2}}))
		cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 100, EarlyStoppingThreshold: 1e-6}
		require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))

		assert.Equal(t, 1, lr.StoppingIteration())
		assert.Equal(t, 0.0, lr.LastLoss())
		assert.Equal(t, []float64{2}, lr.Weights())
	})
}

func TestLinearRegression_ZeroIterations(t *testing.T) {
	lr, err := NewLinearRegression(1)
	require.NoError(t, err)
	cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 0, EarlyStoppingThreshold: 1e-6}
	require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))

	assert.True(t, lr.IsFitted())
	assert.Equal(t, 0, lr.StoppingIteration())
	assert.Equal(t, []float64{0}, lr.Weights())
	assert.Equal(t, 0.0, lr.Bias())
	assert.True(t, math.IsNaN(lr.LastLoss()))

	pred, err := lr.Predict([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, pred)
}

func TestLinearRegression_WarmStart(t *testing.T) {
	lr, err := NewLinearRegression(1)
	require.NoError(t, err)
	cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 1, EarlyStoppingThreshold: 0}
	require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))
	first := lr.Weights()[0]

	// 2回目の学習は現在のパラメータから続ける
	require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))
	assert.Greater(t, lr.Weights()[0], first)
}

func TestLinearRegression_TrainErrors(t *testing.T) {
	valid := model.TrainingConfig{LearningRate: 0.01, NumIterations: 10, EarlyStoppingThreshold: 1e-6}

	tests := []struct {
		name       string
		X          []float64
		y          []float64
		numSamples int
		cfg        model.TrainingConfig
		check      func(t *testing.T, err error)
	}{
		{
			name: "nil X", X: nil, y: doubleY, numSamples: 5, cfg: valid,
			check: func(t *testing.T, err error) {
				var ve *errors.ValueError
				assert.True(t, errors.As(err, &ve))
			},
		},
		{
			name: "nil y", X: doubleX, y: nil, numSamples: 5, cfg: valid,
			check: func(t *testing.T, err error) {
				var ve *errors.ValueError
				assert.True(t, errors.As(err, &ve))
			},
		},
		{
			name: "single sample", X: []float64{1}, y: []float64{2}, numSamples: 1, cfg: valid,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, errors.ErrInsufficientSamples))
			},
		},
		{
			name: "X shorter than numSamples", X: doubleX[:3], y: doubleY, numSamples: 5, cfg: valid,
			check: func(t *testing.T, err error) {
				var de *errors.DimensionError
				require.True(t, errors.As(err, &de))
				assert.Equal(t, 5, de.Expected)
				assert.Equal(t, 3, de.Got)
			},
		},
		{
			name: "y shorter than numSamples", X: doubleX, y: doubleY[:4], numSamples: 5, cfg: valid,
			check: func(t *testing.T, err error) {
				var de *errors.DimensionError
				assert.True(t, errors.As(err, &de))
			},
		},
		{
			name: "zero learning rate", X: doubleX, y: doubleY, numSamples: 5,
			cfg: model.TrainingConfig{LearningRate: 0, NumIterations: 10},
			check: func(t *testing.T, err error) {
				var ve *errors.ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, "learning_rate", ve.ParamName)
			},
		},
		{
			name: "negative iterations", X: doubleX, y: doubleY, numSamples: 5,
			cfg: model.TrainingConfig{LearningRate: 0.01, NumIterations: -1},
			check: func(t *testing.T, err error) {
				var ve *errors.ValidationError
				assert.True(t, errors.As(err, &ve))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr, err := NewLinearRegression(1)
			require.NoError(t, err)

			err = lr.Train(tt.X, tt.y, tt.numSamples, tt.cfg)
			require.Error(t, err)
			tt.check(t, err)

			// 拒否された呼び出しはモデルを変更しない
			assert.False(t, lr.IsFitted())
			assert.Equal(t, []float64{0}, lr.Weights())
			assert.Equal(t, 0.0, lr.Bias())
		})
	}
}

func TestLinearRegression_RejectedTrainKeepsFittedModel(t *testing.T) {
	lr := newTrainedDouble(t, 2000)
	before := lr.Params()

	err := lr.Train(doubleX, doubleY, 1, model.DefaultTrainingConfig())
	require.Error(t, err)

	assert.True(t, lr.IsFitted())
	assert.Equal(t, before, lr.Params())
}

func TestLinearRegression_Divergence(t *testing.T) {
	lr, err := NewLinearRegression(1)
	require.NoError(t, err)
	require.NoError(t, lr.SetParams(&model.ModelWeights{ModelType: "LinearRegression", Coefficients: []float64{0.5}, Intercept: 0.25}))

	cfg := model.TrainingConfig{LearningRate: 1e3, NumIterations: 200, EarlyStoppingThreshold: 0}
	err = lr.Train(doubleX, doubleY, 5, cfg)
	require.Error(t, err)

	var nie *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &nie))
	assert.Greater(t, nie.Iteration, 0)

	// パラメータは学習前の値に戻り、未学習のまま
	assert.Equal(t, []float64{0.5}, lr.Weights())
	assert.Equal(t, 0.25, lr.Bias())
	assert.False(t, lr.IsFitted())

	pred, err := lr.Predict([]float64{1})
	assert.True(t, math.IsNaN(pred))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestLinearRegression_Predict(t *testing.T) {
	t.Run("untrained returns NaN", func(t *testing.T) {
		lr, err := NewLinearRegression(1)
		require.NoError(t, err)

		pred, err := lr.Predict([]float64{1})
		assert.True(t, math.IsNaN(pred))
		var nf *errors.NotFittedError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "Predict", nf.Method)
	})

	t.Run("nil model returns NaN", func(t *testing.T) {
		var lr *LinearRegression
		pred, err := lr.Predict([]float64{1})
		assert.True(t, math.IsNaN(pred))
		assert.Error(t, err)
	})

	t.Run("wrong length", func(t *testing.T) {
		lr := newTrainedDouble(t, 100)
		pred, err := lr.Predict([]float64{1, 2})
		assert.True(t, math.IsNaN(pred))
		var de *errors.DimensionError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 1, de.Expected)
		assert.Equal(t, 2, de.Got)
	})

	t.Run("nil input", func(t *testing.T) {
		lr := newTrainedDouble(t, 100)
		pred, err := lr.Predict(nil)
		assert.True(t, math.IsNaN(pred))
		var ve *errors.ValueError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("repeated predictions are identical", func(t *testing.T) {
		lr := newTrainedDouble(t, 2000)
		a, err := lr.Predict([]float64{3.7})
		require.NoError(t, err)
		b, err := lr.Predict([]float64{3.7})
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(a), math.Float64bits(b))
	})

	t.Run("zero features", func(t *testing.T) {
		// 特徴量0個のモデルは目的変数の平均に近づく切片だけを学習する
		lr, err := NewLinearRegression(0)
		require.NoError(t, err)
		cfg := model.TrainingConfig{LearningRate: 0.5, NumIterations: 200, EarlyStoppingThreshold: 0}
		require.NoError(t, lr.Train(nil, []float64{1, 3}, 2, cfg))

		pred, err := lr.Predict([]float64{})
		require.NoError(t, err)
		assert.InDelta(t, 2.0, pred, 1e-9)
	})
}

func TestLinearRegression_Destroy(t *testing.T) {
	lr := newTrainedDouble(t, 100)
	lr.Destroy()

	assert.Nil(t, lr.Weights())
	assert.False(t, lr.IsFitted())

	pred, err := lr.Predict([]float64{1})
	assert.True(t, math.IsNaN(pred))
	assert.Error(t, err)

	err = lr.Train(doubleX, doubleY, 5, model.DefaultTrainingConfig())
	assert.True(t, errors.Is(err, errors.ErrWeightsReleased))

	// 二重解放とnilレシーバは安全
	assert.NotPanics(t, func() { lr.Destroy() })
	var nilModel *LinearRegression
	assert.NotPanics(t, func() { nilModel.Destroy() })
}

func TestNewLinearRegression_NegativeFeatures(t *testing.T) {
	lr, err := NewLinearRegression(-1)
	assert.Nil(t, lr)
	var ve *errors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "num_features", ve.ParamName)
}

func TestLinearRegression_FitAndScore(t *testing.T) {
	cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 5000, EarlyStoppingThreshold: 1e-6}
	lr, err := NewLinearRegression(1, WithTrainingConfig(cfg))
	require.NoError(t, err)

	X := mat.NewDense(5, 1, doubleX)
	y := mat.NewDense(5, 1, doubleY)
	require.NoError(t, lr.Fit(X, y))

	preds, err := lr.PredictMatrix(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, doubleY, preds.RawVector().Data, 1e-3)

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-6)

	t.Run("dimension mismatch", func(t *testing.T) {
		err := lr.Fit(mat.NewDense(5, 2, nil), y)
		var de *errors.DimensionError
		assert.True(t, errors.As(err, &de))

		_, err = lr.PredictMatrix(mat.NewDense(2, 3, nil))
		assert.True(t, errors.As(err, &de))
	})

	t.Run("y must be a column", func(t *testing.T) {
		err := lr.Fit(X, mat.NewDense(5, 2, nil))
		var ve *errors.ValueError
		assert.True(t, errors.As(err, &ve))
	})
}

func TestLinearRegression_Params(t *testing.T) {
	lr := newTrainedDouble(t, 2000)
	params := lr.Params()
	assert.Equal(t, "LinearRegression", params.ModelType)
	assert.True(t, params.IsFitted)
	assert.Equal(t, 2000, params.StoppingIteration)

	// 返されたスナップショットを変更してもモデルに影響しない
	params.Coefficients[0] = 100
	assert.NotEqual(t, 100.0, lr.Weights()[0])

	restored, err := NewLinearRegression(1)
	require.NoError(t, err)
	seed := lr.Params()
	require.NoError(t, restored.SetParams(seed))
	a, _ := lr.Predict([]float64{6})
	b, _ := restored.Predict([]float64{6})
	assert.Equal(t, a, b)

	// SetParams は渡されたスナップショットを共有しない
	seed.Coefficients[0] = -7
	b, _ = restored.Predict([]float64{6})
	assert.Equal(t, a, b)
	assert.Equal(t, lr.Weights(), restored.Weights())

	t.Run("invalid", func(t *testing.T) {
		assert.Error(t, restored.SetParams(nil))
		assert.Error(t, restored.SetParams(&model.ModelWeights{ModelType: "LogisticRegression", Coefficients: []float64{1}}))
		assert.Error(t, restored.SetParams(&model.ModelWeights{ModelType: "LinearRegression", Coefficients: []float64{1, 2}}))
	})
}

func TestLinearRegression_Logging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	lr, err := NewLinearRegression(1, WithLogger(logger))
	require.NoError(t, err)

	cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 10, EarlyStoppingThreshold: 0}
	require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))

	assert.True(t, logger.ContainsMessage("Training started"))
	assert.True(t, logger.ContainsMessage("Training completed"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "LinearRegression"))
	assert.True(t, logger.ContainsField(log.SamplesKey, float64(5)))
	assert.True(t, logger.ContainsField(log.IterationKey, float64(10)))

	logger.Clear()
	_, _ = lr.Predict([]float64{1, 2})
	assert.True(t, logger.ContainsMessage("Prediction rejected"))
	assert.True(t, logger.ContainsField(log.OperationKey, log.OperationPredict))
}

func TestLinearRegression_ConvergenceWarning(t *testing.T) {
	prev := log.GetLogger()
	t.Cleanup(func() { log.SetLogger(prev) })
	global, _ := log.NewTestLogger(log.LevelWarn)
	log.SetLogger(global)

	t.Run("emitted when iterations run out", func(t *testing.T) {
		global.Clear()
		newTrainedDouble(t, 50)
		assert.True(t, global.ContainsMessage("failed to converge after 50 iterations"))
	})

	t.Run("not emitted on early stop", func(t *testing.T) {
		global.Clear()
		lr, err := NewLinearRegression(1)
		require.NoError(t, err)
		cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 50, EarlyStoppingThreshold: 1e300}
		require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))
		assert.False(t, global.ContainsMessage("failed to converge"))
	})

	t.Run("not emitted without a threshold", func(t *testing.T) {
		global.Clear()
		lr, err := NewLinearRegression(1)
		require.NoError(t, err)
		cfg := model.TrainingConfig{LearningRate: 0.01, NumIterations: 50, EarlyStoppingThreshold: 0}
		require.NoError(t, lr.Train(doubleX, doubleY, 5, cfg))
		assert.False(t, global.ContainsMessage("failed to converge"))
	})
}
