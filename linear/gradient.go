package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/mllib/core/model"
	"github.com/YuminosukeSato/mllib/core/numeric"
	"github.com/YuminosukeSato/mllib/pkg/errors"
)

// objective は勾配降下法で最小化する目的関数を表す
//
// 二乗誤差（恒等リンク）と交差エントロピー（シグモイドリンク）はどちらも
// パラメータに関する勾配が (link(z) - y) * x という同じ形になるため、
// 学習ループは link と loss を差し替えるだけで共有できる。
type objective struct {
	// link は線形予測子 z = b + w·x を出力に写す
	link func(z float64) float64
	// loss はサンプル1件あたりの損失
	loss func(pred, y float64) float64
	// converged は連続する平均損失から早期停止するかを判定する
	converged func(prev, curr, threshold float64) bool
}

var (
	// squaredErrorObjective: 損失は Σerr²/(2n)、早期停止は相対変化で判定
	squaredErrorObjective = objective{
		link:      identity,
		loss:      numeric.SquaredError,
		converged: relativeChangeBelow,
	}

	// crossEntropyObjective: 損失は平均BCE、早期停止は絶対差で判定
	crossEntropyObjective = objective{
		link:      numeric.Sigmoid,
		loss:      numeric.BinaryCrossEntropy,
		converged: absoluteChangeBelow,
	}
)

func identity(z float64) float64 { return z }

// relativeChangeBelow reports |prev-curr|/prev < threshold. Two equal losses
// (including 0 and 0) count as zero change.
func relativeChangeBelow(prev, curr, threshold float64) bool {
	if prev == curr {
		return 0 < threshold
	}
	return math.Abs(prev-curr)/prev < threshold
}

func absoluteChangeBelow(prev, curr, threshold float64) bool {
	return math.Abs(prev-curr) < threshold
}

// descentResult は1回の学習呼び出しの結果
type descentResult struct {
	stoppingIteration int
	earlyStopped      bool
	// loss は最後に評価した平均損失（反復0回の場合はNaN）
	loss float64
}

// gradientDescent はバッチ勾配降下法で weights と bias をその場で更新する。
//
// 各ラウンドでは全サンプルの勾配と平均損失を現在のパラメータで計算し、
// 前ラウンドの損失との比較で早期停止する場合は更新を適用せずに終了する。
// 損失がNaN/Infになった場合はパラメータを呼び出し前の値に戻してエラーを返す。
func gradientDescent(weights []float64, bias *float64, X, y []float64, numSamples int, cfg model.TrainingConfig, obj objective) (descentResult, error) {
	numFeatures := len(weights)
	n := float64(numSamples)

	initialWeights := make([]float64, numFeatures)
	copy(initialWeights, weights)
	initialBias := *bias

	grad := make([]float64, numFeatures)
	prevLoss := math.Inf(1)
	res := descentResult{stoppingIteration: cfg.NumIterations, loss: math.NaN()}

	for iter := 0; iter < cfg.NumIterations; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0
		totalLoss := 0.0

		for i := 0; i < numSamples; i++ {
			row := X[i*numFeatures : (i+1)*numFeatures]
			pred := obj.link(*bias + floats.Dot(weights, row))
			residual := pred - y[i]

			floats.AddScaled(grad, residual, row)
			gradBias += residual
			totalLoss += obj.loss(pred, y[i])
		}

		currLoss := totalLoss / n
		if err := errors.CheckScalar("loss_calculation", currLoss, iter); err != nil {
			copy(weights, initialWeights)
			*bias = initialBias
			res.stoppingIteration = iter
			return res, err
		}
		res.loss = currLoss

		if !math.IsInf(prevLoss, 1) && obj.converged(prevLoss, currLoss, cfg.EarlyStoppingThreshold) {
			res.stoppingIteration = iter
			res.earlyStopped = true
			return res, nil
		}

		floats.AddScaled(weights, -cfg.LearningRate/n, grad)
		*bias -= cfg.LearningRate * gradBias / n
		prevLoss = currLoss
	}

	return res, nil
}

// checkTrainArgs validates Train preconditions without touching the model.
func checkTrainArgs(op string, weights, X, y []float64, numSamples, minSamples int, cfg model.TrainingConfig) error {
	if weights == nil {
		return errors.NewModelError(op, "model released", errors.ErrWeightsReleased)
	}
	numFeatures := len(weights)
	if X == nil && numFeatures > 0 {
		return errors.NewValueError(op, "X must not be nil")
	}
	if y == nil {
		return errors.NewValueError(op, "y must not be nil")
	}
	if numSamples < minSamples {
		return errors.NewModelError(op, fmt.Sprintf("need at least %d samples, got %d", minSamples, numSamples), errors.ErrInsufficientSamples)
	}
	if len(X) < numSamples*numFeatures {
		return errors.NewDimensionError(op, numSamples*numFeatures, len(X), 0)
	}
	if len(y) < numSamples {
		return errors.NewDimensionError(op, numSamples, len(y), 0)
	}
	return cfg.Validate()
}
