package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/mllib/core/model"
	"github.com/YuminosukeSato/mllib/metrics"
	"github.com/YuminosukeSato/mllib/pkg/errors"
	"github.com/YuminosukeSato/mllib/pkg/log"
)

// linearRegressionMinSamples は線形回帰の学習に必要な最小サンプル数
const linearRegressionMinSamples = 2

// LinearRegression は勾配降下法で学習する線形回帰モデル
//
// 予測値は y' = b + w·x、損失は平均二乗誤差の半分 Σ(y'-y)²/(2n)。
// 早期停止は連続する損失の相対変化 |prev-curr|/prev で判定する。
type LinearRegression struct {
	linearModel
}

var _ model.Regressor = (*LinearRegression)(nil)

// NewLinearRegression は特徴量数 numFeatures の線形回帰モデルを作成する
// 重みと切片は0で初期化される
func NewLinearRegression(numFeatures int, opts ...Option) (*LinearRegression, error) {
	m, err := newLinearModel("LinearRegression", numFeatures, opts)
	if err != nil {
		return nil, err
	}
	return &LinearRegression{linearModel: m}, nil
}

// Train は行優先の計画行列 X（numSamples×numFeatures）と目的変数 y で学習する
//
// 前提条件を満たさない場合はモデルを一切変更せずにエラーを返す。
// 学習中に損失がNaN/Infになった場合はパラメータを呼び出し前の値に戻し、
// 未学習状態のままエラーを返す。
func (lr *LinearRegression) Train(X, y []float64, numSamples int, cfg model.TrainingConfig) error {
	if lr == nil {
		return errors.NewValueError("LinearRegression.Train", "model must not be nil")
	}
	return lr.train(X, y, numSamples, linearRegressionMinSamples, cfg, squaredErrorObjective)
}

// Predict は1サンプルの予測値 b + w·x を返す
// 未学習・次元不一致の場合は NaN とエラーを返す
func (lr *LinearRegression) Predict(x []float64) (float64, error) {
	if lr == nil {
		return notFittedNaN("LinearRegression", "Predict")
	}
	return lr.linearPredictor("Predict", x)
}

// Fit は gonum の行列でモデルを学習させる
// 学習設定は生成時に WithTrainingConfig で指定したものを使う
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	if lr == nil {
		return errors.NewValueError("LinearRegression.Fit", "model must not be nil")
	}
	return lr.fit(X, y, linearRegressionMinSamples, squaredErrorObjective)
}

// PredictMatrix は X の各行に対する予測値を返す
func (lr *LinearRegression) PredictMatrix(X mat.Matrix) (*mat.VecDense, error) {
	if lr == nil {
		return nil, errors.NewNotFittedError("LinearRegression", "PredictMatrix")
	}
	return lr.matrixPredictor("PredictMatrix", X, identity)
}

// Score は決定係数 R² を返す
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.PredictMatrix(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()
	if r != pred.Len() {
		return 0, errors.NewDimensionError("LinearRegression.Score", pred.Len(), r, 0)
	}
	return metrics.R2Score(mat.NewVecDense(r, mat.Col(nil, 0, y)), pred)
}

// MSE は X に対する平均二乗誤差を返す
// 学習時の損失 Σerr²/(2n) のちょうど2倍になる
func (lr *LinearRegression) MSE(X, y mat.Matrix) (float64, error) {
	pred, err := lr.PredictMatrix(X)
	if err != nil {
		return 0, err
	}
	return metrics.MSEMatrix(y, pred)
}

// Destroy は重みを解放する。nil に対して呼んでも安全
func (lr *LinearRegression) Destroy() {
	if lr == nil {
		return
	}
	lr.linearModel.Destroy()
}

// String はモデルの概要を返す
func (lr *LinearRegression) String() string {
	if lr == nil || !lr.IsFitted() {
		return "LinearRegression(fitted=false)"
	}
	return formatModel("LinearRegression", &lr.linearModel)
}

func notFittedNaN(name, method string) (float64, error) {
	err := errors.NewNotFittedError(name, method)
	log.GetLogger().Warn("Prediction rejected",
		log.ModelNameKey, name,
		log.OperationKey, log.OperationPredict,
		log.ErrAttrKey, err,
	)
	return math.NaN(), err
}
