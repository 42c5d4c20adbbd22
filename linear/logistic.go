package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/mllib/core/model"
	"github.com/YuminosukeSato/mllib/core/numeric"
	"github.com/YuminosukeSato/mllib/metrics"
	"github.com/YuminosukeSato/mllib/pkg/errors"
	"github.com/YuminosukeSato/mllib/pkg/log"
)

// logisticRegressionMinSamples は1件から学習できる
const logisticRegressionMinSamples = 1

// LogisticRegression は勾配降下法で学習する二値ロジスティック回帰モデル
//
// 予測値は陽性クラスの確率 σ(b + w·x)、損失は平均二値交差エントロピー。
// 早期停止は連続する損失の絶対差で判定する。
type LogisticRegression struct {
	linearModel
}

var _ model.Classifier = (*LogisticRegression)(nil)

// NewLogisticRegression は特徴量数 numFeatures のロジスティック回帰モデルを作成する
func NewLogisticRegression(numFeatures int, opts ...Option) (*LogisticRegression, error) {
	m, err := newLinearModel("LogisticRegression", numFeatures, opts)
	if err != nil {
		return nil, err
	}
	return &LogisticRegression{linearModel: m}, nil
}

// Train は行優先の計画行列 X と {0,1} のラベル y で学習する
// y は検証しない（0/1以外の値もそのまま損失と勾配に使われる）
func (lg *LogisticRegression) Train(X, y []float64, numSamples int, cfg model.TrainingConfig) error {
	if lg == nil {
		return errors.NewValueError("LogisticRegression.Train", "model must not be nil")
	}
	return lg.train(X, y, numSamples, logisticRegressionMinSamples, cfg, crossEntropyObjective)
}

// Predict は陽性クラスの確率を返す（PredictProba と同じ）
func (lg *LogisticRegression) Predict(x []float64) (float64, error) {
	return lg.PredictProba(x)
}

// PredictProba は陽性クラスの確率 σ(b + w·x) を返す。結果は常に [0,1]
func (lg *LogisticRegression) PredictProba(x []float64) (float64, error) {
	if lg == nil {
		return notFittedNaN("LogisticRegression", "PredictProba")
	}
	z, err := lg.linearPredictor("PredictProba", x)
	if err != nil {
		return math.NaN(), err
	}
	return numeric.Sigmoid(z), nil
}

// PredictClass は確率が threshold 以上なら1、そうでなければ0を返す
// 失敗時は 0 とエラーを返す
//
// threshold は確率と比較するため [0, 1] に限る。範囲外やNaNは予測せずに
// ValidationError を返す（比較だけなら常に0か1になる値も拒否する）。
func (lg *LogisticRegression) PredictClass(x []float64, threshold float64) (int, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return 0, errors.NewValidationError("threshold", "must be in [0, 1]", threshold)
	}
	p, err := lg.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if p >= threshold {
		return 1, nil
	}
	return 0, nil
}

// PredictProbaMatrix は X の各行に対する陽性クラスの確率を返す
func (lg *LogisticRegression) PredictProbaMatrix(X mat.Matrix) (*mat.VecDense, error) {
	if lg == nil {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProbaMatrix")
	}
	return lg.matrixPredictor("PredictProbaMatrix", X, numeric.Sigmoid)
}

// PredictMatrix は X の各行に対するクラス（0 または 1）を返す
// 閾値は生成時の学習設定の ClassificationThreshold を使う
func (lg *LogisticRegression) PredictMatrix(X mat.Matrix) (*mat.VecDense, error) {
	proba, err := lg.PredictProbaMatrix(X)
	if err != nil {
		return nil, err
	}
	threshold := lg.config.ClassificationThreshold
	lg.logger.Debug("Classifying rows",
		log.OperationKey, log.OperationPredictClass,
		log.PhaseKey, log.PhaseInference,
		log.SamplesKey, proba.Len(),
		log.ThresholdKey, threshold,
	)
	classes := mat.NewVecDense(proba.Len(), nil)
	for i := 0; i < proba.Len(); i++ {
		if proba.AtVec(i) >= threshold {
			classes.SetVec(i, 1)
		}
	}
	return classes, nil
}

// Fit は gonum の行列でモデルを学習させる
func (lg *LogisticRegression) Fit(X, y mat.Matrix) error {
	if lg == nil {
		return errors.NewValueError("LogisticRegression.Fit", "model must not be nil")
	}
	return lg.fit(X, y, logisticRegressionMinSamples, crossEntropyObjective)
}

// Score は正解率（accuracy）を返す
func (lg *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lg.PredictMatrix(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()
	if r != pred.Len() {
		return 0, errors.NewDimensionError("LogisticRegression.Score", pred.Len(), r, 0)
	}
	return metrics.Accuracy(mat.NewVecDense(r, mat.Col(nil, 0, y)), pred)
}

// LogLoss は X に対する予測確率の平均二値交差エントロピーを返す
// 学習時の損失と同じ定義なので LastLoss と直接比較できる
func (lg *LogisticRegression) LogLoss(X, y mat.Matrix) (float64, error) {
	proba, err := lg.PredictProbaMatrix(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()
	if r != proba.Len() {
		return 0, errors.NewDimensionError("LogisticRegression.LogLoss", proba.Len(), r, 0)
	}
	return metrics.BinaryLogLoss(mat.NewVecDense(r, mat.Col(nil, 0, y)), proba)
}

// AUC は予測確率のROC曲線下面積を返す
func (lg *LogisticRegression) AUC(X, y mat.Matrix) (float64, error) {
	proba, err := lg.PredictProbaMatrix(X)
	if err != nil {
		return 0, err
	}
	return metrics.AUCMatrix(y, proba)
}

// Destroy は重みを解放する。nil に対して呼んでも安全
func (lg *LogisticRegression) Destroy() {
	if lg == nil {
		return
	}
	lg.linearModel.Destroy()
}

func (lg *LogisticRegression) String() string {
	if lg == nil || !lg.IsFitted() {
		return "LogisticRegression(fitted=false)"
	}
	return formatModel("LogisticRegression", &lg.linearModel)
}
