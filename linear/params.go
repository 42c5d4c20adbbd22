package linear

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/mllib/core/model"
	"github.com/YuminosukeSato/mllib/pkg/errors"
	"github.com/YuminosukeSato/mllib/pkg/log"
)

// linearModel は線形回帰とロジスティック回帰が共有するパラメータと状態
// 重みの長さは生成時の特徴量数から変わらない（Destroy後はnil）
type linearModel struct {
	model.BaseEstimator

	name        string
	numFeatures int
	weights     []float64
	bias        float64
	lastLoss    float64

	config model.TrainingConfig
	logger log.Logger
}

func newLinearModel(name string, numFeatures int, opts []Option) (linearModel, error) {
	if numFeatures < 0 {
		return linearModel{}, errors.NewValidationError("num_features", "must not be negative", numFeatures)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return linearModel{
		name:        name,
		numFeatures: numFeatures,
		weights:     make([]float64, numFeatures),
		lastLoss:    math.NaN(),
		config:      o.config,
		logger:      o.logger.With(log.ModelNameKey, name, log.FeaturesKey, numFeatures),
	}, nil
}

// train runs gradient descent after validating every precondition. On a
// rejected call the model is left exactly as it was.
func (m *linearModel) train(X, y []float64, numSamples, minSamples int, cfg model.TrainingConfig, obj objective) error {
	op := m.name + ".Train"
	if err := checkTrainArgs(op, m.weights, X, y, numSamples, minSamples, cfg); err != nil {
		m.logger.Warn("Training rejected",
			log.OperationKey, log.OperationTrain,
			log.SamplesKey, numSamples,
			log.ErrAttrKey, err,
		)
		return err
	}

	m.Reset()
	m.logger.Debug("Training started",
		log.OperationKey, log.OperationTrain,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, numSamples,
		log.LearningRateKey, cfg.LearningRate,
		log.MaxIterationsKey, cfg.NumIterations,
	)
	start := time.Now()

	res, err := gradientDescent(m.weights, &m.bias, X, y, numSamples, cfg, obj)
	m.SetStoppingIteration(res.stoppingIteration)
	if err != nil {
		m.logger.Error("Training diverged",
			log.OperationKey, log.OperationTrain,
			log.IterationKey, res.stoppingIteration,
			log.ErrorCodeKey, log.ErrorNumerical,
			log.SuggestionKey, "decrease the learning rate or scale the features",
			log.ErrAttrKey, err,
		)
		return errors.NewModelError(op, "numerical instability", err)
	}

	m.lastLoss = res.loss
	m.SetFitted()

	if !res.earlyStopped && cfg.NumIterations > 0 && cfg.EarlyStoppingThreshold > 0 {
		errors.Warn(errors.NewConvergenceWarning(m.name, cfg.NumIterations, ""))
	}
	m.logger.Debug("Training completed",
		log.OperationKey, log.OperationTrain,
		log.IterationKey, res.stoppingIteration,
		log.EarlyStoppedKey, res.earlyStopped,
		log.LossKey, res.loss,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// linearPredictor returns b + w·x after checking the prediction preconditions.
func (m *linearModel) linearPredictor(method string, x []float64) (float64, error) {
	var err error
	switch {
	case !m.IsFitted():
		err = errors.NewNotFittedError(m.name, method)
	case x == nil && m.numFeatures > 0:
		err = errors.NewValueError(m.name+"."+method, "feature vector must not be nil")
	case len(x) != m.numFeatures:
		err = errors.NewDimensionError(m.name+"."+method, m.numFeatures, len(x), 1)
	}
	if err != nil {
		m.logger.Warn("Prediction rejected",
			log.OperationKey, log.OperationPredict,
			log.ErrAttrKey, err,
		)
		return math.NaN(), err
	}
	return m.bias + floats.Dot(m.weights, x), nil
}

// matrixPredictor applies linearPredictor to every row of X and maps the
// result through link.
func (m *linearModel) matrixPredictor(method string, X mat.Matrix, link func(float64) float64) (*mat.VecDense, error) {
	r, c := X.Dims()
	if c != m.numFeatures {
		return nil, errors.NewDimensionError(m.name+"."+method, m.numFeatures, c, 1)
	}
	if r == 0 {
		return nil, errors.NewModelError(m.name+"."+method, "empty data", errors.ErrEmptyData)
	}
	out := mat.NewVecDense(r, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		z, err := m.linearPredictor(method, row)
		if err != nil {
			return nil, err
		}
		out.SetVec(i, link(z))
	}
	return out, nil
}

// fit flattens gonum matrices into the row-major layout Train expects and
// trains with the configuration given at construction.
func (m *linearModel) fit(X, y mat.Matrix, minSamples int, obj objective) error {
	op := m.name + ".Fit"
	r, c := X.Dims()
	ry, cy := y.Dims()
	if r == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if c != m.numFeatures {
		return errors.NewDimensionError(op, m.numFeatures, c, 1)
	}
	if ry != r {
		return errors.NewDimensionError(op, r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError(op, "y must be a column vector")
	}

	data := make([]float64, 0, r*c)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		data = append(data, row...)
	}
	target := mat.Col(nil, 0, y)

	return m.train(data, target, r, minSamples, m.config, obj)
}

// Weights は学習された重みのコピーを返す（Destroy後はnil）
func (m *linearModel) Weights() []float64 {
	if m.weights == nil {
		return nil
	}
	w := make([]float64, len(m.weights))
	copy(w, m.weights)
	return w
}

// Bias は切片を返す
func (m *linearModel) Bias() float64 {
	return m.bias
}

// NumFeatures は生成時に指定された特徴量数を返す
func (m *linearModel) NumFeatures() int {
	return m.numFeatures
}

// LastLoss は直近の学習で最後に評価した平均損失を返す（未評価ならNaN）
func (m *linearModel) LastLoss() float64 {
	return m.lastLoss
}

// Config はFitで使われる学習設定を返す
func (m *linearModel) Config() model.TrainingConfig {
	return m.config
}

// Params は現在のパラメータのスナップショットを返す
func (m *linearModel) Params() *model.ModelWeights {
	current := model.ModelWeights{
		ModelType:         m.name,
		Coefficients:      m.weights,
		Intercept:         m.bias,
		StoppingIteration: m.StoppingIteration(),
		IsFitted:          m.IsFitted(),
	}
	return current.Clone()
}

// SetParams はスナップショットからパラメータを復元する（ウォームスタート用）
func (m *linearModel) SetParams(params *model.ModelWeights) error {
	op := m.name + ".SetParams"
	if m.weights == nil {
		return errors.NewModelError(op, "model released", errors.ErrWeightsReleased)
	}
	if params == nil {
		return errors.NewValueError(op, "params must not be nil")
	}
	if params.ModelType != m.name {
		return errors.NewValueError(op, "params belong to "+params.ModelType)
	}
	if err := params.Validate(m.numFeatures); err != nil {
		return errors.NewModelError(op, "invalid params", err)
	}

	snapshot := params.Clone()
	m.weights = snapshot.Coefficients
	m.bias = snapshot.Intercept
	m.Reset()
	m.SetStoppingIteration(snapshot.StoppingIteration)
	if snapshot.IsFitted {
		m.SetFitted()
	}
	return nil
}

// Destroy は重みを解放し、モデルを未学習状態に戻す
// 以降のTrainは失敗し、Predictは未学習エラーになる
func (m *linearModel) Destroy() {
	m.weights = nil
	m.bias = 0
	m.lastLoss = math.NaN()
	m.Reset()
	m.logger.Debug("Model destroyed", log.OperationKey, log.OperationDestroy)
}

func formatModel(name string, m *linearModel) string {
	return fmt.Sprintf("%s(n_features=%d, weights=%v, bias=%.6g, stopping_iteration=%d)",
		name, m.numFeatures, m.weights, m.bias, m.StoppingIteration())
}
