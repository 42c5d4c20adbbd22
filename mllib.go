package mllib

import (
	"fmt"
	"math"
	"strings"

	"github.com/YuminosukeSato/mllib/core/model"
	"github.com/YuminosukeSato/mllib/linear"
	"github.com/YuminosukeSato/mllib/pkg/errors"
	"github.com/YuminosukeSato/mllib/pkg/log"
)

// Kind selects the estimator a Model wraps.
type Kind int

const (
	// Linear is ordinary least-squares regression.
	Linear Kind = iota
	// Logistic is binary logistic regression.
	Logistic
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Logistic:
		return "logistic"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts "linear" or "logistic" (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return Linear, nil
	case "logistic":
		return Logistic, nil
	default:
		return 0, errors.Wrapf(errors.ErrUnknownKind, "parse %q", s)
	}
}

// TrainingConfig is re-exported so callers of the facade need not import core/model.
type TrainingConfig = model.TrainingConfig

// DefaultTrainingConfig returns learning rate 0.01, 1000 iterations,
// early-stopping threshold 1e-6 and classification threshold 0.5.
func DefaultTrainingConfig() TrainingConfig {
	return model.DefaultTrainingConfig()
}

// Model is a closed union over the supported estimators. Exactly one of the
// estimator fields is non-nil, chosen by kind.
type Model struct {
	kind     Kind
	linear   *linear.LinearRegression
	logistic *linear.LogisticRegression
	logger   log.Logger
}

// New creates a Model of the given kind with numFeatures zero-initialised weights.
func New(kind Kind, numFeatures int, opts ...linear.Option) (*Model, error) {
	m := &Model{
		kind:   kind,
		logger: log.GetLogger().With(log.ModelKindKey, kind.String(), log.ComponentKey, "mllib"),
	}

	var err error
	switch kind {
	case Linear:
		m.linear, err = linear.NewLinearRegression(numFeatures, opts...)
	case Logistic:
		m.logistic, err = linear.NewLogisticRegression(numFeatures, opts...)
	default:
		return nil, errors.Wrapf(errors.ErrUnknownKind, "mllib.New: %s", kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "mllib.New: create %s model", kind)
	}
	return m, nil
}

// Kind returns the estimator kind chosen at creation, or Linear for a nil Model.
func (m *Model) Kind() Kind {
	if m == nil {
		return Linear
	}
	return m.kind
}

// estimator returns the wrapped estimator, or nil once the Model is destroyed.
func (m *Model) estimator() model.Estimator {
	switch m.kind {
	case Linear:
		if m.linear != nil {
			return m.linear
		}
	case Logistic:
		if m.logistic != nil {
			return m.logistic
		}
	}
	return nil
}

// Train forwards to the wrapped estimator's gradient descent.
func (m *Model) Train(X, y []float64, numSamples int, cfg TrainingConfig) error {
	if m == nil {
		return errors.NewValueError("Model.Train", "model must not be nil")
	}
	est := m.estimator()
	if est == nil {
		return errors.NewModelError("Model.Train", "model released", errors.ErrWeightsReleased)
	}
	return errors.SafeExecute("Model.Train", func() error {
		return est.Train(X, y, numSamples, cfg)
	})
}

// Predict returns the regression output for Linear models and the positive-class
// probability for Logistic models. On failure it returns NaN and an error.
func (m *Model) Predict(x []float64) (pred float64, err error) {
	defer func() {
		if err != nil {
			pred = math.NaN()
		}
	}()
	defer errors.Recover(&err, "Model.Predict")

	if m == nil {
		return math.NaN(), errors.NewNotFittedError("Model", "Predict")
	}
	est := m.estimator()
	if est == nil {
		return math.NaN(), errors.NewNotFittedError("Model("+m.kind.String()+")", "Predict")
	}
	return est.Predict(x)
}

// PredictClass returns 1 when the positive-class probability reaches threshold
// and 0 otherwise. Only Logistic models classify.
func (m *Model) PredictClass(x []float64, threshold float64) (class int, err error) {
	defer errors.Recover(&err, "Model.PredictClass")

	if m == nil {
		return 0, errors.NewNotFittedError("Model", "PredictClass")
	}
	switch m.kind {
	case Logistic:
		if m.logistic == nil {
			return 0, errors.NewNotFittedError("Model(logistic)", "PredictClass")
		}
		return m.logistic.PredictClass(x, threshold)
	default:
		err := errors.NewValueError("Model.PredictClass", "classification requires a logistic model, got "+m.kind.String())
		m.logger.Warn("Classification rejected",
			log.OperationKey, log.OperationPredictClass,
			log.ErrorCodeKey, log.ErrorInvalidInput,
			log.ErrAttrKey, err,
		)
		return 0, err
	}
}

// StoppingIteration reports the iteration at which the last training call stopped.
func (m *Model) StoppingIteration() int {
	if m == nil {
		return 0
	}
	switch m.kind {
	case Linear:
		if m.linear != nil {
			return m.linear.StoppingIteration()
		}
	case Logistic:
		if m.logistic != nil {
			return m.logistic.StoppingIteration()
		}
	}
	return 0
}

// Estimator exposes the wrapped estimator, e.g. for Weights or Fit.
// It returns nil after Destroy.
func (m *Model) Estimator() model.Estimator {
	if m == nil {
		return nil
	}
	return m.estimator()
}

// Destroy releases the wrapped estimator. Calling it on a nil or already
// destroyed Model is a no-op.
func (m *Model) Destroy() {
	if m == nil {
		return
	}
	switch m.kind {
	case Linear:
		m.linear.Destroy()
		m.linear = nil
	case Logistic:
		m.logistic.Destroy()
		m.logistic = nil
	}
}
