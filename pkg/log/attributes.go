// Standard attribute keys for estimator logging.
//
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that entries from different estimators can be filtered
// the same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of estimator.
	// Examples: "LinearRegression", "LogisticRegression"
	ModelNameKey = "model.name"

	// ModelKindKey identifies the facade kind the estimator was created for.
	ModelKindKey = "model.kind"

	// OperationKey specifies the operation being performed.
	// Standard values: "train", "predict", "predict_class", "destroy"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the estimator lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Training Progress
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records the average loss of the last evaluated iteration.
	LossKey = "metrics.loss"

	// IterationKey records the iteration at which training stopped.
	IterationKey = "training.iteration"

	// EarlyStoppedKey reports whether training halted on the early-stopping rule.
	EarlyStoppedKey = "training.early_stopped"

	// LearningRateKey records the gradient descent step size.
	LearningRateKey = "hyperparams.learning_rate"

	// MaxIterationsKey records the configured iteration cap.
	MaxIterationsKey = "hyperparams.num_iterations"

	// ThresholdKey records decision thresholds used for classification.
	ThresholdKey = "preds.threshold"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// SuggestionKey provides a hint for resolving the issue.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationTrain        = "train"
	OperationPredict      = "predict"
	OperationPredictClass = "predict_class"
	OperationDestroy      = "destroy"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorNumerical         = "NUMERICAL_INSTABILITY"
)
