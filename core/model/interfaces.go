package model

import "gonum.org/v1/gonum/mat"

// Estimator is the lifecycle shared by every estimator: train, predict, release.
type Estimator interface {
	Trainer
	Predictor

	// Destroy releases the parameter storage. Train fails afterwards.
	Destroy()
}

// Regressor combines interfaces for regression models.
type Regressor interface {
	Estimator
	Fitter
	LinearModel
}

// Classifier combines interfaces for binary classification models.
type Classifier interface {
	Estimator
	Fitter
	LinearModel

	// PredictProba returns the probability of the positive class.
	PredictProba(x []float64) (float64, error)

	// PredictClass returns 1 when the probability reaches threshold, else 0.
	PredictClass(x []float64, threshold float64) (int, error)

	// PredictProbaMatrix returns one probability per row of X.
	PredictProbaMatrix(X mat.Matrix) (*mat.VecDense, error)
}
