// Package mllib provides linear and logistic regression trained by batch
// gradient descent, behind a single Model type that hides which estimator is
// in use.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/mllib"
//	)
//
//	func main() {
//	    X := []float64{1, 2, 3, 4, 5} // row-major, one feature per row
//	    y := []float64{2, 4, 6, 8, 10}
//
//	    m, err := mllib.New(mllib.Linear, 1)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer m.Destroy()
//
//	    cfg := mllib.TrainingConfig{LearningRate: 0.01, NumIterations: 2000, EarlyStoppingThreshold: 1e-6}
//	    if err := m.Train(X, y, 5, cfg); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := m.Predict([]float64{6})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("prediction: %.2f\n", pred)
//	}
//
// Prediction failures (an untrained model, a nil or wrong-length input) return
// NaN together with a typed error from pkg/errors; nothing in the library
// panics or exits on bad input.
//
// # Packages
//
//   - linear: LinearRegression and LogisticRegression estimators
//   - core/numeric: sigmoid and per-sample loss functions
//   - core/model: estimator interfaces, TrainingConfig and its TOML/JSON loaders
//   - metrics: regression and classification metrics (R², accuracy, log loss, AUC)
//   - preprocessing: StandardScaler for conditioning features before training
//   - pkg/errors: typed errors and warnings built on cockroachdb/errors
//   - pkg/log: structured logging backed by zerolog
//
// # Logging
//
// Estimators log through the process-wide logger, which writes warnings and
// errors to stderr by default. Use log.Setup("debug", w) to see per-call
// training diagnostics, or linear.WithLogger to give one estimator its own logger.
//
// # Concurrency
//
// A Model is not safe for concurrent use. Separate Models share no state and
// may be trained in parallel.
package mllib
