package linear

import (
	"github.com/YuminosukeSato/mllib/core/model"
	"github.com/YuminosukeSato/mllib/pkg/log"
)

type options struct {
	logger log.Logger
	config model.TrainingConfig
}

func defaultOptions() options {
	return options{
		logger: log.GetLogger(),
		config: model.DefaultTrainingConfig(),
	}
}

// Option is a function that configures LinearRegression and LogisticRegression
type Option func(*options)

// WithLogger sets the logger used for training and prediction diagnostics
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTrainingConfig sets the configuration used by Fit and PredictMatrix
func WithTrainingConfig(cfg model.TrainingConfig) Option {
	return func(o *options) {
		o.config = cfg
	}
}
