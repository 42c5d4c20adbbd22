package model

import "github.com/YuminosukeSato/mllib/pkg/errors"

// ModelWeights は学習済みパラメータのスナップショット
// 推定器の内部状態とは独立したコピーを保持する
type ModelWeights struct {
	// ModelType はモデルの種類（LinearRegression, LogisticRegression）
	ModelType string

	// Coefficients は重み係数
	Coefficients []float64

	// Intercept は切片
	Intercept float64

	// StoppingIteration は学習が停止したイテレーション
	StoppingIteration int

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate(numFeatures int) error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if len(mw.Coefficients) != numFeatures {
		return errors.NewDimensionError("ModelWeights.Validate", numFeatures, len(mw.Coefficients), 1)
	}
	// 非有限のパラメータは予測をすべてNaNにする
	if err := errors.CheckNumericalStability("ModelWeights.Validate", mw.Coefficients, 0); err != nil {
		return err
	}
	if err := errors.CheckScalar("ModelWeights.Validate", mw.Intercept, 0); err != nil {
		return err
	}
	if mw.StoppingIteration < 0 {
		return errors.NewValidationError("stopping_iteration", "must not be negative", mw.StoppingIteration)
	}
	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := *mw
	clone.Coefficients = make([]float64, len(mw.Coefficients))
	copy(clone.Coefficients, mw.Coefficients)
	return &clone
}
