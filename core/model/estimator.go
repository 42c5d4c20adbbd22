package model

import "gonum.org/v1/gonum/mat"

// Trainer は勾配降下法で学習可能なモデルのインターフェース
type Trainer interface {
	// Train は行優先の計画行列Xと目的変数yでモデルを学習させる
	Train(X, y []float64, numSamples int, cfg TrainingConfig) error
}

// Predictor は1サンプルに対する予測を行うモデルのインターフェース
type Predictor interface {
	// Predict は特徴量ベクトルxに対する予測値を返す。失敗時はNaNとエラーを返す
	Predict(x []float64) (float64, error)
}

// Fitter は gonum の行列を受け取って学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// LinearModel は線形モデルのインターフェース
type LinearModel interface {
	// Weights は学習された重み（係数）のコピーを返す
	Weights() []float64
	// Bias は学習された切片を返す
	Bias() float64
	// Score はモデルの評価スコアを計算する
	Score(X, y mat.Matrix) (float64, error)
}
