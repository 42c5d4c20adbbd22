package model

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/YuminosukeSato/mllib/pkg/errors"
)

// TrainingConfig は勾配降下法の学習設定
// 学習中は変更されない（Trainには値渡しされる）
type TrainingConfig struct {
	// LearningRate は各更新のステップ幅（正の有限値）
	LearningRate float64 `json:"learning_rate" toml:"learning_rate"`
	// NumIterations は学習ラウンドの上限。0の場合パラメータは更新されない
	NumIterations int `json:"num_iterations" toml:"num_iterations"`
	// EarlyStoppingThreshold は連続する平均損失の差に対する早期停止の閾値
	EarlyStoppingThreshold float64 `json:"early_stopping_threshold" toml:"early_stopping_threshold"`
	// ClassificationThreshold はロジスティック回帰のクラス判定境界（[0,1]）
	ClassificationThreshold float64 `json:"classification_threshold" toml:"classification_threshold"`
}

// DefaultTrainingConfig はデフォルトの学習設定を返す
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		LearningRate:            0.01,
		NumIterations:           1000,
		EarlyStoppingThreshold:  1e-6,
		ClassificationThreshold: 0.5,
	}
}

// Validate は設定値を検証する
func (c TrainingConfig) Validate() error {
	if !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0) {
		return errors.NewValidationError("learning_rate", "must be a positive finite number", c.LearningRate)
	}
	if c.NumIterations < 0 {
		return errors.NewValidationError("num_iterations", "must not be negative", c.NumIterations)
	}
	if !(c.EarlyStoppingThreshold >= 0) {
		return errors.NewValidationError("early_stopping_threshold", "must be zero or positive", c.EarlyStoppingThreshold)
	}
	if !(c.ClassificationThreshold >= 0 && c.ClassificationThreshold <= 1) {
		return errors.NewValidationError("classification_threshold", "must lie in [0, 1]", c.ClassificationThreshold)
	}
	return nil
}

// LoadTrainingConfigTOML はTOMLから学習設定を読み込む
// 指定されなかったキーはデフォルト値のまま残る
//
//	learning_rate = 0.1
//	num_iterations = 500
//	early_stopping_threshold = 1e-4
//	classification_threshold = 0.5
func LoadTrainingConfigTOML(r io.Reader) (TrainingConfig, error) {
	cfg := DefaultTrainingConfig()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return TrainingConfig{}, errors.Wrap(err, "decode training config (toml)")
	}
	if err := cfg.Validate(); err != nil {
		return TrainingConfig{}, err
	}
	return cfg, nil
}

// LoadTrainingConfigJSON はJSONから学習設定を読み込む
func LoadTrainingConfigJSON(r io.Reader) (TrainingConfig, error) {
	cfg := DefaultTrainingConfig()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return TrainingConfig{}, errors.Wrap(err, "decode training config (json)")
	}
	if err := cfg.Validate(); err != nil {
		return TrainingConfig{}, err
	}
	return cfg, nil
}

// LoadTrainingConfigFile は拡張子（.toml / .json）に応じて設定ファイルを読み込む
func LoadTrainingConfigFile(path string) (TrainingConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return TrainingConfig{}, errors.Wrapf(err, "open training config %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTrainingConfigTOML(f)
	case ".json":
		return LoadTrainingConfigJSON(f)
	default:
		return TrainingConfig{}, errors.NewValueError("LoadTrainingConfigFile", "unsupported config extension: "+filepath.Ext(path))
	}
}
