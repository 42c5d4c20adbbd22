// Package numeric provides the scalar transforms and per-sample losses shared
// by the gradient descent estimators.
package numeric

import (
	"math"

	"github.com/YuminosukeSato/mllib/pkg/errors"
)

// Epsilon bounds probabilities away from 0 and 1 before taking logarithms.
const Epsilon = 1e-15

// Sigmoid は数値的に安定なロジスティック関数 1/(1+e^(-z)) を計算する。
// zの符号で分岐し、e^(-z) が大きな負のzでオーバーフローしないようにする。
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1.0 / (1.0 + math.Exp(-z))
	}
	ez := math.Exp(z)
	return ez / (1.0 + ez)
}

// BinaryCrossEntropy は確率pとラベルy∈{0,1}の二値交差エントロピーを返す。
// pは log(0) を避けるため [Epsilon, 1-Epsilon] にクリップされる。
func BinaryCrossEntropy(p, y float64) float64 {
	p = errors.ClipValue(p, Epsilon, 1-Epsilon)
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}

// SquaredError returns half the squared residual, the per-sample term of the
// mean-squared-error loss minimized by linear regression.
func SquaredError(pred, y float64) float64 {
	d := pred - y
	return d * d / 2
}
