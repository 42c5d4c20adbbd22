package model

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// BaseEstimator は全てのモデルの基底となる構造体
// 学習済みフラグと、直近の学習が停止したイテレーションを保持する
type BaseEstimator struct {
	state             EstimatorState
	stoppingIteration int
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
	e.stoppingIteration = 0
}

// StoppingIteration は直近の学習が停止したイテレーションを返す
// 早期停止しなかった場合は設定された最大反復回数になる
func (e *BaseEstimator) StoppingIteration() int {
	return e.stoppingIteration
}

// SetStoppingIteration は学習の停止イテレーションを記録する
func (e *BaseEstimator) SetStoppingIteration(iter int) {
	e.stoppingIteration = iter
}
