// Package model provides the shared estimator plumbing: fitted-state
// tracking and the Transformer/Predictor interfaces every pipeline stage
// is built against.
//
// Estimators hold a StateManager by composition rather than embedding:
//
//	type StandardScaler struct {
//		state *model.StateManager
//		...
//	}
//
// and mark themselves fitted at the end of a successful Fit.
package model

import "gonum.org/v1/gonum/mat"

// EstimatorState represents the learning state of an estimator.
type EstimatorState int

const (
	// NotFitted indicates the estimator has not been trained yet.
	NotFitted EstimatorState = iota
	// Fitted indicates training completed successfully.
	Fitted
)

// StateManager tracks whether an estimator has been fitted.
type StateManager struct {
	state EstimatorState
}

// NewStateManager creates a StateManager in the NotFitted state.
func NewStateManager() *StateManager {
	return &StateManager{state: NotFitted}
}

// IsFitted reports whether the estimator has been fitted.
func (s *StateManager) IsFitted() bool {
	return s.state == Fitted
}

// SetFitted marks the estimator as fitted. Called by estimator
// implementations at the end of a successful Fit, never by callers.
func (s *StateManager) SetFitted() {
	s.state = Fitted
}

// Reset returns the estimator to the untrained state.
func (s *StateManager) Reset() {
	s.state = NotFitted
}

// Transformer is a fitted transformation over a numeric matrix, such as a
// scaler or an imputer.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// Predictor is a fitted supervised model.
type Predictor interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
}
