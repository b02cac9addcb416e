// Package preprocessing implements the feature-preparation stages of the
// survival pipeline: median imputation, one-hot encoding, train/test
// splitting and standardization.
//
// All components follow the Fit/Transform estimator pattern: Fit learns
// statistics from a reference (training) set and Transform applies them
// unchanged to any compatible input. Fitting on the training partition
// only is what keeps test-set statistics from leaking into the model.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/vitals/core/model"
	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

// StandardScaler standardizes features to zero mean and unit variance
// using statistics from the data it was fitted on.
type StandardScaler struct {
	state *model.StateManager

	// Mean holds the per-feature mean learned by Fit.
	Mean []float64

	// Scale holds the per-feature standard deviation learned by Fit.
	// Near-constant features get a scale of 1 so they pass through
	// centered instead of dividing by zero.
	Scale []float64

	// NFeatures is the column count the scaler was fitted with.
	NFeatures int

	// WithMean controls whether Transform subtracts the mean.
	WithMean bool

	// WithStd controls whether Transform divides by the deviation.
	WithStd bool
}

// NewStandardScaler creates a StandardScaler with explicit centering and
// scaling behavior.
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault creates a StandardScaler that both centers and
// scales, the standard z-score transform.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// IsFitted reports whether Fit has completed.
func (s *StandardScaler) IsFitted() bool { return s.state.IsFitted() }

// Fit computes per-column mean and standard deviation from X.
func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
	defer vitalsErrors.Recover(&err, "StandardScaler.Fit")
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return vitalsErrors.NewModelError("StandardScaler.Fit", "empty data", vitalsErrors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		if s.WithMean {
			sum := 0.0
			for i := 0; i < r; i++ {
				sum += X.At(i, j)
			}
			s.Mean[j] = sum / float64(r)
		}

		if s.WithStd {
			sumSquares := 0.0
			for i := 0; i < r; i++ {
				diff := X.At(i, j) - s.Mean[j]
				sumSquares += diff * diff
			}
			s.Scale[j] = math.Sqrt(sumSquares / float64(r))
			if math.Abs(s.Scale[j]) < 1e-8 {
				s.Scale[j] = 1.0
			}
		} else {
			s.Scale[j] = 1.0
		}
	}

	s.state.SetFitted()
	return nil
}

// Transform applies (x - mean) / scale using the fitted statistics.
func (s *StandardScaler) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer vitalsErrors.Recover(&err, "StandardScaler.Transform")
	if !s.state.IsFitted() {
		return nil, vitalsErrors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, vitalsErrors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return result, nil
}

// FitTransform fits the scaler on X and returns the transformed X.
func (s *StandardScaler) FitTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer vitalsErrors.Recover(&err, "StandardScaler.FitTransform")
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer vitalsErrors.Recover(&err, "StandardScaler.InverseTransform")
	if !s.state.IsFitted() {
		return nil, vitalsErrors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, vitalsErrors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}
	return result, nil
}

// String returns a short description of the scaler configuration.
func (s *StandardScaler) String() string {
	if !s.state.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}
