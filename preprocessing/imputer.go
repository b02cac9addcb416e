package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/vitals/core/model"
	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

// MedianImputer fills missing values (NaN cells) with the per-column
// median of the non-missing entries seen during Fit. A column with no
// observed values imputes to 0 and collapses to a constant.
type MedianImputer struct {
	state *model.StateManager

	// Medians holds the per-column fill value learned by Fit.
	Medians []float64

	// NFeatures is the column count the imputer was fitted with.
	NFeatures int
}

// NewMedianImputer creates an unfitted MedianImputer.
func NewMedianImputer() *MedianImputer {
	return &MedianImputer{state: model.NewStateManager()}
}

// IsFitted reports whether Fit has completed.
func (m *MedianImputer) IsFitted() bool { return m.state.IsFitted() }

// Fit computes the median of each column, ignoring NaN entries.
func (m *MedianImputer) Fit(X mat.Matrix) (err error) {
	defer vitalsErrors.Recover(&err, "MedianImputer.Fit")
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return vitalsErrors.NewModelError("MedianImputer.Fit", "empty data", vitalsErrors.ErrEmptyData)
	}

	m.NFeatures = c
	m.Medians = make([]float64, c)

	for j := 0; j < c; j++ {
		values := make([]float64, 0, r)
		for i := 0; i < r; i++ {
			if v := X.At(i, j); !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			m.Medians[j] = 0
			continue
		}
		sort.Float64s(values)
		m.Medians[j] = median(values)
	}

	m.state.SetFitted()
	return nil
}

// median returns the conventional median of a sorted non-empty slice: the
// middle element for odd lengths, the midpoint of the two middle elements
// for even lengths.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Transform returns a copy of X with NaN cells replaced by the fitted
// column medians.
func (m *MedianImputer) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer vitalsErrors.Recover(&err, "MedianImputer.Transform")
	if !m.state.IsFitted() {
		return nil, vitalsErrors.NewNotFittedError("MedianImputer", "Transform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, vitalsErrors.NewDimensionError("MedianImputer.Transform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if math.IsNaN(v) {
				v = m.Medians[j]
			}
			result.Set(i, j, v)
		}
	}
	return result, nil
}

// FitTransform fits the imputer on X and returns the filled copy.
func (m *MedianImputer) FitTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer vitalsErrors.Recover(&err, "MedianImputer.FitTransform")
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}
