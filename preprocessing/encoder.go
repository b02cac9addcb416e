package preprocessing

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/vitals/core/model"
	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

// OneHotEncoder expands categorical string features into one indicator
// column per category observed during Fit.
//
// A category seen at Transform time but not during Fit produces all-zero
// indicators for that feature. This is the schema-alignment contract for
// prediction-time inputs: unseen levels are never an error, they simply
// carry no signal.
type OneHotEncoder struct {
	state *model.StateManager

	// Categories holds the sorted category list per input feature.
	Categories [][]string

	// CategoryToIdx maps category to indicator offset per input feature.
	CategoryToIdx []map[string]int

	// NFeatures is the number of input string features.
	NFeatures int

	// NOutputs is the total number of indicator columns.
	NOutputs int
}

// NewOneHotEncoder creates an unfitted OneHotEncoder.
func NewOneHotEncoder() *OneHotEncoder {
	return &OneHotEncoder{state: model.NewStateManager()}
}

// IsFitted reports whether Fit has completed.
func (e *OneHotEncoder) IsFitted() bool { return e.state.IsFitted() }

// Fit collects the distinct categories of each feature from data, where
// data is n_samples rows of n_features strings.
func (e *OneHotEncoder) Fit(data [][]string) (err error) {
	defer vitalsErrors.Recover(&err, "OneHotEncoder.Fit")
	if len(data) == 0 || len(data[0]) == 0 {
		return vitalsErrors.NewModelError("OneHotEncoder.Fit", "empty data", vitalsErrors.ErrEmptyData)
	}

	nFeatures := len(data[0])
	for i, row := range data {
		if len(row) != nFeatures {
			return vitalsErrors.NewDimensionError("OneHotEncoder.Fit", nFeatures, len(row), i)
		}
	}

	e.NFeatures = nFeatures
	e.Categories = make([][]string, nFeatures)
	e.CategoryToIdx = make([]map[string]int, nFeatures)
	e.NOutputs = 0

	for j := 0; j < nFeatures; j++ {
		seen := make(map[string]bool)
		for i := range data {
			seen[data[i][j]] = true
		}

		categories := make([]string, 0, len(seen))
		for category := range seen {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		e.Categories[j] = categories

		toIdx := make(map[string]int, len(categories))
		for idx, category := range categories {
			toIdx[category] = idx
		}
		e.CategoryToIdx[j] = toIdx
		e.NOutputs += len(categories)
	}

	e.state.SetFitted()
	return nil
}

// Transform one-hot encodes data using the categories learned by Fit.
// Unknown categories leave their feature's indicator block all zero.
func (e *OneHotEncoder) Transform(data [][]string) (_ mat.Matrix, err error) {
	defer vitalsErrors.Recover(&err, "OneHotEncoder.Transform")
	if !e.state.IsFitted() {
		return nil, vitalsErrors.NewNotFittedError("OneHotEncoder", "Transform")
	}

	if len(data) == 0 {
		return nil, vitalsErrors.NewModelError("OneHotEncoder.Transform", "empty data", vitalsErrors.ErrEmptyData)
	}
	if len(data[0]) != e.NFeatures {
		return nil, vitalsErrors.NewDimensionError("OneHotEncoder.Transform", e.NFeatures, len(data[0]), 1)
	}

	result := mat.NewDense(len(data), e.NOutputs, nil)
	for i := range data {
		offset := 0
		for j := 0; j < e.NFeatures; j++ {
			if idx, known := e.CategoryToIdx[j][data[i][j]]; known {
				result.Set(i, offset+idx, 1.0)
			}
			offset += len(e.Categories[j])
		}
	}
	return result, nil
}

// FitTransform fits the encoder on data and returns the encoded matrix.
func (e *OneHotEncoder) FitTransform(data [][]string) (_ mat.Matrix, err error) {
	defer vitalsErrors.Recover(&err, "OneHotEncoder.FitTransform")
	if err := e.Fit(data); err != nil {
		return nil, err
	}
	return e.Transform(data)
}

// FeatureNamesOut returns one name per indicator column, formed as
// "<feature>=<category>". inputFeatures may be nil, in which case
// placeholder names x0, x1, ... are used.
func (e *OneHotEncoder) FeatureNamesOut(inputFeatures []string) []string {
	if !e.state.IsFitted() {
		return nil
	}

	names := make([]string, 0, e.NOutputs)
	for j, categories := range e.Categories {
		feature := fmt.Sprintf("x%d", j)
		if inputFeatures != nil && j < len(inputFeatures) {
			feature = inputFeatures[j]
		}
		for _, category := range categories {
			names = append(names, fmt.Sprintf("%s=%s", feature, category))
		}
	}
	return names
}
