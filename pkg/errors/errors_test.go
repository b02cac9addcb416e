package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vitalsErrors "github.com/ezoic/vitals/pkg/errors"
)

func TestDimensionError_Chain(t *testing.T) {
	dimErr := vitalsErrors.NewDimensionError("Transform", 5, 3, 1)
	wrapped := fmt.Errorf("preprocessing failed: %w", dimErr)

	var target *vitalsErrors.DimensionError
	require.True(t, stderrors.As(wrapped, &target))
	assert.Equal(t, 5, target.Expected)
	assert.Equal(t, 3, target.Got)
	assert.True(t, stderrors.Is(wrapped, vitalsErrors.ErrDimensionMismatch))
}

func TestNotFittedError_Chain(t *testing.T) {
	err := vitalsErrors.NewNotFittedError("LogisticRegression", "Predict")

	var target *vitalsErrors.NotFittedError
	require.True(t, stderrors.As(err, &target))
	assert.Equal(t, "LogisticRegression", target.ModelName)
	assert.Equal(t, "Predict", target.Method)
	assert.True(t, stderrors.Is(err, vitalsErrors.ErrNotFitted))
}

func TestValidationError_Chain(t *testing.T) {
	err := vitalsErrors.NewValidationError("survived", "must be 0 or 1", 2.0)

	var target *vitalsErrors.ValidationError
	require.True(t, stderrors.As(err, &target))
	assert.Equal(t, 2.0, target.Value)
	assert.True(t, stderrors.Is(err, vitalsErrors.ErrInvalidInput))
}

func TestModelError_Cause(t *testing.T) {
	err := vitalsErrors.NewModelError("StandardScaler.Fit", "empty data", vitalsErrors.ErrEmptyData)
	assert.True(t, stderrors.Is(err, vitalsErrors.ErrEmptyData))
	assert.Contains(t, err.Error(), "StandardScaler.Fit")
}

func TestValueError_Message(t *testing.T) {
	err := vitalsErrors.NewValueError("ROCCurve", "input vectors cannot be nil")
	assert.Equal(t, "vitals: ROCCurve: input vectors cannot be nil", err.Error())
}

func TestRecover_ConvertsPanic(t *testing.T) {
	f := func() (err error) {
		defer vitalsErrors.Recover(&err, "MedianImputer.Transform")
		panic("index out of range")
	}
	err := f()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MedianImputer.Transform")
}

func TestRecover_NoPanicLeavesErrorNil(t *testing.T) {
	f := func() (err error) {
		defer vitalsErrors.Recover(&err, "noop")
		return nil
	}
	assert.NoError(t, f())
}
