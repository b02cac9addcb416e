// Package errors defines the typed errors shared by every estimator and
// pipeline stage in vitals.
//
// All constructors produce errors that participate in Go 1.13+ error
// chains: errors.Is works against the exported sentinels and errors.As
// against the concrete types. Wrapping is delegated to cockroachdb/errors
// so that stack traces are captured at the failure site.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// prefix identifies errors originating in this module.
const prefix = "vitals"

// Sentinel errors used as causes inside ModelError chains.
var (
	// ErrEmptyData indicates a fit or transform received no rows or columns.
	ErrEmptyData = errors.New("empty data")

	// ErrNotFitted indicates an estimator was used before Fit.
	ErrNotFitted = errors.New("not fitted")

	// ErrInvalidInput indicates data that cannot be interpreted, such as a
	// label that is not binary.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates incompatible matrix shapes.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// ValueError reports an invalid argument value for an operation.
type ValueError struct {
	Op      string // operation that rejected the value, e.g. "ROCCurve"
	Message string
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// DimensionError reports a shape mismatch between fitted state and input.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 = rows, 1 = columns
}

// NewDimensionError creates a DimensionError for the given operation.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s: dimension mismatch on axis %d: expected %d, got %d",
		prefix, e.Op, e.Axis, e.Expected, e.Got)
}

// Unwrap allows errors.Is(err, ErrDimensionMismatch).
func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// NotFittedError reports use of an estimator before it was fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError for the given estimator method.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s is not fitted, cannot call %s (call Fit first)",
		prefix, e.ModelName, e.Method)
}

// Unwrap allows errors.Is(err, ErrNotFitted).
func (e *NotFittedError) Unwrap() error { return ErrNotFitted }

// ValidationError reports data that violates a documented contract, such as
// a non-binary label value.
type ValidationError struct {
	Field  string
	Reason string
	Value  interface{}
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Value: value}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation failed for %s: %s", prefix, e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ModelError reports a failure inside a model operation with an underlying
// sentinel cause.
type ModelError struct {
	Op      string
	Message string
	cause   error
}

// NewModelError creates a ModelError wrapping the given cause.
func NewModelError(op, message string, cause error) *ModelError {
	return &ModelError{Op: op, Message: message, cause: cause}
}

func (e *ModelError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Message, e.cause)
}

// Unwrap returns the underlying cause.
func (e *ModelError) Unwrap() error { return e.cause }

// New creates a new error with a captured stack trace.
func New(msg string) error { return errors.New(msg) }

// Wrap annotates err with msg, preserving the chain.
func Wrap(err error, msg string) error { return errors.Wrap(err, msg) }

// Wrapf annotates err with a formatted message, preserving the chain.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Recover converts a panic inside an estimator method into an error.
// Intended to be deferred at the top of exported Fit/Transform/Predict
// implementations:
//
//	func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
//		defer errors.Recover(&err, "StandardScaler.Fit")
//		...
//	}
func Recover(errp *error, op string) {
	if r := recover(); r != nil {
		if err, ok := r.(error); ok {
			*errp = errors.Wrapf(err, "%s: panic", op)
			return
		}
		*errp = errors.Newf("%s: panic: %v", op, r)
	}
}
