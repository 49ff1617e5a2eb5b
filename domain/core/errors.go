package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Raw input errors
	ErrEmptyInput = errors.New("input is empty")
	ErrParse      = errors.New("not a valid number")

	// Sample requirement errors
	ErrInvalidOperation       = errors.New("unknown operation")
	ErrInsufficientSampleSize = errors.New("insufficient sample size")
	ErrDegenerateSample       = errors.New("degenerate sample: all values are equal")

	// Error-propagation input errors
	ErrMissingField           = errors.New("required field is empty")
	ErrLengthMismatch         = errors.New("variable, value and uncertainty lists differ in length")
	ErrInvalidVariableName    = errors.New("invalid variable name")
	ErrNonPositiveUncertainty = errors.New("uncertainty must be positive")
	ErrUndefinedVariable      = errors.New("undefined variable in expression")
	ErrUnbalancedParentheses  = errors.New("unbalanced parentheses in expression")

	// t-test errors
	ErrSizeMismatch    = errors.New("paired samples must have equal length")
	ErrInvalidTestType = errors.New("unknown t-test mode")

	// Boundary catch-all for unexpected failures inside a computation
	ErrComputation = errors.New("computation error")
)

// Error constructors with context
func NewParseError(token string) error {
	return fmt.Errorf("%w: %q", ErrParse, token)
}

func NewMissingFieldError(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

func NewInvalidVariableNameError(name string) error {
	return fmt.Errorf("%w: %q", ErrInvalidVariableName, name)
}

func NewNonPositiveUncertaintyError(name string, value float64) error {
	return fmt.Errorf("%w: %s = %v", ErrNonPositiveUncertainty, name, value)
}

func NewUndefinedVariableError(names ...string) error {
	return fmt.Errorf("%w: %s", ErrUndefinedVariable, strings.Join(names, ", "))
}

func NewInsufficientSampleSizeError(got, want int) error {
	return fmt.Errorf("%w: got %d values, need at least %d", ErrInsufficientSampleSize, got, want)
}

func NewComputationError(cause any) error {
	return fmt.Errorf("%w: %v", ErrComputation, cause)
}

// Error checking helpers
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrParse) ||
		errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrInsufficientSampleSize) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrInvalidVariableName) ||
		errors.Is(err, ErrNonPositiveUncertainty) ||
		errors.Is(err, ErrUndefinedVariable) ||
		errors.Is(err, ErrUnbalancedParentheses)
}

func IsComputationError(err error) bool {
	return errors.Is(err, ErrComputation)
}
