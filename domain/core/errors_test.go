package core

import (
	"errors"
	"strings"
	"testing"
)

// TestConstructorsWrapSentinels tests that contextual constructors stay
// matchable with errors.Is against their sentinel.
func TestConstructorsWrapSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		contains string
	}{
		{"parse", NewParseError("abc"), ErrParse, `"abc"`},
		{"missing field", NewMissingFieldError("variables"), ErrMissingField, "variables"},
		{"variable name", NewInvalidVariableNameError("2x"), ErrInvalidVariableName, `"2x"`},
		{"uncertainty", NewNonPositiveUncertaintyError("x", -0.5), ErrNonPositiveUncertainty, "x = -0.5"},
		{"undefined", NewUndefinedVariableError("z", "w"), ErrUndefinedVariable, "z, w"},
		{"sample size", NewInsufficientSampleSizeError(2, 3), ErrInsufficientSampleSize, "got 2"},
		{"computation", NewComputationError("boom"), ErrComputation, "boom"},
	}

	for _, test := range tests {
		if !errors.Is(test.err, test.sentinel) {
			t.Errorf("%s: expected errors.Is to match sentinel, got %v", test.name, test.err)
		}
		if !strings.Contains(test.err.Error(), test.contains) {
			t.Errorf("%s: expected message to contain %q, got %q", test.name, test.contains, test.err.Error())
		}
	}
}

// TestIsValidationError tests the validation-failure predicate
func TestIsValidationError(t *testing.T) {
	validation := []error{
		ErrEmptyInput,
		NewParseError("x1y"),
		ErrInvalidOperation,
		NewInsufficientSampleSizeError(1, 3),
		NewMissingFieldError("expression"),
		ErrLengthMismatch,
		NewInvalidVariableNameError("9a"),
		NewNonPositiveUncertaintyError("y", 0),
		NewUndefinedVariableError("q"),
		ErrUnbalancedParentheses,
	}
	for _, err := range validation {
		if !IsValidationError(err) {
			t.Errorf("Expected %v to be a validation error", err)
		}
	}

	notValidation := []error{
		ErrSizeMismatch,
		ErrInvalidTestType,
		ErrDegenerateSample,
		NewComputationError("divide by zero"),
		errors.New("unrelated"),
	}
	for _, err := range notValidation {
		if IsValidationError(err) {
			t.Errorf("Expected %v to not be a validation error", err)
		}
	}
}

// TestIsComputationError tests the boundary catch-all predicate
func TestIsComputationError(t *testing.T) {
	if !IsComputationError(NewComputationError("panic: oops")) {
		t.Error("Expected wrapped computation error to match")
	}
	if IsComputationError(ErrEmptyInput) {
		t.Error("Expected validation error to not match computation predicate")
	}
}
