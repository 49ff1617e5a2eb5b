package stats

import (
	"statlab/domain/core"
)

// TestKind identifies one of the supported operations.
type TestKind string

const (
	TestOutlier            TestKind = "outlier"
	TestConfidenceInterval TestKind = "confidence_interval"
	TestErrorPropagation   TestKind = "error_propagation"
	TestTTest              TestKind = "ttest"
)

// ParseTestKind parses a string into a TestKind.
func ParseTestKind(s string) (TestKind, error) {
	switch TestKind(s) {
	case TestOutlier, TestConfidenceInterval, TestErrorPropagation, TestTTest:
		return TestKind(s), nil
	}
	return "", core.ErrInvalidOperation
}

// TTestMode selects how the two samples relate.
type TTestMode string

const (
	ModeIndependent TTestMode = "independent"
	ModePaired      TTestMode = "paired"
)

// ParseTTestMode parses a string into a TTestMode.
func ParseTTestMode(s string) (TTestMode, error) {
	switch TTestMode(s) {
	case ModeIndependent, ModePaired:
		return TTestMode(s), nil
	}
	return "", core.ErrInvalidTestType
}

// DefaultConfidenceLevel is the confidence used when callers do not ask
// for another one: 0.683, the ±1σ equivalent under a normal
// approximation.
const DefaultConfidenceLevel = 0.683

// SignificanceLevel is the fixed α for the t-test verdict.
const SignificanceLevel = 0.05

// VariableBinding is the parallel (name, value, uncertainty) triple
// behind error propagation.
// INVARIANTS:
// - the three sequences have equal length
// - names are unique, uncertainties strictly positive once validated
type VariableBinding struct {
	Names         []string  `json:"names"`
	Values        []float64 `json:"values"`
	Uncertainties []float64 `json:"uncertainties"`
}

// NewVariableBinding builds a binding, rejecting ragged input.
func NewVariableBinding(names []string, values, uncertainties []float64) (VariableBinding, error) {
	if len(names) != len(values) || len(names) != len(uncertainties) {
		return VariableBinding{}, core.ErrLengthMismatch
	}
	return VariableBinding{Names: names, Values: values, Uncertainties: uncertainties}, nil
}

// Len returns the number of bound variables.
func (b VariableBinding) Len() int { return len(b.Names) }

// Map returns name → value bindings for expression evaluation.
func (b VariableBinding) Map() map[string]float64 {
	m := make(map[string]float64, len(b.Names))
	for i, name := range b.Names {
		m[name] = b.Values[i]
	}
	return m
}

// Result is the tagged record produced by one operation; the concrete
// type carries the payload, Kind carries the tag.
type Result interface {
	Kind() TestKind
}

// OutlierResult holds a Dixon Q-test outcome.
type OutlierResult struct {
	Q        float64 `json:"q"`
	Critical float64 `json:"critical"`
	Outlier  bool    `json:"outlier"`
	N        int     `json:"n"`
}

func (OutlierResult) Kind() TestKind { return TestOutlier }

// ConfidenceIntervalResult holds a sample mean with its interval.
type ConfidenceIntervalResult struct {
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"`
	N     int     `json:"n"`
}

func (ConfidenceIntervalResult) Kind() TestKind { return TestConfidenceInterval }

// PartialDerivative pairs a variable with the rendered text of its
// partial derivative.
type PartialDerivative struct {
	Variable   string `json:"variable"`
	Derivative string `json:"derivative"`
}

// ErrorPropagationResult holds a propagated-uncertainty outcome.
// Partials keep the input variable order because the formatter prints
// them as given.
type ErrorPropagationResult struct {
	Expression string              `json:"expression"`
	Partials   []PartialDerivative `json:"partials"`
	Value      float64             `json:"value"`
	Propagated float64             `json:"propagated"`
	Relative   float64             `json:"relative"`
}

func (ErrorPropagationResult) Kind() TestKind { return TestErrorPropagation }

// TTestResult holds a two-sample t-test outcome.
type TTestResult struct {
	Mode  TTestMode `json:"mode"`
	T     float64   `json:"t"`
	P     float64   `json:"p"`
	DF    int       `json:"df"`
	Mean1 float64   `json:"mean1"`
	Mean2 float64   `json:"mean2"`
}

func (TTestResult) Kind() TestKind { return TestTTest }

// Significant reports whether p clears the fixed α.
func (r TTestResult) Significant() bool { return r.P < SignificanceLevel }
