// Package validation gates raw user input before any computation runs.
// Every check is a pure function over caller-supplied strings or parsed
// lists, returning a taxonomy error from domain/core with a
// human-readable reason. Nothing here performs I/O.
package validation

import (
	"regexp"
	"strconv"
	"strings"

	"statlab/domain/core"
	"statlab/domain/stats"
)

// Minimum sample sizes per operation.
const (
	MinOutlierSample            = 3
	MinConfidenceIntervalSample = 1
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	identRe = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)
)

// ParseNumericSample splits text on whitespace and newlines and parses
// every token as a number. Order is preserved, duplicates are kept,
// nothing is sorted.
func ParseNumericSample(text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.ErrEmptyInput
	}
	tokens := strings.Fields(text)
	sample := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, core.NewParseError(tok)
		}
		sample = append(sample, v)
	}
	return sample, nil
}

// CheckSampleRequirements enforces the minimum sample size for the
// operations that consume a plain numeric sample. Error propagation is
// not size-constrained here because its inputs arrive as a
// VariableBinding; every other kind is unknown to this gate.
func CheckSampleRequirements(sample []float64, kind stats.TestKind) error {
	switch kind {
	case stats.TestOutlier:
		if len(sample) < MinOutlierSample {
			return core.NewInsufficientSampleSizeError(len(sample), MinOutlierSample)
		}
	case stats.TestConfidenceInterval:
		if len(sample) < MinConfidenceIntervalSample {
			return core.NewInsufficientSampleSizeError(len(sample), MinConfidenceIntervalSample)
		}
	case stats.TestErrorPropagation:
		// no size constraint
	default:
		return core.ErrInvalidOperation
	}
	return nil
}

// ValidateErrorPropagationInputs runs the six shape checks on the raw
// propagation inputs, in order, short-circuiting at the first failure:
// missing fields, ragged lists, malformed names, non-positive
// uncertainties, undeclared identifiers, unbalanced parentheses. Every
// identifier token in the expression counts as a variable reference and
// must appear among the declared names.
func ValidateErrorPropagationInputs(names []string, values, uncertainties []float64, expression string) error {
	switch {
	case len(names) == 0:
		return core.NewMissingFieldError("variables")
	case len(values) == 0:
		return core.NewMissingFieldError("values")
	case len(uncertainties) == 0:
		return core.NewMissingFieldError("uncertainties")
	case strings.TrimSpace(expression) == "":
		return core.NewMissingFieldError("expression")
	}

	if len(names) != len(values) || len(names) != len(uncertainties) {
		return core.ErrLengthMismatch
	}

	for _, name := range names {
		if !nameRe.MatchString(name) {
			return core.NewInvalidVariableNameError(name)
		}
	}

	for i, u := range uncertainties {
		if u <= 0 {
			return core.NewNonPositiveUncertaintyError(names[i], u)
		}
	}

	declared := make(map[string]bool, len(names))
	for _, name := range names {
		declared[name] = true
	}
	var undefined []string
	seen := map[string]bool{}
	for _, ident := range identRe.FindAllString(expression, -1) {
		if !declared[ident] && !seen[ident] {
			undefined = append(undefined, ident)
			seen[ident] = true
		}
	}
	if len(undefined) > 0 {
		return core.NewUndefinedVariableError(undefined...)
	}

	if strings.Count(expression, "(") != strings.Count(expression, ")") {
		return core.ErrUnbalancedParentheses
	}

	return nil
}

// ParseNameList splits a comma-separated field into trimmed variable
// names. Empty text and empty elements fail as empty input.
func ParseNameList(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.ErrEmptyInput
	}
	parts := strings.Split(text, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, core.ErrEmptyInput
		}
		names = append(names, part)
	}
	return names, nil
}

// ParseNumberList splits a comma-separated field into numbers, with the
// same emptiness rules as ParseNameList.
func ParseNumberList(text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.ErrEmptyInput
	}
	parts := strings.Split(text, ",")
	numbers := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, core.ErrEmptyInput
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, core.NewParseError(part)
		}
		numbers = append(numbers, v)
	}
	return numbers, nil
}

// SplitSample halves one sample so a single pasted column can feed the
// two-sample t-test. The first half takes len/2 values, the second the
// remainder.
func SplitSample(sample []float64) (first, second []float64) {
	mid := len(sample) / 2
	return sample[:mid], sample[mid:]
}
