// Package analysis implements the statistical operations: Dixon's
// Q-test, confidence intervals, first-order error propagation and
// two-sample t-tests, plus the text formatter for their results. Every
// operation is a pure, deterministic function; unexpected internal
// failures are recovered and surfaced as a computation error so bad
// input can never crash the host.
package analysis

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"statlab/domain/core"
	"statlab/domain/expr"
	"statlab/domain/stats"
)

// qCritical holds Dixon's Q critical values at 95% confidence for
// sample sizes 3 through 10. Larger samples clamp to the n=10 entry.
var qCritical = map[int]float64{
	3:  0.970,
	4:  0.829,
	5:  0.710,
	6:  0.625,
	7:  0.568,
	8:  0.526,
	9:  0.493,
	10: 0.466,
}

// recoverAsError converts a panic inside an operation into the generic
// computation error. Deferred directly by every exported operation.
func recoverAsError(err *error) {
	if r := recover(); r != nil {
		*err = core.NewComputationError(r)
	}
}

// OutlierTest runs Dixon's Q-test on a sample of at least three values.
// The suspect gap at either end is compared against the full range; a
// sample whose values are all equal has no range to compare against and
// fails as degenerate rather than reporting a verdict.
func OutlierTest(sample []float64) (result stats.OutlierResult, err error) {
	defer recoverAsError(&err)

	n := len(sample)
	if n < 3 {
		return stats.OutlierResult{}, core.NewInsufficientSampleSizeError(n, 3)
	}

	data := make([]float64, n)
	copy(data, sample)
	sort.Float64s(data)

	span := data[n-1] - data[0]
	if span == 0 {
		return stats.OutlierResult{}, core.ErrDegenerateSample
	}

	qLow := math.Abs(data[1]-data[0]) / math.Abs(span)
	qHigh := math.Abs(data[n-1]-data[n-2]) / math.Abs(span)
	q := math.Max(qLow, qHigh)

	size := n
	if size > 10 {
		size = 10
	}
	critical := qCritical[size]

	return stats.OutlierResult{
		Q:        q,
		Critical: critical,
		Outlier:  q > critical,
		N:        n,
	}, nil
}

// ConfidenceInterval computes the mean of a sample with a two-sided
// Student-t interval at the given confidence level. A single-element
// sample has no unbiased standard deviation; its std and bounds come
// out NaN, matching the source system's behavior at that boundary.
func ConfidenceInterval(sample []float64, level float64) (result stats.ConfidenceIntervalResult, err error) {
	defer recoverAsError(&err)

	n := len(sample)
	if n < 1 {
		return stats.ConfidenceIntervalResult{}, core.NewInsufficientSampleSizeError(n, 1)
	}

	mean, _ := mstats.Mean(sample)

	if n == 1 {
		nan := math.NaN()
		return stats.ConfidenceIntervalResult{
			Mean: mean, Std: nan, Lower: nan, Upper: nan, Level: level, N: n,
		}, nil
	}

	std, _ := mstats.StandardDeviationSample(sample)

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	tCrit := tDist.Quantile((1 + level) / 2)
	se := std / math.Sqrt(float64(n))
	margin := tCrit * se

	return stats.ConfidenceIntervalResult{
		Mean:  mean,
		Std:   std,
		Lower: mean - margin,
		Upper: mean + margin,
		Level: level,
		N:     n,
	}, nil
}

// ErrorPropagation evaluates an expression at the given variable values
// and propagates their uncertainties through the first-order
// sum-of-squares rule. The returned result keeps the canonical
// expression text and the symbolic text of every partial derivative in
// input order.
func ErrorPropagation(names []string, values, uncertainties []float64, expression string) (result stats.ErrorPropagationResult, err error) {
	defer recoverAsError(&err)

	binding, err := stats.NewVariableBinding(names, values, uncertainties)
	if err != nil {
		return stats.ErrorPropagationResult{}, err
	}

	tree, perr := expr.Parse(expression)
	if perr != nil {
		// Syntax problems beyond the cheap lexical checks surface as
		// the generic computation failure.
		return stats.ErrorPropagationResult{}, core.NewComputationError(perr)
	}
	tree = expr.Simplify(tree)

	vars := binding.Map()
	value, err := tree.Eval(vars)
	if err != nil {
		return stats.ErrorPropagationResult{}, err
	}

	total := 0.0
	partials := make([]stats.PartialDerivative, 0, binding.Len())
	for i, name := range binding.Names {
		d := tree.Diff(name)
		dv, derr := d.Eval(vars)
		if derr != nil {
			return stats.ErrorPropagationResult{}, derr
		}
		contribution := dv * binding.Uncertainties[i]
		total += contribution * contribution
		partials = append(partials, stats.PartialDerivative{
			Variable:   name,
			Derivative: d.String(),
		})
	}
	propagated := math.Sqrt(total)

	relative := math.Inf(1)
	if value != 0 {
		relative = propagated / math.Abs(value) * 100
	}

	return stats.ErrorPropagationResult{
		Expression: tree.String(),
		Partials:   partials,
		Value:      value,
		Propagated: propagated,
		Relative:   relative,
	}, nil
}

// TTest compares two samples in the requested mode. Independent assumes
// equal variances and pools them; paired compares element-wise
// differences and requires equal lengths.
func TTest(a, b []float64, mode stats.TTestMode) (result stats.TTestResult, err error) {
	defer recoverAsError(&err)

	if len(a) == 0 || len(b) == 0 {
		return stats.TTestResult{}, core.ErrEmptyInput
	}

	switch mode {
	case stats.ModeIndependent:
		return independentTTest(a, b)
	case stats.ModePaired:
		return pairedTTest(a, b)
	}
	return stats.TTestResult{}, core.ErrInvalidTestType
}

func independentTTest(a, b []float64) (stats.TTestResult, error) {
	n1, n2 := len(a), len(b)
	m1, _ := mstats.Mean(a)
	m2, _ := mstats.Mean(b)

	df := n1 + n2 - 2
	s1 := sampleVariance(a)
	s2 := sampleVariance(b)

	pooled := (float64(n1-1)*s1 + float64(n2-1)*s2) / float64(df)
	t := (m1 - m2) / (math.Sqrt(pooled) * math.Sqrt(1/float64(n1)+1/float64(n2)))

	return stats.TTestResult{
		Mode:  stats.ModeIndependent,
		T:     t,
		P:     twoSidedP(t, df),
		DF:    df,
		Mean1: m1,
		Mean2: m2,
	}, nil
}

func pairedTTest(a, b []float64) (stats.TTestResult, error) {
	if len(a) != len(b) {
		return stats.TTestResult{}, core.ErrSizeMismatch
	}

	n := len(a)
	diffs := make([]float64, n)
	for i := range a {
		diffs[i] = a[i] - b[i]
	}

	m1, _ := mstats.Mean(a)
	m2, _ := mstats.Mean(b)
	md, _ := mstats.Mean(diffs)

	sd := math.NaN()
	if n >= 2 {
		sd, _ = mstats.StandardDeviationSample(diffs)
	}
	t := md / (sd / math.Sqrt(float64(n)))
	df := n - 1

	return stats.TTestResult{
		Mode:  stats.ModePaired,
		T:     t,
		P:     twoSidedP(t, df),
		DF:    df,
		Mean1: m1,
		Mean2: m2,
	}, nil
}

// sampleVariance is the unbiased (n-1) variance, NaN below two
// elements so degenerate groups flow through as NaN statistics the way
// the source system's did.
func sampleVariance(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	v, _ := mstats.SampleVariance(data)
	return v
}

// twoSidedP is the two-sided p-value of t under Student's t with df
// degrees of freedom. Degenerate degrees of freedom or a NaN statistic
// yield NaN without consulting the distribution.
func twoSidedP(t float64, df int) float64 {
	if df < 1 || math.IsNaN(t) {
		return math.NaN()
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}
