package analysis

import (
	"fmt"
	"strings"

	"statlab/domain/core"
	"statlab/domain/stats"
)

// FormatResult renders a result as its fixed multi-line text block.
// Layouts are stable: shells display them verbatim and tests pin them.
func FormatResult(result stats.Result) (string, error) {
	switch r := result.(type) {
	case stats.TTestResult:
		return formatTTest(r), nil
	case stats.OutlierResult:
		return formatOutlier(r), nil
	case stats.ErrorPropagationResult:
		return formatPropagation(r), nil
	case stats.ConfidenceIntervalResult:
		return formatInterval(r), nil
	}
	return "", core.ErrInvalidOperation
}

func formatTTest(r stats.TTestResult) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("t-test (%s)\n", r.Mode))
	out.WriteString(fmt.Sprintf("group1 mean = %.4f\n", r.Mean1))
	out.WriteString(fmt.Sprintf("group2 mean = %.4f\n", r.Mean2))
	out.WriteString(fmt.Sprintf("statistic (t) = %.4f\n", r.T))
	out.WriteString(fmt.Sprintf("degrees of freedom = %d\n", r.DF))
	out.WriteString(fmt.Sprintf("p-value = %.4f\n", r.P))
	judgment := "not significant"
	if r.Significant() {
		judgment = "significant"
	}
	out.WriteString(fmt.Sprintf("judgment (α=0.05): %s", judgment))
	return out.String()
}

func formatOutlier(r stats.OutlierResult) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("Q statistic = %.4f\n", r.Q))
	out.WriteString(fmt.Sprintf("critical value = %.4f\n", r.Critical))
	judgment := "no outlier"
	if r.Outlier {
		judgment = "outlier present"
	}
	out.WriteString(fmt.Sprintf("judgment: %s", judgment))
	return out.String()
}

func formatPropagation(r stats.ErrorPropagationResult) string {
	var out strings.Builder
	out.WriteString(r.Expression + "\n")
	for _, p := range r.Partials {
		out.WriteString(fmt.Sprintf("d f / d %s = %s\n", p.Variable, p.Derivative))
	}
	out.WriteString(fmt.Sprintf("function value = %.6f\n", r.Value))
	out.WriteString(fmt.Sprintf("propagated error = %.6f\n", r.Propagated))
	out.WriteString(fmt.Sprintf("relative error = %.2f%%", r.Relative))
	return out.String()
}

func formatInterval(r stats.ConfidenceIntervalResult) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("mean = %.4f\n", r.Mean))
	out.WriteString(fmt.Sprintf("std = %.4f\n", r.Std))
	out.WriteString(fmt.Sprintf("%.1f%% confidence interval:\n", r.Level*100))
	out.WriteString(fmt.Sprintf("lower = %.4f\n", r.Lower))
	out.WriteString(fmt.Sprintf("upper = %.4f", r.Upper))
	return out.String()
}
