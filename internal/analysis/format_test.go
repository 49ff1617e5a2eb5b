package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/domain/core"
	"statlab/domain/stats"
)

// TestFormatResult pins the exact text block of every result kind.
func TestFormatResult(t *testing.T) {
	t.Run("t-test significant", func(t *testing.T) {
		text, err := FormatResult(stats.TTestResult{
			Mode:  stats.ModePaired,
			T:     3.8729833,
			P:     0.0305,
			DF:    3,
			Mean1: 11.75,
			Mean2: 9.25,
		})
		require.NoError(t, err)

		assert.Equal(t, "t-test (paired)\n"+
			"group1 mean = 11.7500\n"+
			"group2 mean = 9.2500\n"+
			"statistic (t) = 3.8730\n"+
			"degrees of freedom = 3\n"+
			"p-value = 0.0305\n"+
			"judgment (α=0.05): significant", text)
	})

	t.Run("t-test not significant", func(t *testing.T) {
		text, err := FormatResult(stats.TTestResult{
			Mode:  stats.ModeIndependent,
			T:     -1.8973666,
			P:     0.0945,
			DF:    8,
			Mean1: 3,
			Mean2: 6,
		})
		require.NoError(t, err)

		assert.Equal(t, "t-test (independent)\n"+
			"group1 mean = 3.0000\n"+
			"group2 mean = 6.0000\n"+
			"statistic (t) = -1.8974\n"+
			"degrees of freedom = 8\n"+
			"p-value = 0.0945\n"+
			"judgment (α=0.05): not significant", text)
	})

	t.Run("outlier present", func(t *testing.T) {
		text, err := FormatResult(stats.OutlierResult{
			Q:        0.9744,
			Critical: 0.710,
			Outlier:  true,
			N:        5,
		})
		require.NoError(t, err)

		assert.Equal(t, "Q statistic = 0.9744\n"+
			"critical value = 0.7100\n"+
			"judgment: outlier present", text)
	})

	t.Run("no outlier", func(t *testing.T) {
		text, err := FormatResult(stats.OutlierResult{Q: 0.25, Critical: 0.710})
		require.NoError(t, err)

		assert.Equal(t, "Q statistic = 0.2500\n"+
			"critical value = 0.7100\n"+
			"judgment: no outlier", text)
	})

	t.Run("error propagation end to end", func(t *testing.T) {
		result, err := ErrorPropagation(
			[]string{"x", "y"},
			[]float64{2, 3},
			[]float64{0.1, 0.2},
			"x**2 + 2*x*y + y**2",
		)
		require.NoError(t, err)

		text, err := FormatResult(result)
		require.NoError(t, err)

		assert.Equal(t, "x**2 + 2*x*y + y**2\n"+
			"d f / d x = 2*x + 2*y\n"+
			"d f / d y = 2*x + 2*y\n"+
			"function value = 25.000000\n"+
			"propagated error = 2.236068\n"+
			"relative error = 8.94%", text)
	})

	t.Run("confidence interval", func(t *testing.T) {
		text, err := FormatResult(stats.ConfidenceIntervalResult{
			Mean:  11,
			Std:   1.5811,
			Lower: 10.1879,
			Upper: 11.8121,
			Level: 0.683,
			N:     5,
		})
		require.NoError(t, err)

		assert.Equal(t, "mean = 11.0000\n"+
			"std = 1.5811\n"+
			"68.3% confidence interval:\n"+
			"lower = 10.1879\n"+
			"upper = 11.8121", text)
	})

	t.Run("NaN spread renders as NaN", func(t *testing.T) {
		nan := math.NaN()
		text, err := FormatResult(stats.ConfidenceIntervalResult{
			Mean: 42, Std: nan, Lower: nan, Upper: nan, Level: 0.95, N: 1,
		})
		require.NoError(t, err)

		assert.Contains(t, text, "std = NaN")
		assert.Contains(t, text, "95.0% confidence interval:")
	})

	t.Run("nil result", func(t *testing.T) {
		_, err := FormatResult(nil)
		assert.ErrorIs(t, err, core.ErrInvalidOperation)
	})
}
