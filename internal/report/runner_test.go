package report

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/domain/core"
	"statlab/domain/stats"
	"statlab/internal"
)

func quietRunner(workers int) *Runner {
	return NewRunner(workers, internal.NewLoggerTo(internal.LogLevelError, io.Discard))
}

// TestExecute tests single-request dispatch and its validation gate.
func TestExecute(t *testing.T) {
	t.Run("outlier", func(t *testing.T) {
		result, err := Execute(Request{
			Kind:   stats.TestOutlier,
			Sample: []float64{10.1, 10.2, 10.15, 10.18, 14.0},
		})
		require.NoError(t, err)
		assert.True(t, result.(stats.OutlierResult).Outlier)
	})

	t.Run("outlier below minimum is rejected before computing", func(t *testing.T) {
		_, err := Execute(Request{Kind: stats.TestOutlier, Sample: []float64{1, 2}})
		assert.ErrorIs(t, err, core.ErrInsufficientSampleSize)
	})

	t.Run("confidence interval applies the default level", func(t *testing.T) {
		result, err := Execute(Request{
			Kind:   stats.TestConfidenceInterval,
			Sample: []float64{10, 12, 11, 13, 9},
		})
		require.NoError(t, err)
		assert.Equal(t, stats.DefaultConfidenceLevel, result.(stats.ConfidenceIntervalResult).Level)
	})

	t.Run("error propagation is validated first", func(t *testing.T) {
		_, err := Execute(Request{
			Kind:          stats.TestErrorPropagation,
			Names:         []string{"x"},
			Values:        []float64{1},
			Uncertainties: []float64{0.1},
			Expression:    "x + y",
		})
		assert.ErrorIs(t, err, core.ErrUndefinedVariable)
	})

	t.Run("t-test", func(t *testing.T) {
		result, err := Execute(Request{
			Kind:   stats.TestTTest,
			Group1: []float64{1, 2, 3, 4, 5},
			Group2: []float64{2, 4, 6, 8, 10},
			Mode:   stats.ModeIndependent,
		})
		require.NoError(t, err)
		assert.Equal(t, 8, result.(stats.TTestResult).DF)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Execute(Request{Kind: stats.TestKind("anova")})
		assert.ErrorIs(t, err, core.ErrInvalidOperation)
	})
}

// TestRunnerOrder tests that outcomes keep request order under
// concurrent execution.
func TestRunnerOrder(t *testing.T) {
	requests := make([]Request, 40)
	for i := range requests {
		requests[i] = Request{
			Kind:   stats.TestConfidenceInterval,
			Sample: []float64{float64(i), float64(i) + 2},
		}
	}

	batch, err := quietRunner(8).Run(context.Background(), requests)
	require.NoError(t, err)
	require.Len(t, batch.Outcomes, 40)

	for i, out := range batch.Outcomes {
		require.NoError(t, out.Err, "request %d", i)
		assert.Equal(t, i, out.Index)
		ci := out.Result.(stats.ConfidenceIntervalResult)
		assert.InDelta(t, float64(i)+1, ci.Mean, 1e-12)
	}
}

// TestRunnerMixedBatch tests a batch where some requests fail.
func TestRunnerMixedBatch(t *testing.T) {
	batch, err := quietRunner(2).Run(context.Background(), []Request{
		{Name: "spread", Kind: stats.TestConfidenceInterval, Sample: []float64{10, 12, 11}},
		{Name: "flat", Kind: stats.TestOutlier, Sample: []float64{5, 5, 5}},
		{Name: "bogus", Kind: stats.TestKind("anova")},
		{
			Name:          "squares",
			Kind:          stats.TestErrorPropagation,
			Names:         []string{"x", "y"},
			Values:        []float64{2, 3},
			Uncertainties: []float64{0.1, 0.2},
			Expression:    "x**2 + 2*x*y + y**2",
		},
	})
	require.NoError(t, err)
	require.Len(t, batch.Outcomes, 4)

	assert.False(t, batch.RunID.IsEmpty())
	assert.Equal(t, 2, batch.Failed())

	assert.NoError(t, batch.Outcomes[0].Err)
	assert.Contains(t, batch.Outcomes[0].Text, "mean = 11.0000")

	assert.ErrorIs(t, batch.Outcomes[1].Err, core.ErrDegenerateSample)
	assert.Empty(t, batch.Outcomes[1].Text)

	assert.ErrorIs(t, batch.Outcomes[2].Err, core.ErrInvalidOperation)
	assert.Equal(t, "bogus", batch.Outcomes[2].Name)

	assert.NoError(t, batch.Outcomes[3].Err)
	assert.Contains(t, batch.Outcomes[3].Text, "propagated error = 2.236068")
}

// TestRunnerCanceledContext tests that a canceled context stops the run.
func TestRunnerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietRunner(1).Run(ctx, []Request{
		{Kind: stats.TestConfidenceInterval, Sample: []float64{1, 2, 3}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRunnerEmptyBatch tests the zero-request edge.
func TestRunnerEmptyBatch(t *testing.T) {
	batch, err := quietRunner(4).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, batch.Outcomes)
	assert.Equal(t, 0, batch.Failed())
}
