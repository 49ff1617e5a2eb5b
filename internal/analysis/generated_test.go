package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statlab/domain/stats"
	"statlab/internal/testkit"
)

// TestOperationsOnGeneratedSamples runs the operations over seeded
// fixtures, checking the structural guarantees that hold for any draw.
func TestOperationsOnGeneratedSamples(t *testing.T) {
	t.Run("generator is reproducible", func(t *testing.T) {
		a := testkit.NewSampleGenerator(testkit.DefaultSampleConfig()).Normal(50)
		b := testkit.NewSampleGenerator(testkit.DefaultSampleConfig()).Normal(50)
		assert.Equal(t, a, b)
	})

	t.Run("planted extreme value is flagged", func(t *testing.T) {
		gen := testkit.NewSampleGenerator(testkit.DefaultSampleConfig())
		sample := gen.WithOutlier(10, 50)

		result, err := OutlierTest(sample)
		require.NoError(t, err)
		assert.True(t, result.Outlier)
		assert.Equal(t, 0.466, result.Critical)
	})

	t.Run("interval brackets the sample mean", func(t *testing.T) {
		gen := testkit.NewSampleGenerator(testkit.DefaultSampleConfig())
		sample := gen.Normal(40)

		result, err := ConfidenceInterval(sample, 0.95)
		require.NoError(t, err)
		assert.Less(t, result.Lower, result.Mean)
		assert.Greater(t, result.Upper, result.Mean)
		assert.Equal(t, 40, result.N)
	})

	t.Run("paired shift is detected", func(t *testing.T) {
		gen := testkit.NewSampleGenerator(testkit.DefaultSampleConfig())
		base, shifted := gen.PairedShift(30, 2.0, 0.1)

		result, err := TTest(shifted, base, stats.ModePaired)
		require.NoError(t, err)
		assert.True(t, result.Significant())
		assert.Greater(t, result.T, 0.0)
		assert.Equal(t, 29, result.DF)
	})
}
