// Package testkit builds deterministic numeric fixtures for tests.
// Every generator is seeded, so a fixture is the same sample on every
// run and on every machine.
package testkit

import (
	"math/rand"
)

// SampleConfig configures the deterministic sample generator
type SampleConfig struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Seed int64   `json:"seed"`
}

// DefaultSampleConfig returns sensible defaults for sample generation
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		Mean: 10.0,
		Std:  1.5,
		Seed: 42,
	}
}

// SampleGenerator produces reproducible numeric samples
type SampleGenerator struct {
	config SampleConfig
	rng    *rand.Rand
}

// NewSampleGenerator creates a new generator from the config seed
func NewSampleGenerator(config SampleConfig) *SampleGenerator {
	return &SampleGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Normal draws n values from N(mean, std)
func (g *SampleGenerator) Normal(n int) []float64 {
	sample := make([]float64, n)
	for i := range sample {
		sample[i] = g.config.Mean + g.rng.NormFloat64()*g.config.Std
	}
	return sample
}

// WithOutlier draws a clean sample of n-1 values and plants one value
// sigmas standard deviations above the mean at the end
func (g *SampleGenerator) WithOutlier(n int, sigmas float64) []float64 {
	sample := g.Normal(n - 1)
	return append(sample, g.config.Mean+sigmas*g.config.Std)
}

// PairedShift draws a base group and a copy shifted by delta with a
// small independent noise term per element
func (g *SampleGenerator) PairedShift(n int, delta, noise float64) ([]float64, []float64) {
	base := g.Normal(n)
	shifted := make([]float64, n)
	for i, v := range base {
		shifted[i] = v + delta + g.rng.NormFloat64()*noise
	}
	return base, shifted
}
