// Package report executes batches of statistical requests with bounded
// concurrency. Each batch is stamped with a run ID and its outcomes
// keep the input order regardless of completion order.
package report

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"statlab/domain/core"
	"statlab/domain/stats"
	"statlab/internal"
	"statlab/internal/analysis"
	"statlab/internal/validation"
)

// Request describes one statistical operation in a batch.
type Request struct {
	// Name labels the request in summaries; empty defaults to the kind.
	Name string         `json:"name,omitempty"`
	Kind stats.TestKind `json:"kind"`

	// Sample feeds the outlier and confidence interval kinds.
	Sample []float64 `json:"sample,omitempty"`

	// Level is the confidence level; zero means the default.
	Level float64 `json:"level,omitempty"`

	// Group1 and Group2 feed the t-test kind.
	Group1 []float64       `json:"group1,omitempty"`
	Group2 []float64       `json:"group2,omitempty"`
	Mode   stats.TTestMode `json:"mode,omitempty"`

	// Names, Values, Uncertainties and Expression feed error propagation.
	Names         []string  `json:"names,omitempty"`
	Values        []float64 `json:"values,omitempty"`
	Uncertainties []float64 `json:"uncertainties,omitempty"`
	Expression    string    `json:"expression,omitempty"`
}

// Outcome is the completed form of one request.
type Outcome struct {
	Index    int
	Name     string
	Kind     stats.TestKind
	Result   stats.Result
	Text     string
	Err      error
	Duration time.Duration
}

// Batch ties a set of outcomes to the run that produced them.
type Batch struct {
	RunID       core.RunID
	StartedAt   time.Time
	CompletedAt time.Time
	Outcomes    []Outcome
}

// Failed counts outcomes that ended in an error.
func (b *Batch) Failed() int {
	failed := 0
	for _, out := range b.Outcomes {
		if out.Err != nil {
			failed++
		}
	}
	return failed
}

// Execute validates and runs a single request.
func Execute(req Request) (stats.Result, error) {
	switch req.Kind {
	case stats.TestOutlier:
		if err := validation.CheckSampleRequirements(req.Sample, stats.TestOutlier); err != nil {
			return nil, err
		}
		return analysis.OutlierTest(req.Sample)

	case stats.TestConfidenceInterval:
		if err := validation.CheckSampleRequirements(req.Sample, stats.TestConfidenceInterval); err != nil {
			return nil, err
		}
		level := req.Level
		if level == 0 {
			level = stats.DefaultConfidenceLevel
		}
		return analysis.ConfidenceInterval(req.Sample, level)

	case stats.TestErrorPropagation:
		if err := validation.ValidateErrorPropagationInputs(req.Names, req.Values, req.Uncertainties, req.Expression); err != nil {
			return nil, err
		}
		return analysis.ErrorPropagation(req.Names, req.Values, req.Uncertainties, req.Expression)

	case stats.TestTTest:
		return analysis.TTest(req.Group1, req.Group2, req.Mode)
	}
	return nil, core.ErrInvalidOperation
}

// Runner executes request batches with bounded concurrency.
type Runner struct {
	workers int64
	logger  *internal.Logger
}

// NewRunner creates a runner allowing at most workers concurrent
// requests. A nil logger falls back to the process default.
func NewRunner(workers int, logger *internal.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Runner{workers: int64(workers), logger: logger}
}

// Run executes every request and returns the stamped batch. Outcome i
// always belongs to request i. A canceled context stops admission of
// new requests; in-flight ones finish first.
func (r *Runner) Run(ctx context.Context, requests []Request) (*Batch, error) {
	batch := &Batch{
		RunID:     core.NewRunID(),
		StartedAt: time.Now(),
		Outcomes:  make([]Outcome, len(requests)),
	}
	r.logger.Info("batch %s: %d requests, %d workers", batch.RunID.Short(), len(requests), r.workers)

	sem := semaphore.NewWeighted(r.workers)
	var wg sync.WaitGroup

	var acquireErr error
	for i := range requests {
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}

		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			defer sem.Release(1)
			batch.Outcomes[index] = r.execute(index, requests[index])
		}(i)
	}

	wg.Wait()
	if acquireErr != nil {
		return nil, acquireErr
	}

	batch.CompletedAt = time.Now()
	r.logger.Info("batch %s: completed in %v (%d failed)",
		batch.RunID.Short(), batch.CompletedAt.Sub(batch.StartedAt), batch.Failed())
	return batch, nil
}

func (r *Runner) execute(index int, req Request) Outcome {
	started := time.Now()

	name := req.Name
	if name == "" {
		name = string(req.Kind)
	}
	out := Outcome{Index: index, Name: name, Kind: req.Kind}

	result, err := Execute(req)
	if err != nil {
		out.Err = err
		out.Duration = time.Since(started)
		r.logger.Warn("request %d (%s): %v", index, name, err)
		return out
	}

	text, err := analysis.FormatResult(result)
	if err != nil {
		out.Err = err
		out.Duration = time.Since(started)
		return out
	}

	out.Result = result
	out.Text = text
	out.Duration = time.Since(started)
	r.logger.Debug("request %d (%s): done in %v", index, name, out.Duration)
	return out
}
