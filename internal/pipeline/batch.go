package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clintab/clintab/internal/model"
	"github.com/clintab/clintab/internal/spec"
)

// Job is one report to render: its specification, the dataset it runs
// against, and the source metadata recorded on the artifact.
type Job struct {
	// Name identifies the report in results and logs, conventionally
	// the specification file's base name.
	Name string

	// Spec is the report specification.
	Spec *spec.Specification

	// Dataset is the input data. Each job owns its dataset exclusively.
	Dataset *model.Dataset

	// Source describes where the dataset came from.
	Source model.Source
}

// Result is the outcome of one batch job. A failed job carries its
// error here; sibling jobs are unaffected.
type Result struct {
	// Name is the job's name.
	Name string

	// Artifact is the rendered table, nil when the job failed.
	Artifact *model.Artifact

	// Err is the job's failure, nil on success.
	Err error
}

// BatchRenderer renders multiple independent reports concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchRenderer rather than adding
// batch functionality to Builder because:
//  1. It keeps the Builder focused on single-report execution
//  2. It allows different batch strategies without touching the pipeline
//  3. Immutable datasets make jobs coordination-free, so all the batch
//     layer manages is the limit and result ordering
type BatchRenderer struct {
	// concurrency is the maximum number of reports rendered at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// clock is passed through to each job's pipeline.
	clock func() time.Time

	// results stores completed jobs in input order.
	// Access is synchronized via mutex.
	results []Result
	mu      sync.Mutex
}

// BatchOption configures a BatchRenderer.
type BatchOption func(*BatchRenderer)

// WithBatchLogger sets a custom logger for batch rendering.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRenderer) {
		b.logger = logger
	}
}

// WithBatchConcurrency sets the maximum number of concurrent renders.
// Default is 4 if not specified.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *BatchRenderer) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchClock sets the time source passed to every job's pipeline.
func WithBatchClock(clock func() time.Time) BatchOption {
	return func(b *BatchRenderer) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// NewBatchRenderer creates a BatchRenderer.
func NewBatchRenderer(opts ...BatchOption) *BatchRenderer {
	b := &BatchRenderer{
		concurrency: 4,
		clock:       time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// RenderAll renders every job concurrently, respecting the concurrency
// limit and context cancellation. Results come back in input order.
// Per-job failures are recorded in the results and do not cancel
// sibling jobs; the error return reports only cancellation.
func (b *BatchRenderer) RenderAll(ctx context.Context, jobs []Job) ([]Result, error) {
	b.logger.Info("starting batch render",
		"total_jobs", len(jobs),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results to maintain input order.
	b.results = make([]Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			b.logger.Info("rendering report",
				"report", job.Name,
				"index", i+1,
				"total", len(jobs),
			)

			artifact, err := Render(ctx, job.Dataset, job.Spec,
				WithLogger(b.logger),
				WithClock(b.clock),
				WithSource(job.Source),
			)

			b.mu.Lock()
			b.results[i] = Result{Name: job.Name, Artifact: artifact, Err: err}
			b.mu.Unlock()

			if err != nil {
				b.logger.Warn("render failed",
					"report", job.Name,
					"error", err,
				)
				// Keep sibling jobs running; the failure is recorded
				// in the result.
				return nil
			}

			b.logger.Info("render completed",
				"report", job.Name,
			)

			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	b.logger.Info("batch render complete",
		"total_jobs", len(jobs),
		"elapsed", elapsed,
	)

	return b.results, err
}
