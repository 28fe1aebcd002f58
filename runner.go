package mlmdbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultThreads = 1

// Runner executes workloads across a pool of workers. Each worker owns one
// ThreadStats collector; after the pool drains, the collectors are merged
// and the merged collector renders the workload's report.
type Runner struct {
	threads  int
	seed     int64
	logger   *slog.Logger
	progress ProgressSink
	report   io.Writer
}

// NewRunner returns a Runner configured by opts.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		threads: defaultThreads,
		seed:    1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.threads < 1 {
		r.threads = 1
	}
	return r
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Runner) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.logger
}

// Run executes totalOps operations of w spread across the runner's
// workers and returns the merged result.
//
// Each worker runs its share of operations sequentially, timing each
// RunOp and feeding the measurement to its own collector together with
// the shared approximate total-done counter. A failing operation cancels
// the remaining workers. TearDown always runs once SetUp has succeeded.
func (r *Runner) Run(ctx context.Context, w Workload, totalOps int) (WorkloadResult, error) {
	if totalOps < 0 {
		return WorkloadResult{}, fmt.Errorf("mlmdbench: negative operation count %d", totalOps)
	}
	if err := w.SetUp(ctx); err != nil {
		return WorkloadResult{}, fmt.Errorf("set up %s: %w", w.Name(), err)
	}

	r.log().Info("running workload", "workload", w.Name(), "ops", totalOps, "threads", r.threads)

	collectors := make([]*ThreadStats, r.threads)
	var totalDone atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.threads; i++ {
		stats := r.newCollector()
		collectors[i] = stats
		ops := workerShare(totalOps, r.threads, i)
		rng := rand.New(rand.NewSource(r.seed + int64(i))) //nolint:gosec // reproducible benchmark streams

		g.Go(func() error {
			stats.Start()
			defer stats.Stop()
			for n := 0; n < ops; n++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				opStart := time.Now()
				transferred, err := w.RunOp(gctx, rng)
				elapsed := time.Since(opStart)
				if err != nil {
					return fmt.Errorf("%s op: %w", w.Name(), err)
				}
				stats.Update(OpStats{TransferredBytes: transferred, Elapsed: elapsed}, totalDone.Add(1))
			}
			return nil
		})
	}

	runErr := g.Wait()
	tearErr := w.TearDown(ctx)
	if runErr != nil || tearErr != nil {
		return WorkloadResult{}, errors.Join(runErr, tearErr)
	}

	merged := collectors[0]
	for _, c := range collectors[1:] {
		merged.Merge(c)
	}
	return merged.Report(w.Name())
}

// newCollector builds a worker-owned collector with the runner's sinks.
func (r *Runner) newCollector() *ThreadStats {
	opts := []StatsOption{StatsWithLogger(r.logger)}
	if r.progress != nil {
		opts = append(opts, StatsWithProgressSink(r.progress))
	}
	if r.report != nil {
		opts = append(opts, StatsWithReportWriter(r.report))
	}
	return NewThreadStats(opts...)
}

// workerShare splits total operations evenly, spreading the remainder
// over the first workers.
func workerShare(total, workers, index int) int {
	share := total / workers
	if index < total%workers {
		share++
	}
	return share
}
