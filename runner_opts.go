package mlmdbench

import (
	"io"
	"log/slog"
)

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithThreads sets the number of worker threads. Values < 1 mean one.
func WithThreads(n int) RunnerOption {
	return func(r *Runner) {
		r.threads = n
	}
}

// WithSeed sets the base seed for the per-worker random streams. Worker i
// derives its stream from seed+i, so runs are reproducible.
func WithSeed(seed int64) RunnerOption {
	return func(r *Runner) {
		r.seed = seed
	}
}

// WithLogger sets the logger used for run diagnostics.
// A nil logger discards all output.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithProgressSink routes worker progress lines to sink instead of stderr.
func WithProgressSink(sink ProgressSink) RunnerOption {
	return func(r *Runner) {
		r.progress = sink
	}
}

// WithReportWriter routes workload report lines to w instead of stdout.
func WithReportWriter(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.report = w
	}
}
