package mlmdbench

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Sentinel errors.
var (
	// ErrNeverExecuted is returned by Report when no operations were recorded.
	ErrNeverExecuted = errors.New("mlmdbench: workload never executed")
)

// initialReportThreshold is the watermark a fresh collector starts at.
const initialReportThreshold = 100

// reportThresholds are the magnitude bands governing progress cadence.
// The watermark advances by one tenth of the governing band and moves to
// the next band once it passes the current one, so progress lines thin out
// as the run grows.
var reportThresholds = [...]int64{1000, 5000, 10000, 50000, 100000, 500000, 1000000}

// OpStats is the measurement of a single completed operation.
type OpStats struct {
	// TransferredBytes is the payload moved by the operation.
	// Zero when the operation moves no data.
	TransferredBytes int64

	// Elapsed is the operation's busy time, excluding wait and idle.
	Elapsed time.Duration
}

// ProgressSink receives best-effort progress lines during accumulation.
//
// Lines from concurrent workers may interleave; implementations are not
// required to synchronize, and write failures are not surfaced.
type ProgressSink interface {
	WriteLine(line string)
}

// consoleSink terminates each progress line with a carriage return so a
// live terminal overwrites it in place.
type consoleSink struct {
	w io.Writer
}

func (s consoleSink) WriteLine(line string) {
	fmt.Fprintf(s.w, "%s\r", line) //nolint:errcheck // progress is best-effort
}

// ThreadStats accumulates performance counters for one worker.
//
// An instance is owned and mutated by exactly one worker between Start and
// Stop; it holds no locks. Once stopped, instances are immutable from the
// worker's point of view and may be folded together with Merge by a
// single-threaded aggregation step, after which Report renders the final
// figures for the whole run.
//
// Two notions of elapsed time coexist here and must not be conflated: the
// accumulated field sums each operation's busy time across all merged
// workers, while start/finish bound the real wall-clock span of the
// concurrent run.
type ThreadStats struct {
	accumulated time.Duration
	done        int64
	bytes       int64
	start       time.Time
	finish      time.Time

	// Progress cadence state. The band index persists across calls so the
	// watermark step actually grows with the run.
	nextReport int64
	bandIndex  int

	progress     ProgressSink
	reportWriter io.Writer
	logger       *slog.Logger
	now          func() time.Time
}

// NewThreadStats returns an empty collector. Start must be called before
// the first Update.
func NewThreadStats(opts ...StatsOption) *ThreadStats {
	s := &ThreadStats{
		nextReport:   initialReportThreshold,
		progress:     consoleSink{w: os.Stderr},
		reportWriter: os.Stdout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// log returns the logger, falling back to a discard logger if nil.
func (s *ThreadStats) log() *slog.Logger {
	if s.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.logger
}

// Start records the wall-clock start of this collector's run.
func (s *ThreadStats) Start() {
	s.start = s.now()
}

// Update records one completed operation.
//
// approxTotalDone is the caller's cheap count of operations finished so
// far across all workers. It only drives progress cadence and does not
// need to be exact. When it crosses the current watermark a single
// progress line is emitted and the watermark advances.
func (s *ThreadStats) Update(op OpStats, approxTotalDone int64) {
	s.bytes += op.TransferredBytes
	s.accumulated += op.Elapsed
	s.done++

	if approxTotalDone < s.nextReport {
		return
	}
	s.nextReport += reportThresholds[s.bandIndex] / 10
	if s.nextReport > reportThresholds[s.bandIndex] && s.bandIndex < len(reportThresholds)-1 {
		s.bandIndex++
	}
	s.progress.WriteLine(fmt.Sprintf("... finished %d ops%30s", approxTotalDone, ""))
}

// Stop records the wall-clock finish of this collector's run.
func (s *ThreadStats) Stop() {
	s.finish = s.now()
}

// Merge folds another collector's state into this one. Counters add
// element-wise; start takes the earlier timestamp and finish the later.
// Merging is commutative and associative, so collectors may be combined
// in any order or via pairwise reduction with an identical result.
func (s *ThreadStats) Merge(other *ThreadStats) {
	s.done += other.done
	s.bytes += other.bytes
	s.accumulated += other.accumulated
	if other.start.Before(s.start) {
		s.start = other.start
	}
	if other.finish.After(s.finish) {
		s.finish = other.finish
	}
}

// Done returns the number of operations recorded.
func (s *ThreadStats) Done() int64 { return s.done }

// Bytes returns the total transferred bytes recorded.
func (s *ThreadStats) Bytes() int64 { return s.bytes }

// AccumulatedElapsed returns the summed busy time of all recorded
// operations. Not wall-clock time.
func (s *ThreadStats) AccumulatedElapsed() time.Duration { return s.accumulated }

// WallClockSpan returns finish minus start, the real elapsed time of the
// (merged) run.
func (s *ThreadStats) WallClockSpan() time.Duration { return s.finish.Sub(s.start) }

// Report renders the final line for the (merged) run and returns the
// structured result.
//
// Latency is the average per-operation busy time and is independent of
// concurrency. Throughput divides total bytes by the wall-clock span of
// the run; it is zero when no bytes were transferred or when the span is
// zero, never NaN or Inf. The KB/s clause is omitted from the printed line
// when no bytes were transferred.
//
// Returns ErrNeverExecuted when no operations were recorded; the result
// is left empty and an error-level diagnostic is logged.
func (s *ThreadStats) Report(label string) (WorkloadResult, error) {
	if s.done == 0 {
		s.log().Error("workload never executed", "workload", label)
		return WorkloadResult{}, ErrNeverExecuted
	}

	microsPerOp := float64(s.accumulated) / float64(time.Microsecond) / float64(s.done)

	var bytesPerSecond float64
	var rate string
	if s.bytes > 0 {
		elapsedSeconds := float64(s.finish.Sub(s.start).Microseconds()) * 1e-6
		if elapsedSeconds > 0 {
			bytesPerSecond = float64(s.bytes) / elapsedSeconds
		}
		rate = fmt.Sprintf("%6.1f KB/s", bytesPerSecond/1024.0)
	}

	line := fmt.Sprintf("%-12s : %11.3f micros/op;", label, microsPerOp)
	if rate != "" {
		line += " " + rate
	}
	fmt.Fprintln(s.reportWriter, line) //nolint:errcheck // report write failure is not surfaced

	return WorkloadResult{
		Workload:           label,
		BytesPerSecond:     bytesPerSecond,
		MicrosPerOperation: microsPerOp,
	}, nil
}
