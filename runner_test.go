package mlmdbench

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaybro8777/mlmd-bench/payload"
	"github.com/gaybro8777/mlmd-bench/internal/testutil"
	"github.com/gaybro8777/mlmd-bench/store"
)

// countingWorkload records RunOp and lifecycle calls.
type countingWorkload struct {
	ops      atomic.Int64
	setUp    atomic.Int64
	tearDown atomic.Int64
	perOp    int64
	failAt   int64
}

func (w *countingWorkload) Name() string { return "counting" }

func (w *countingWorkload) SetUp(context.Context) error {
	w.setUp.Add(1)
	return nil
}

func (w *countingWorkload) RunOp(context.Context, *rand.Rand) (int64, error) {
	n := w.ops.Add(1)
	if w.failAt > 0 && n >= w.failAt {
		return 0, errors.New("synthetic op failure")
	}
	return w.perOp, nil
}

func (w *countingWorkload) TearDown(context.Context) error {
	w.tearDown.Add(1)
	return nil
}

func TestRunnerRunsEveryOperationExactlyOnce(t *testing.T) {
	t.Parallel()

	const totalOps = 1000
	w := &countingWorkload{perOp: 8}
	var out bytes.Buffer
	r := NewRunner(
		WithThreads(4),
		WithProgressSink(&testutil.CaptureSink{}),
		WithReportWriter(&out),
	)

	result, err := r.Run(context.Background(), w, totalOps)
	require.NoError(t, err)

	assert.Equal(t, int64(totalOps), w.ops.Load())
	assert.Equal(t, int64(1), w.setUp.Load())
	assert.Equal(t, int64(1), w.tearDown.Load())
	assert.Equal(t, "counting", result.Workload)
	assert.GreaterOrEqual(t, result.BytesPerSecond, 0.0)
	assert.Contains(t, out.String(), "micros/op")
}

func TestRunnerSplitsRemainderAcrossWorkers(t *testing.T) {
	t.Parallel()

	// 10 ops over 4 workers: shares 3,3,2,2.
	shares := make([]int, 4)
	total := 0
	for i := range shares {
		shares[i] = workerShare(10, 4, i)
		total += shares[i]
	}
	assert.Equal(t, []int{3, 3, 2, 2}, shares)
	assert.Equal(t, 10, total)
}

func TestRunnerFailingOpAbortsRun(t *testing.T) {
	t.Parallel()

	w := &countingWorkload{perOp: 1, failAt: 5}
	r := NewRunner(
		WithThreads(2),
		WithProgressSink(&testutil.CaptureSink{}),
		WithReportWriter(&bytes.Buffer{}),
	)

	_, err := r.Run(context.Background(), w, 1000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "synthetic op failure")
	assert.Equal(t, int64(1), w.tearDown.Load(), "teardown still runs after a failed op")
	assert.Less(t, w.ops.Load(), int64(1000), "remaining operations are abandoned")
}

func TestRunnerSetUpFailureSkipsOps(t *testing.T) {
	t.Parallel()

	w := &failingSetUpWorkload{}
	r := NewRunner(WithThreads(2))

	_, err := r.Run(context.Background(), w, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set up")
}

type failingSetUpWorkload struct{ countingWorkload }

func (w *failingSetUpWorkload) SetUp(context.Context) error {
	return errors.New("backend unavailable")
}

func TestRunnerZeroOpsReportsNeverExecuted(t *testing.T) {
	t.Parallel()

	w := &countingWorkload{}
	r := NewRunner(
		WithThreads(2),
		WithProgressSink(&testutil.CaptureSink{}),
		WithReportWriter(&bytes.Buffer{}),
	)

	_, err := r.Run(context.Background(), w, 0)
	require.ErrorIs(t, err, ErrNeverExecuted)
}

func TestRunnerCancelledContextStopsWorkers(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &countingWorkload{perOp: 1}
	r := NewRunner(WithThreads(2), WithReportWriter(&bytes.Buffer{}))

	_, err := r.Run(ctx, w, 1000)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, w.ops.Load())
}

func TestRunnerEndToEndAgainstMemoryStore(t *testing.T) {
	t.Parallel()

	const totalOps = 500
	st := store.NewMemory()
	w := NewFillArtifacts(st, 64, 2, payload.PatternCompressible)
	var out bytes.Buffer
	r := NewRunner(
		WithThreads(3),
		WithSeed(7),
		WithProgressSink(&testutil.CaptureSink{}),
		WithReportWriter(&out),
	)

	result, err := r.Run(context.Background(), w, totalOps)
	require.NoError(t, err)

	count, err := st.ArtifactCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(totalOps), count)
	assert.Positive(t, result.MicrosPerOperation)
	assert.Positive(t, result.BytesPerSecond)
	assert.Contains(t, out.String(), "fill_artifacts")
}
