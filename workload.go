package mlmdbench

import (
	"context"
	"math/rand"
)

// Workload is one benchmarkable operation family.
//
// SetUp prepares whatever state the operations need (registered schemas,
// pre-populated records) and TearDown releases it. RunOp executes exactly
// one operation and reports the bytes it moved; the caller measures its
// busy time. RunOp is called concurrently from multiple workers and must
// be safe for concurrent use; the rng is owned by the calling worker.
type Workload interface {
	// Name labels the workload in reports and results.
	Name() string

	// SetUp prepares the workload. Called once, before any RunOp.
	SetUp(ctx context.Context) error

	// RunOp executes a single operation and returns the bytes transferred.
	RunOp(ctx context.Context, rng *rand.Rand) (int64, error)

	// TearDown releases what SetUp built. Called once, after the last RunOp.
	TearDown(ctx context.Context) error
}
