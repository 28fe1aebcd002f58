package mlmdbench_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mlmdbench "github.com/gaybro8777/mlmd-bench"
	"github.com/gaybro8777/mlmd-bench/payload"
	"github.com/gaybro8777/mlmd-bench/store"
)

// Drives the harness through its exported surface only, the way the
// package documentation shows it.
func TestQuickStartFillArtifacts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := store.NewMemory()
	w := mlmdbench.NewFillArtifacts(st, 1024, 4, payload.PatternCompressible)
	r := mlmdbench.NewRunner(mlmdbench.WithThreads(4))

	result, err := r.Run(ctx, w, 200)
	require.NoError(t, err)

	assert.Equal(t, "fill_artifacts", result.Workload)
	assert.Positive(t, result.MicrosPerOperation)

	count, err := st.ArtifactCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(200), count)
}

func TestQuickStartReadArtifactsByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	pattern, err := payload.ParsePattern("random")
	require.NoError(t, err)

	st := store.NewMemory()
	w := mlmdbench.NewReadArtifactsByID(st, 50, 256, 2, pattern)
	r := mlmdbench.NewRunner(mlmdbench.WithThreads(2))

	result, err := r.Run(ctx, w, 100)
	require.NoError(t, err)
	assert.Positive(t, result.BytesPerSecond)
}
