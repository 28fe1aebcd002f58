package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPutGetRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	typeID, err := m.PutArtifactType(ctx, ArtifactType{Name: "model", Properties: []string{"version"}})
	require.NoError(t, err)

	id, err := m.PutArtifact(ctx, Artifact{
		TypeID:     typeID,
		Name:       "model-1",
		Properties: map[string]string{"version": "v1"},
	})
	require.NoError(t, err)

	got, err := m.GetArtifact(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "model-1", got.Name)
	assert.Equal(t, typeID, got.TypeID)
	assert.Equal(t, map[string]string{"version": "v1"}, got.Properties)
}

func TestMemoryTypeRegistrationIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	first, err := m.PutArtifactType(ctx, ArtifactType{Name: "model"})
	require.NoError(t, err)
	second, err := m.PutArtifactType(ctx, ArtifactType{Name: "model"})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMemoryUnknownTypeRejected(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	_, err := m.PutArtifact(context.Background(), Artifact{TypeID: 99, Name: "orphan"})
	require.ErrorIs(t, err, ErrTypeNotFound)
}

func TestMemoryGetMissingArtifact(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	_, err := m.GetArtifact(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRecordsIsolatedFromCallerMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	typeID, err := m.PutArtifactType(ctx, ArtifactType{Name: "model"})
	require.NoError(t, err)

	props := map[string]string{"k": "original"}
	id, err := m.PutArtifact(ctx, Artifact{TypeID: typeID, Name: "a", Properties: props})
	require.NoError(t, err)
	props["k"] = "mutated"

	got, err := m.GetArtifact(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Properties["k"])
}

func TestMemoryConcurrentPuts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()
	typeID, err := m.PutArtifactType(ctx, ArtifactType{Name: "model"})
	require.NoError(t, err)

	const workers = 8
	const perWorker = 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := m.PutArtifact(ctx, Artifact{
					TypeID: typeID,
					Name:   fmt.Sprintf("a-%d-%d", w, i),
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	count, err := m.ArtifactCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker), count)
}
