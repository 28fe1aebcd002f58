package mlmdbench

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/gaybro8777/mlmd-bench/payload"
	"github.com/gaybro8777/mlmd-bench/store"
)

// ReadArtifactsByID reads uniformly random artifacts from a pre-populated
// store.
type ReadArtifactsByID struct {
	store     store.Store
	populate  int
	valueSize int
	pattern   payload.Pattern
	propNames []string
	ids       []int64
}

// NewReadArtifactsByID returns a workload whose SetUp inserts populate
// artifacts (properties of valueSize bytes each, in the given pattern) and
// whose operations read them back by random ID.
func NewReadArtifactsByID(s store.Store, populate, valueSize, properties int, pattern payload.Pattern) *ReadArtifactsByID {
	return &ReadArtifactsByID{
		store:     s,
		populate:  populate,
		valueSize: valueSize,
		pattern:   pattern,
		propNames: payload.PropertyNames(properties),
	}
}

func (r *ReadArtifactsByID) Name() string { return "read_artifacts" }

// SetUp registers the shared type and pre-populates the ID space.
func (r *ReadArtifactsByID) SetUp(ctx context.Context) error {
	if r.populate <= 0 {
		return errors.New("read workload requires a populated store")
	}
	typeID, err := r.store.PutArtifactType(ctx, store.ArtifactType{
		Name:       "benchmark_artifact",
		Properties: r.propNames,
	})
	if err != nil {
		return fmt.Errorf("register artifact type: %w", err)
	}

	rng := rand.New(rand.NewSource(int64(r.populate))) //nolint:gosec // deterministic fixture data
	r.ids = make([]int64, 0, r.populate)
	for i := 0; i < r.populate; i++ {
		a := store.Artifact{
			TypeID:     typeID,
			Name:       fmt.Sprintf("artifact-%09d", i),
			Properties: make(map[string]string, len(r.propNames)),
		}
		for _, p := range r.propNames {
			a.Properties[p] = payload.Value(rng, r.valueSize, r.pattern)
		}
		id, err := r.store.PutArtifact(ctx, a)
		if err != nil {
			return fmt.Errorf("populate store: %w", err)
		}
		r.ids = append(r.ids, id)
	}
	return nil
}

// RunOp reads one random artifact and returns its payload size.
func (r *ReadArtifactsByID) RunOp(ctx context.Context, rng *rand.Rand) (int64, error) {
	id := r.ids[rng.Intn(len(r.ids))]
	a, err := r.store.GetArtifact(ctx, id)
	if err != nil {
		return 0, err
	}
	return a.PayloadSize(), nil
}

func (r *ReadArtifactsByID) TearDown(context.Context) error { return nil }
