package mlmdbench

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/gaybro8777/mlmd-bench/payload"
	"github.com/gaybro8777/mlmd-bench/store"
)

// FillTypes inserts artifact types with generated property schemas.
type FillTypes struct {
	store      store.Store
	properties int
	seq        atomic.Int64
}

// NewFillTypes returns a workload inserting types with the given number
// of properties each.
func NewFillTypes(s store.Store, properties int) *FillTypes {
	return &FillTypes{store: s, properties: properties}
}

func (f *FillTypes) Name() string { return "fill_types" }

func (f *FillTypes) SetUp(context.Context) error { return nil }

// RunOp registers one uniquely-named type.
func (f *FillTypes) RunOp(ctx context.Context, _ *rand.Rand) (int64, error) {
	t := store.ArtifactType{
		Name:       fmt.Sprintf("type-%06d", f.seq.Add(1)),
		Properties: payload.PropertyNames(f.properties),
	}
	if _, err := f.store.PutArtifactType(ctx, t); err != nil {
		return 0, err
	}
	transferred := int64(len(t.Name))
	for _, p := range t.Properties {
		transferred += int64(len(p))
	}
	return transferred, nil
}

func (f *FillTypes) TearDown(context.Context) error { return nil }

// FillArtifacts inserts artifacts carrying generated property payloads.
type FillArtifacts struct {
	store      store.Store
	valueSize  int
	properties []string
	pattern    payload.Pattern
	typeID     int64
	seq        atomic.Int64
}

// NewFillArtifacts returns a workload inserting artifacts with the given
// number of properties, each valueSize bytes, in the given pattern.
func NewFillArtifacts(s store.Store, valueSize, properties int, pattern payload.Pattern) *FillArtifacts {
	return &FillArtifacts{
		store:      s,
		valueSize:  valueSize,
		properties: payload.PropertyNames(properties),
		pattern:    pattern,
	}
}

func (f *FillArtifacts) Name() string { return "fill_artifacts" }

// SetUp registers the artifact type all inserted records share.
func (f *FillArtifacts) SetUp(ctx context.Context) error {
	id, err := f.store.PutArtifactType(ctx, store.ArtifactType{
		Name:       "benchmark_artifact",
		Properties: f.properties,
	})
	if err != nil {
		return fmt.Errorf("register artifact type: %w", err)
	}
	f.typeID = id
	return nil
}

// RunOp inserts one artifact and returns its payload size.
func (f *FillArtifacts) RunOp(ctx context.Context, rng *rand.Rand) (int64, error) {
	a := store.Artifact{
		TypeID:     f.typeID,
		Name:       fmt.Sprintf("artifact-%09d", f.seq.Add(1)),
		Properties: make(map[string]string, len(f.properties)),
	}
	for _, p := range f.properties {
		a.Properties[p] = payload.Value(rng, f.valueSize, f.pattern)
	}
	if _, err := f.store.PutArtifact(ctx, a); err != nil {
		return 0, err
	}
	return a.PayloadSize(), nil
}

func (f *FillArtifacts) TearDown(context.Context) error { return nil }
