// Package store provides the metadata store backends the benchmark
// harness exercises.
//
// A Store holds typed artifact records. The memory implementation is the
// contention-free baseline; the disk implementation adds persistence with
// optional zstd compression and digest-verified reads.
package store

import (
	"context"
	"errors"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when no artifact exists for the requested ID.
	ErrNotFound = errors.New("store: artifact not found")

	// ErrTypeNotFound is returned when an artifact references an unknown type.
	ErrTypeNotFound = errors.New("store: artifact type not found")

	// ErrCorrupt is returned when stored content fails digest verification.
	ErrCorrupt = errors.New("store: record corrupt")
)

// ArtifactType describes the schema of a family of artifacts.
type ArtifactType struct {
	// ID is assigned by the store; zero on input.
	ID int64

	// Name identifies the type. Registering a name twice returns the
	// original ID.
	Name string

	// Properties lists the property names artifacts of this type carry.
	Properties []string
}

// Artifact is one stored metadata record.
type Artifact struct {
	// ID is assigned by the store; zero on input.
	ID int64

	// TypeID references a registered ArtifactType.
	TypeID int64

	// Name identifies the artifact.
	Name string

	// Properties holds the record's payload, keyed by property name.
	Properties map[string]string
}

// PayloadSize returns the bytes of user payload in the record. The
// harness uses it to account transferred bytes per operation.
func (a Artifact) PayloadSize() int64 {
	n := int64(len(a.Name))
	for k, v := range a.Properties {
		n += int64(len(k) + len(v))
	}
	return n
}

// Store is the metadata surface the benchmark workloads exercise.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// PutArtifactType registers a type and returns its assigned ID.
	// Registering an already-known name returns the existing ID.
	PutArtifactType(ctx context.Context, t ArtifactType) (int64, error)

	// PutArtifact stores an artifact and returns its assigned ID.
	// Returns ErrTypeNotFound if the artifact's type is not registered.
	PutArtifact(ctx context.Context, a Artifact) (int64, error)

	// GetArtifact retrieves an artifact by ID.
	// Returns ErrNotFound if no artifact exists for the ID.
	GetArtifact(ctx context.Context, id int64) (Artifact, error)

	// ArtifactCount reports the number of stored artifacts.
	ArtifactCount(ctx context.Context) (int64, error)

	// Close releases resources held by the store.
	Close() error
}
