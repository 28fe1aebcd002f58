package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Store guarded by a read-write mutex.
type Memory struct {
	mu         sync.RWMutex
	types      map[int64]ArtifactType
	typeIDs    map[string]int64
	artifacts  map[int64]Artifact
	nextTypeID int64
	nextID     int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		types:     make(map[int64]ArtifactType),
		typeIDs:   make(map[string]int64),
		artifacts: make(map[int64]Artifact),
	}
}

// PutArtifactType registers a type and returns its assigned ID.
func (m *Memory) PutArtifactType(_ context.Context, t ArtifactType) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.typeIDs[t.Name]; ok {
		return id, nil
	}
	m.nextTypeID++
	t.ID = m.nextTypeID
	t.Properties = append([]string(nil), t.Properties...)
	m.types[t.ID] = t
	m.typeIDs[t.Name] = t.ID
	return t.ID, nil
}

// PutArtifact stores an artifact and returns its assigned ID.
func (m *Memory) PutArtifact(_ context.Context, a Artifact) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.types[a.TypeID]; !ok {
		return 0, fmt.Errorf("put artifact %q: %w", a.Name, ErrTypeNotFound)
	}
	m.nextID++
	a.ID = m.nextID
	a.Properties = copyProperties(a.Properties)
	m.artifacts[a.ID] = a
	return a.ID, nil
}

// GetArtifact retrieves an artifact by ID.
func (m *Memory) GetArtifact(_ context.Context, id int64) (Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.artifacts[id]
	if !ok {
		return Artifact{}, fmt.Errorf("get artifact %d: %w", id, ErrNotFound)
	}
	a.Properties = copyProperties(a.Properties)
	return a, nil
}

// ArtifactCount reports the number of stored artifacts.
func (m *Memory) ArtifactCount(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.artifacts)), nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }

// copyProperties keeps stored records isolated from caller mutation.
func copyProperties(props map[string]string) map[string]string {
	if props == nil {
		return nil
	}
	out := make(map[string]string, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
