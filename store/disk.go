package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/opencontainers/go-digest"
)

const (
	defaultShardPrefixLen = 2
	defaultDirPerm        = 0o700
)

// Disk is a filesystem-backed Store. Each artifact is gob-encoded,
// optionally zstd-compressed, and written atomically to a sharded path
// derived from its ID. A digest of the plain encoding is recorded in the
// record envelope and verified on read.
//
// The type registry and ID counters live in memory: the store exists for
// the duration of a benchmark run, not as a durable database.
type Disk struct {
	dir            string
	shardPrefixLen int
	dirPerm        os.FileMode
	compress       bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu         sync.Mutex
	types      map[int64]ArtifactType
	typeIDs    map[string]int64
	nextTypeID int64
	nextID     int64
	count      int64
}

// DiskOption configures a disk store.
type DiskOption func(*Disk)

// WithCompression enables zstd compression of record payloads.
func WithCompression(enabled bool) DiskOption {
	return func(d *Disk) {
		d.compress = enabled
	}
}

// WithShardPrefixLen sets the number of hex characters used for directory
// sharding. Use 0 to disable sharding. Defaults to 2.
func WithShardPrefixLen(n int) DiskOption {
	return func(d *Disk) {
		d.shardPrefixLen = n
	}
}

// WithDirPerm sets the permissions used for store directories.
func WithDirPerm(mode os.FileMode) DiskOption {
	return func(d *Disk) {
		d.dirPerm = mode
	}
}

// NewDisk creates a disk-backed store rooted at dir.
func NewDisk(dir string, opts ...DiskOption) (*Disk, error) {
	if dir == "" {
		return nil, errors.New("store: dir is empty")
	}
	d := &Disk{
		dir:            dir,
		shardPrefixLen: defaultShardPrefixLen,
		dirPerm:        defaultDirPerm,
		types:          make(map[int64]ArtifactType),
		typeIDs:        make(map[string]int64),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.shardPrefixLen < 0 {
		return nil, errors.New("store: shard prefix length must be >= 0")
	}
	if err := os.MkdirAll(dir, d.dirPerm); err != nil {
		return nil, err
	}

	var err error
	if d.encoder, err = zstd.NewWriter(nil); err != nil {
		return nil, err
	}
	if d.decoder, err = zstd.NewReader(nil); err != nil {
		d.encoder.Close()
		return nil, err
	}
	return d, nil
}

// record is the on-disk envelope around an encoded artifact.
type record struct {
	// Digest is the digest of the plain (uncompressed) artifact encoding.
	Digest string

	// Compressed marks Data as zstd-compressed.
	Compressed bool

	// Data is the gob-encoded artifact, compressed when Compressed is set.
	Data []byte
}

// PutArtifactType registers a type and returns its assigned ID.
func (d *Disk) PutArtifactType(_ context.Context, t ArtifactType) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.typeIDs[t.Name]; ok {
		return id, nil
	}
	d.nextTypeID++
	t.ID = d.nextTypeID
	t.Properties = append([]string(nil), t.Properties...)
	d.types[t.ID] = t
	d.typeIDs[t.Name] = t.ID
	return t.ID, nil
}

// PutArtifact stores an artifact and returns its assigned ID.
func (d *Disk) PutArtifact(_ context.Context, a Artifact) (int64, error) {
	d.mu.Lock()
	if _, ok := d.types[a.TypeID]; !ok {
		d.mu.Unlock()
		return 0, fmt.Errorf("put artifact %q: %w", a.Name, ErrTypeNotFound)
	}
	d.nextID++
	a.ID = d.nextID
	d.mu.Unlock()

	plain, err := encodeArtifact(a)
	if err != nil {
		return 0, err
	}
	rec := record{Digest: digest.FromBytes(plain).String()}
	if d.compress {
		rec.Compressed = true
		rec.Data = d.encoder.EncodeAll(plain, nil)
	} else {
		rec.Data = plain
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return 0, err
	}
	if err := d.writeFile(a.ID, buf.Bytes()); err != nil {
		return 0, err
	}

	d.mu.Lock()
	d.count++
	d.mu.Unlock()
	return a.ID, nil
}

// GetArtifact retrieves an artifact by ID, verifying its digest.
func (d *Disk) GetArtifact(_ context.Context, id int64) (Artifact, error) {
	data, err := os.ReadFile(d.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Artifact{}, fmt.Errorf("get artifact %d: %w", id, ErrNotFound)
		}
		return Artifact{}, err
	}

	var rec record
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return Artifact{}, fmt.Errorf("get artifact %d: %w: %v", id, ErrCorrupt, err)
	}

	plain := rec.Data
	if rec.Compressed {
		if plain, err = d.decoder.DecodeAll(rec.Data, nil); err != nil {
			return Artifact{}, fmt.Errorf("get artifact %d: %w: %v", id, ErrCorrupt, err)
		}
	}
	if digest.FromBytes(plain).String() != rec.Digest {
		return Artifact{}, fmt.Errorf("get artifact %d: %w: digest mismatch", id, ErrCorrupt)
	}

	a, err := decodeArtifact(plain)
	if err != nil {
		return Artifact{}, fmt.Errorf("get artifact %d: %w: %v", id, ErrCorrupt, err)
	}
	return a, nil
}

// ArtifactCount reports the number of stored artifacts.
func (d *Disk) ArtifactCount(_ context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count, nil
}

// Close releases the compression codecs.
func (d *Disk) Close() error {
	d.decoder.Close()
	return d.encoder.Close()
}

// writeFile writes content atomically: temp file in the final directory,
// then rename.
func (d *Disk) writeFile(id int64, content []byte) error {
	path := d.path(id)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, d.dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "rec-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// path maps an artifact ID to its record file. IDs are sequential, so the
// shard is taken from a digest of the ID to spread records evenly across
// directories.
func (d *Disk) path(id int64) string {
	name := strconv.FormatInt(id, 10)
	if d.shardPrefixLen <= 0 {
		return filepath.Join(d.dir, name+".rec")
	}
	shard := digest.FromString(name).Encoded()
	if d.shardPrefixLen < len(shard) {
		shard = shard[:d.shardPrefixLen]
	}
	return filepath.Join(d.dir, shard, name+".rec")
}

func encodeArtifact(a Artifact) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeArtifact(data []byte) (Artifact, error) {
	var a Artifact
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&a); err != nil {
		return Artifact{}, err
	}
	return a, nil
}
