// Package config loads and validates the benchmark run configuration.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/gaybro8777/mlmd-bench/payload"
)

// Workload kinds.
const (
	KindFillTypes     = "fill_types"
	KindFillArtifacts = "fill_artifacts"
	KindReadArtifacts = "read_artifacts"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreDisk   = "disk"
)

// Config describes a full benchmark run.
type Config struct {
	// Threads is the number of workers every workload runs with.
	Threads int `mapstructure:"threads"`

	// Seed is the base seed for per-worker random streams.
	Seed int64 `mapstructure:"seed"`

	Store     StoreConfig      `mapstructure:"store"`
	Workloads []WorkloadConfig `mapstructure:"workloads"`
}

// StoreConfig selects and parameterizes the benchmarked backend.
type StoreConfig struct {
	// Kind is "memory" or "disk".
	Kind string `mapstructure:"kind"`

	// Dir is the disk store root. Empty means a temporary directory.
	Dir string `mapstructure:"dir"`

	// Compression is "none" or "zstd" (disk store only).
	Compression string `mapstructure:"compression"`
}

// WorkloadConfig describes one workload in the run.
type WorkloadConfig struct {
	// Kind selects the workload implementation.
	Kind string `mapstructure:"kind"`

	// Ops is the total operation count across all workers.
	Ops int `mapstructure:"ops"`

	// ValueSize is the size in bytes of each generated property value.
	ValueSize int `mapstructure:"value_size"`

	// Properties is the number of properties per record.
	Properties int `mapstructure:"properties"`

	// Pattern is "compressible" or "random".
	Pattern string `mapstructure:"pattern"`

	// Populate is the number of records a read workload pre-inserts.
	Populate int `mapstructure:"populate"`
}

// Load reads the YAML configuration at path. Values may be overridden via
// MLMD_BENCH_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("threads", 1)
	v.SetDefault("seed", 1)
	v.SetDefault("store.kind", StoreMemory)
	v.SetDefault("store.compression", "none")

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MLMD_BENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for inconsistencies, failing fast
// before any benchmark work starts.
func (c *Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("threads must be >= 1, got %d", c.Threads)
	}
	if len(c.Workloads) == 0 {
		return errors.New("no workloads configured")
	}

	switch c.Store.Kind {
	case StoreMemory, StoreDisk:
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	switch c.Store.Compression {
	case "", "none", "zstd":
	default:
		return fmt.Errorf("unknown store compression %q", c.Store.Compression)
	}

	for i, w := range c.Workloads {
		if err := w.validate(); err != nil {
			return fmt.Errorf("workload %d: %w", i, err)
		}
	}
	return nil
}

func (w *WorkloadConfig) validate() error {
	switch w.Kind {
	case KindFillTypes, KindFillArtifacts, KindReadArtifacts:
	default:
		return fmt.Errorf("unknown kind %q", w.Kind)
	}
	if w.Ops <= 0 {
		return fmt.Errorf("ops must be > 0, got %d", w.Ops)
	}
	if w.ValueSize < 0 {
		return fmt.Errorf("value_size must be >= 0, got %d", w.ValueSize)
	}
	if w.Kind != KindFillTypes && w.Properties < 1 {
		return fmt.Errorf("properties must be >= 1, got %d", w.Properties)
	}
	if w.Kind == KindReadArtifacts && w.Populate < 1 {
		return fmt.Errorf("populate must be >= 1 for read workloads, got %d", w.Populate)
	}
	if _, err := payload.ParsePattern(w.Pattern); err != nil {
		return err
	}
	return nil
}
