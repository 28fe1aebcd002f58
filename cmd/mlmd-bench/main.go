// Command mlmd-bench runs benchmark workloads against a metadata store
// backend and writes a structured result summary.
//
// Usage:
//
//	mlmd-bench --config bench.yaml --output results.json
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/spf13/pflag"

	mlmdbench "github.com/gaybro8777/mlmd-bench"
	"github.com/gaybro8777/mlmd-bench/internal/config"
	"github.com/gaybro8777/mlmd-bench/payload"
	"github.com/gaybro8777/mlmd-bench/store"
)

type flags struct {
	configPath string
	outputPath string
	threads    int
	logLevel   string
	cpuProfile string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mlmd-bench:", err)
		os.Exit(1)
	}
}

func run() error {
	f := parseFlags()

	logger, err := newLogger(f.logLevel)
	if err != nil {
		return err
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.threads > 0 {
		cfg.Threads = f.threads
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.cpuProfile != "" {
		cpuFile, err := os.Create(f.cpuProfile)
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			_ = cpuFile.Close()
			return err
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = cpuFile.Close()
		}()
	}

	st, cleanup, err := newStore(cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("closing store", "error", err)
		}
		if cleanup != nil {
			cleanup()
		}
	}()

	runner := mlmdbench.NewRunner(
		mlmdbench.WithThreads(cfg.Threads),
		mlmdbench.WithSeed(cfg.Seed),
		mlmdbench.WithLogger(logger),
	)
	summary := mlmdbench.NewRunSummary(cfg.Threads)

	for _, wc := range cfg.Workloads {
		w, err := newWorkload(wc, st)
		if err != nil {
			return err
		}
		result, err := runner.Run(ctx, w, wc.Ops)
		if err != nil {
			return fmt.Errorf("workload %s: %w", w.Name(), err)
		}
		summary.Append(result)
	}

	if f.outputPath != "" {
		if err := summary.WriteFile(f.outputPath); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		logger.Info("results written", "path", f.outputPath, "run_id", summary.RunID)
	}
	return nil
}

func parseFlags() flags {
	var f flags
	pflag.StringVar(&f.configPath, "config", "bench.yaml", "benchmark configuration file")
	pflag.StringVar(&f.outputPath, "output", "", "write the JSON run summary to this file")
	pflag.IntVar(&f.threads, "threads", 0, "override the configured worker count (0 uses the config)")
	pflag.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pflag.StringVar(&f.cpuProfile, "cpuprofile", "", "write a CPU profile to this file")
	pflag.Parse()
	return f
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

// newStore builds the benchmarked backend. The cleanup removes an
// auto-created temporary directory; it is nil otherwise.
func newStore(cfg config.StoreConfig) (store.Store, func(), error) {
	switch cfg.Kind {
	case config.StoreMemory:
		return store.NewMemory(), nil, nil
	case config.StoreDisk:
		dir := cfg.Dir
		var cleanup func()
		if dir == "" {
			tmp, err := os.MkdirTemp("", "mlmd-bench-*")
			if err != nil {
				return nil, nil, err
			}
			dir = tmp
			cleanup = func() { _ = os.RemoveAll(tmp) }
		}
		var opts []store.DiskOption
		if cfg.Compression == "zstd" {
			opts = append(opts, store.WithCompression(true))
		}
		st, err := store.NewDisk(dir, opts...)
		if err != nil {
			if cleanup != nil {
				cleanup()
			}
			return nil, nil, err
		}
		return st, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}

func newWorkload(wc config.WorkloadConfig, st store.Store) (mlmdbench.Workload, error) {
	pattern, err := payload.ParsePattern(wc.Pattern)
	if err != nil {
		return nil, err
	}
	switch wc.Kind {
	case config.KindFillTypes:
		return mlmdbench.NewFillTypes(st, wc.Properties), nil
	case config.KindFillArtifacts:
		return mlmdbench.NewFillArtifacts(st, wc.ValueSize, wc.Properties, pattern), nil
	case config.KindReadArtifacts:
		return mlmdbench.NewReadArtifactsByID(st, wc.Populate, wc.ValueSize, wc.Properties, pattern), nil
	default:
		return nil, fmt.Errorf("unknown workload kind %q", wc.Kind)
	}
}
