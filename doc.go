// Package mlmdbench is a benchmarking harness for metadata store backends.
//
// A benchmark run executes one or more workloads (schema fills, record
// fills, random reads) across a pool of workers. Each worker owns a
// [ThreadStats] collector that accumulates operation counts, transferred
// bytes, and busy time; when all workers finish, the collectors are merged
// into a single run-level summary that reports average per-operation
// latency and wall-clock throughput.
//
// # Quick Start
//
// Run a fill workload against an in-memory store:
//
//	st := store.NewMemory()
//	w := mlmdbench.NewFillArtifacts(st, 1024, 4, payload.PatternCompressible)
//	r := mlmdbench.NewRunner(mlmdbench.WithThreads(8))
//	result, err := r.Run(ctx, w, 100000)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.MicrosPerOperation)
//
// The two figures a run produces are deliberately different in kind:
// latency averages the summed busy time of every worker, independent of
// concurrency, while throughput divides total bytes by the true wall-clock
// span of the run (earliest worker start to latest worker finish).
//
// The mlmd-bench command under cmd/ drives the harness from a YAML
// configuration file and writes a structured JSON summary.
package mlmdbench
