package mlmdbench

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// WorkloadResult is the structured outcome of one workload run, carrying
// the same two figures the report line prints.
type WorkloadResult struct {
	// Workload is the label the run was reported under.
	Workload string `json:"workload"`

	// BytesPerSecond is throughput over the wall-clock span of the run.
	// Zero when the workload transferred no bytes.
	BytesPerSecond float64 `json:"bytes_per_second"`

	// MicrosPerOperation is the average per-operation busy time in
	// microseconds, summed across workers and independent of concurrency.
	MicrosPerOperation float64 `json:"microseconds_per_operation"`
}

// RunSummary aggregates the results of a full benchmark run for
// downstream consumption.
type RunSummary struct {
	RunID     string           `json:"run_id"`
	StartedAt time.Time        `json:"started_at"`
	Threads   int              `json:"threads"`
	Results   []WorkloadResult `json:"results"`
}

// NewRunSummary stamps a fresh summary with a unique run ID.
func NewRunSummary(threads int) *RunSummary {
	return &RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Threads:   threads,
	}
}

// Append records one workload's result.
func (r *RunSummary) Append(res WorkloadResult) {
	r.Results = append(r.Results, res)
}

// WriteFile serializes the summary as indented JSON to path.
func (r *RunSummary) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644) //nolint:gosec // results are not sensitive
}
