package mlmdbench

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkloadResultJSONFieldNames(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(WorkloadResult{
		Workload:           "fill_artifacts",
		BytesPerSecond:     1048576,
		MicrosPerOperation: 200,
	})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "bytes_per_second")
	assert.Contains(t, fields, "microseconds_per_operation")
	assert.Contains(t, fields, "workload")
}

func TestRunSummaryWriteFile(t *testing.T) {
	t.Parallel()

	summary := NewRunSummary(4)
	summary.Append(WorkloadResult{Workload: "fill_types", MicrosPerOperation: 12.5})
	require.NotEmpty(t, summary.RunID)

	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, summary.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got RunSummary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, summary.RunID, got.RunID)
	assert.Equal(t, 4, got.Threads)
	require.Len(t, got.Results, 1)
	assert.Equal(t, 12.5, got.Results[0].MicrosPerOperation)
}
