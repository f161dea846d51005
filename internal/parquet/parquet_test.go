package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/pitfeat/schema"
)

func readAll[T any](t *testing.T, r io.ReaderAt, size int64) []T {
	t.Helper()
	file, err := parquet.OpenFile(r, size)
	require.NoError(t, err)
	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Run))
	for _, col := range []string{
		"run_id", "run_uuid", "unit", "table_name", "start_time", "end_time",
		"duration_ms", "feature_count", "snapshot_count", "state", "error_text",
	} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "column %s should exist", col)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	start := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	duration := int64(90000)
	failure := "relation staging.dispatches does not exist"
	records := []schema.RunRecord{
		{RunID: 1, RunUUID: "a", Unit: "dispatch", TableName: "dispatch_features", StartTime: start,
			EndTime: &end, DurationMs: &duration, FeatureCount: 2, State: "succeeded"},
		{RunID: 2, RunUUID: "b", Unit: "officer", TableName: "officer_features", StartTime: start,
			FeatureCount: 12, SnapshotCount: 3, State: "failed", ErrorText: &failure},
	}

	path := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteRunsParquet(ConvertRunRecords(records), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rows := readAll[Run](t, bytes.NewReader(data), int64(len(data)))
	require.Len(t, rows, 2)

	assert.Equal(t, "dispatch_features", rows[0].TableName)
	require.NotNil(t, rows[0].EndTime)
	assert.True(t, end.Equal(*rows[0].EndTime))
	assert.Equal(t, duration, *rows[0].DurationMs)
	assert.Nil(t, rows[0].ErrorText)

	assert.Nil(t, rows[1].EndTime)
	assert.Nil(t, rows[1].DurationMs)
	assert.Equal(t, int32(3), rows[1].SnapshotCount)
	require.NotNil(t, rows[1].ErrorText)
	assert.Equal(t, failure, *rows[1].ErrorText)
}

func TestWriteRunFeaturesParquet(t *testing.T) {
	records := []schema.RunFeatureRecord{
		{RunID: 1, FeatureName: "DispatchHour", Kind: "numeric", Snapshots: 1, DurationMs: 120},
		{RunID: 1, FeatureName: "DispatchType", Kind: "categorical", Snapshots: 1, DurationMs: 340},
	}
	path := filepath.Join(t.TempDir(), "features.parquet")
	require.NoError(t, WriteRunFeaturesParquet(ConvertRunFeatureRecords(records), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rows := readAll[RunFeature](t, bytes.NewReader(data), int64(len(data)))
	assert.Equal(t, []RunFeature{
		{RunID: 1, FeatureName: "DispatchHour", Kind: "numeric", Snapshots: 1, DurationMs: 120},
		{RunID: 1, FeatureName: "DispatchType", Kind: "categorical", Snapshots: 1, DurationMs: 340},
	}, rows)
}

func TestWriteSnapshotsParquet(t *testing.T) {
	snapshots := []time.Time{
		time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2015, time.July, 1, 0, 0, 0, 0, time.UTC),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshotsParquet(&buf, snapshots))

	rows := readAll[Snapshot](t, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.Len(t, rows, 2)
	assert.Equal(t, "01Jan2015", rows[0].Token)
	assert.Equal(t, "01Jul2015", rows[1].Token)
	assert.True(t, snapshots[1].Equal(rows[1].FakeToday))
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteRunsParquet([]Run{}, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteFileBadPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}
