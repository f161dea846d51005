// Package parquet exports run ledger records and snapshot plans to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/huangsam/pitfeat/schema"
)

// Run represents a single materialization run.
// This struct maps to the pitfeat_runs database table.
type Run struct {
	RunID         int64      `parquet:"run_id,snappy"`
	RunUUID       string     `parquet:"run_uuid,snappy"`
	Unit          string     `parquet:"unit,snappy,dict"`
	TableName     string     `parquet:"table_name,snappy,dict"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	DurationMs    *int64     `parquet:"duration_ms,optional,snappy"`
	FeatureCount  int32      `parquet:"feature_count,snappy"`
	SnapshotCount int32      `parquet:"snapshot_count,snappy"`
	State         string     `parquet:"state,snappy,dict"`
	ErrorText     *string    `parquet:"error_text,optional,snappy"`
}

// RunFeature is the timing of one feature inside a run.
// This struct maps to the pitfeat_run_features database table.
type RunFeature struct {
	RunID       int64  `parquet:"run_id,snappy"`
	FeatureName string `parquet:"feature_name,snappy,dict"`
	Kind        string `parquet:"kind,snappy,dict"`
	Snapshots   int32  `parquet:"snapshots,snappy"`
	DurationMs  int64  `parquet:"duration_ms,snappy"`
}

// Snapshot is one distinct fake_today of a cohort plan.
type Snapshot struct {
	FakeToday time.Time `parquet:"fake_today,snappy"`
	Token     string    `parquet:"token,snappy"`
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, r := range records {
		result[i] = Run{
			RunID:         r.RunID,
			RunUUID:       r.RunUUID,
			Unit:          r.Unit,
			TableName:     r.TableName,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			DurationMs:    r.DurationMs,
			FeatureCount:  int32(r.FeatureCount),
			SnapshotCount: int32(r.SnapshotCount),
			State:         r.State,
			ErrorText:     r.ErrorText,
		}
	}
	return result
}

// ConvertRunFeatureRecords converts schema.RunFeatureRecord to RunFeature for Parquet export.
func ConvertRunFeatureRecords(records []schema.RunFeatureRecord) []RunFeature {
	result := make([]RunFeature, len(records))
	for i, r := range records {
		result[i] = RunFeature{
			RunID:       r.RunID,
			FeatureName: r.FeatureName,
			Kind:        r.Kind,
			Snapshots:   int32(r.Snapshots),
			DurationMs:  r.DurationMs,
		}
	}
	return result
}

// ConvertSnapshots converts planned snapshots to Snapshot rows.
func ConvertSnapshots(snapshots []time.Time) []Snapshot {
	result := make([]Snapshot, len(snapshots))
	for i, s := range snapshots {
		result[i] = Snapshot{FakeToday: s, Token: s.Format(schema.SnapshotLayout)}
	}
	return result
}

// Write encodes rows to w with a schema inferred from T's struct tags.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes run records to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteRunFeaturesParquet writes run feature records to a Parquet file.
func WriteRunFeaturesParquet(data []RunFeature, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteSnapshotsParquet writes a snapshot plan to w.
func WriteSnapshotsParquet(w io.Writer, snapshots []time.Time) error {
	return Write(w, ConvertSnapshots(snapshots))
}
