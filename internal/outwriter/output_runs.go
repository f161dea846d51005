package outwriter

import (
	"io"
	"strconv"
	"time"

	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/internal/parquet"
	"github.com/huangsam/pitfeat/schema"
)

// PrintRuns writes ledger runs using the configured output format.
func PrintRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	return printTo(cfg, func(w io.Writer) error { return WriteRuns(w, runs, cfg) })
}

// WriteRuns writes ledger runs to w.
func WriteRuns(w io.Writer, runs []schema.RunRecord, cfg *contract.Config) error {
	switch outputMode(cfg) {
	case schema.JSONOut:
		return writeJSON(w, runs)
	case schema.YAMLOut:
		return writeYAML(w, runs)
	case schema.ParquetOut:
		return parquet.Write(w, parquet.ConvertRunRecords(runs))
	}
	records := make([][]string, len(runs))
	for i, r := range runs {
		records[i] = []string{
			strconv.FormatInt(r.RunID, 10), r.Unit, r.TableName, r.StartTime.Format(time.DateTime),
			formatDuration(r.DurationMs), strconv.Itoa(r.FeatureCount), strconv.Itoa(r.SnapshotCount), r.State,
		}
	}
	if outputMode(cfg) == schema.CSVOut {
		header := []string{"run_id", "unit", "table_name", "start_time", "duration", "feature_count", "snapshot_count", "state"}
		return writeCSVWithHeader(w, header, records)
	}
	return writeTable(w, []string{"ID", "Unit", "Table", "Started", "Duration", "Features", "Snapshots", "State"}, records)
}

func formatDuration(ms *int64) string {
	if ms == nil {
		return "-"
	}
	return (time.Duration(*ms) * time.Millisecond).String()
}
