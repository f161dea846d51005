package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/internal/parquet"
	"github.com/huangsam/pitfeat/schema"
)

// PrintSnapshots writes a snapshot plan using the configured output format.
func PrintSnapshots(snapshots []time.Time, cfg *contract.Config) error {
	return printTo(cfg, func(w io.Writer) error { return WriteSnapshots(w, snapshots, cfg) })
}

// WriteSnapshots writes a snapshot plan to w.
func WriteSnapshots(w io.Writer, snapshots []time.Time, cfg *contract.Config) error {
	rows := schema.SnapshotRows(snapshots)
	switch outputMode(cfg) {
	case schema.JSONOut:
		return writeJSON(w, rows)
	case schema.YAMLOut:
		return writeYAML(w, rows)
	case schema.ParquetOut:
		return parquet.WriteSnapshotsParquet(w, snapshots)
	}
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{strconv.Itoa(r.Index), r.Token, r.FakeToday.Format(schema.TimestampLayout)}
	}
	switch outputMode(cfg) {
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"index", "token", "fake_today"}, records)
	default:
		if err := writeTable(w, []string{"#", "Token", "Fake Today"}, records); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%d distinct snapshots\n", len(rows))
		return err
	}
}

// PrintStatements writes generated SQL using the configured output format.
func PrintStatements(table schema.TableSpec, stmts []string, cfg *contract.Config) error {
	return printTo(cfg, func(w io.Writer) error { return WriteStatements(w, table, stmts, cfg) })
}

// WriteStatements writes generated SQL to w. Text output is a runnable script.
func WriteStatements(w io.Writer, table schema.TableSpec, stmts []string, cfg *contract.Config) error {
	type plan struct {
		Table      schema.TableSpec `json:"table" yaml:"table"`
		Statements []string         `json:"statements" yaml:"statements"`
	}
	switch outputMode(cfg) {
	case schema.JSONOut:
		return writeJSON(w, plan{Table: table, Statements: stmts})
	case schema.YAMLOut:
		return writeYAML(w, plan{Table: table, Statements: stmts})
	case schema.CSVOut:
		records := make([][]string, len(stmts))
		for i, s := range stmts {
			records[i] = []string{strconv.Itoa(i + 1), s}
		}
		return writeCSVWithHeader(w, []string{"step", "statement"}, records)
	case schema.TextOut:
		if _, err := fmt.Fprintf(w, "-- %s.%s (%d columns)\n", table.Schema, table.Name, len(table.Columns)); err != nil {
			return err
		}
		for _, s := range stmts {
			if _, err := fmt.Fprintf(w, "%s;\n", s); err != nil {
				return err
			}
		}
		return nil
	default:
		return unsupported(cfg, "statements")
	}
}
