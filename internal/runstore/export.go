package runstore

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/internal/parquet"
)

// Export writes the ledger to two Parquet files prefixed by outputFile.
func Export(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	features, err := store.GetAllRunFeatures()
	if err != nil {
		return fmt.Errorf("failed to retrieve run features: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	featuresFile := outputFile + ".run_features.parquet"
	if err := parquet.WriteRunFeaturesParquet(parquet.ConvertRunFeatureRecords(features), featuresFile); err != nil {
		return fmt.Errorf("failed to write run features: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d feature timings to: %s\n", len(features), featuresFile)
	return nil
}
