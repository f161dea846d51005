package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/internal/outwriter"
	"github.com/huangsam/pitfeat/internal/runstore"
	"github.com/huangsam/pitfeat/schema"
)

// runsSetup loads minimal configuration needed for ledger operations.
// This is used by commands that need ledger access without full shared setup.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("run-backend")))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("run-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	output := schema.OutputMode(strings.ToLower(viper.GetString("output")))
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", output)
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.Output = output
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for ledger commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// openRunStore opens the configured ledger or exits.
func openRunStore() *runstore.Store {
	store, err := runstore.New(cfg.RunBackend, cfg.RunDBConnect)
	if err != nil {
		contract.LogFatal("Failed to open run ledger", err)
	}
	return store
}

// runsCmd focused on run ledger management.
//
// Note: Ledger subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup. This avoids feature and cohort validation for simple
// ledger operations.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the materialization run ledger",
	Long: `Manage the ledger of materialization runs.

Every materialize run records:
- Run metadata (uuid, unit, table, start and end, status, error)
- Per-feature timings and snapshot counts

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show ledger statistics
  list    - List recorded runs
  export  - Export data to Parquet for analytics
  clear   - Remove all ledger data
  migrate - Run database schema migrations

Examples:
  # Check ledger status
  pitfeat runs status

  # Export for analysis in pandas/DuckDB
  pitfeat runs export --output-file pitfeat-runs`,
}

// runsStatusCmd shows ledger status.
var runsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display ledger statistics and connection details",
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := openRunStore()
		defer func() { _ = store.Close() }()
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		runstore.PrintStatus(os.Stdout, status)
	},
}

// runsListCmd lists recorded runs.
var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded materialization runs",
	Long: `List every recorded run, oldest first.

Examples:
  pitfeat runs list
  pitfeat runs list --output json --output-file runs.json`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := openRunStore()
		defer func() { _ = store.Close() }()
		runs, err := store.GetAllRuns()
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		if err := outwriter.PrintRuns(runs, cfg); err != nil {
			contract.LogFatal("Failed to print runs", err)
		}
	},
}

// runsExportCmd exports ledger data to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export ledger data to Parquet for BI tools and analytics",
	Long: `Export all stored ledger data to Parquet format.

Exports two datasets:
- <output-file>.runs.parquet - one row per materialization run
- <output-file>.run_features.parquet - one row per feature built in a run

Requires: --output-file parameter

Examples:
  pitfeat runs export --output-file pitfeat
  duckdb -c "SELECT * FROM read_parquet('pitfeat.runs.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := openRunStore()
		defer func() { _ = store.Close() }()
		if err := runstore.Export(os.Stdout, store, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run data", err)
		}
	},
}

// runsClearCmd clears the ledger.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all ledger data",
	Long: `Delete all stored runs and feature timings.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  pitfeat runs export --output-file backup
  pitfeat runs clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.Clear(cfg.RunBackend, cfg.RunDBConnect); err != nil {
			contract.LogFatal("Failed to clear run data", err)
		}
		fmt.Println("Run data cleared successfully.")
	},
}

// runsMigrateCmd runs database migrations for the ledger.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the run ledger.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  pitfeat runs migrate

  # Migrate to specific version
  pitfeat runs migrate --target-version 2

  # Rollback to initial state
  pitfeat runs migrate --target-version 0`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.Migrate(os.Stdout, cfg.RunBackend, cfg.RunDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
