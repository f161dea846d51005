// Package cmd defines the command-line interface for pitfeat.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(materializeCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the features subcommands to the parent features command
	featuresCmd.AddCommand(featuresListCmd)
	featuresCmd.AddCommand(featuresClassifyCmd)
	featuresCmd.AddCommand(featuresDecodeCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("unit", string(schema.OfficerUnit), "Entity granularity: officer or dispatch")
	rootCmd.PersistentFlags().String("table-schema", schema.DefaultTableSchema, "Destination schema of the feature table")
	rootCmd.PersistentFlags().String("table-name", "", "Destination feature table (default <unit>_features)")
	rootCmd.PersistentFlags().String("raw-data-from-date", "", "Start of the raw data window (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("raw-data-to-date", "", "End of the raw data window (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("fake-today-start", "", "First snapshot (e.g. 01Jan2015)")
	rootCmd.PersistentFlags().String("fake-today-end", "", "Last snapshot (defaults to the start)")
	rootCmd.PersistentFlags().String("fake-today-frequency", contract.DefaultFakeTodayFrequency, "Step between snapshots (e.g. '6 months')")
	rootCmd.PersistentFlags().StringSlice("prediction-windows", nil, "Prediction windows of the cohort plan (e.g. '1 year,2 years')")
	rootCmd.PersistentFlags().String("features", "", "Comma-separated features replacing the toggles of the active unit")
	rootCmd.PersistentFlags().String("features-file", "", "YAML file with officer_features, dispatch_features and lookback sections")
	rootCmd.PersistentFlags().String("warehouse-db-connect", "", "PostgreSQL connection string of the feature warehouse")
	rootCmd.PersistentFlags().String("run-backend", string(schema.SQLiteBackend), "Run ledger backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for the run ledger (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of materializeCmd to Viper
	materializeCmd.Flags().Bool("create-only", false, "Drop, create and seed the table without populating features")
	materializeCmd.Flags().Bool("populate-only", false, "Populate features into an existing, seeded table")
	if err := viper.BindPFlags(materializeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding materialize flags", err)
	}

	// Bind all flags of featuresListCmd to Viper
	featuresListCmd.Flags().Bool("all-units", false, "List the features of every unit")
	if err := viper.BindPFlags(featuresListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding features list flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
