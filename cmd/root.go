package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/internal/logging"
	"github.com/huangsam/pitfeat/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// logger is replaced once the log level is known.
var logger = zap.NewNop()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "pitfeat",
	Short: "Materialize point-in-time feature tables for officers and dispatches.",
	Long: `Pitfeat builds feature tables in a PostgreSQL warehouse where every row
only sees data from before its fake_today, so models never train on the future.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".pitfeat")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("PITFEAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Set defaults in Viper
	viper.SetDefault("unit", schema.OfficerUnit)
	viper.SetDefault("table-schema", schema.DefaultTableSchema)
	viper.SetDefault("fake-today-frequency", contract.DefaultFakeTodayFrequency)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("run-backend", schema.SQLiteBackend)
	viper.SetDefault("run-db-connect", "")
	viper.SetDefault("color", "yes")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
}

// loadConfigFile reads the config file if present. A missing file is fine.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// loadFeatureToggles decodes the case-sensitive feature sections from
// --features-file, else from the config file viper loaded.
func loadFeatureToggles() (*contract.FeatureFile, error) {
	path := input.FeaturesFile
	if path == "" {
		path = viper.ConfigFileUsed()
	}
	return contract.LoadFeatureFile(path)
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Feature toggles bypass viper to keep their case.
	features, err := loadFeatureToggles()
	if err != nil {
		return err
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input, features); err != nil {
		return err
	}
	if !cfg.UseColors {
		color.NoColor = true
	}

	// 5. Build the logger once the level is known.
	l, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}
