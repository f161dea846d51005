package contract

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"

	"github.com/huangsam/pitfeat/schema"
)

// Default values for configuration.
const (
	DefaultFakeTodayFrequency = "1 year"
	DefaultPredictionWindow   = "1 year"
	DefaultLogLevel           = "info"
)

// Config holds the runtime configuration for a materialization run.
// This struct is the "final, validated" config.
type Config struct {
	Unit        schema.Unit
	TableSchema string
	TableName   string

	RawDataFromDate string // YYYY-MM-DD, kept textual for SQL rendering
	RawDataToDate   string

	// Case-sensitive toggles, decoded from YAML rather than viper
	OfficerFeatures   map[string]bool
	DispatchFeatures  map[string]bool
	TimegatedLookback map[string]string

	FakeTodayStart     time.Time
	FakeTodayEnd       time.Time
	FakeTodayFrequency Period
	PredictionWindows  []string

	WarehouseDBConnect string // Please use env var as this is plaintext

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	Output     schema.OutputMode
	OutputFile string
	UseColors  bool // Enable colored labels in table output
	LogLevel   string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Unit            string `mapstructure:"unit"`
	TableSchema     string `mapstructure:"table-schema"`
	TableName       string `mapstructure:"table-name"`
	RawDataFromDate string `mapstructure:"raw-data-from-date"`
	RawDataToDate   string `mapstructure:"raw-data-to-date"`
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	Color           string `mapstructure:"color"`
	LogLevel        string `mapstructure:"log-level"`
	FeaturesFile    string `mapstructure:"features-file"`
	Features        string `mapstructure:"features"`

	// --- Cohort plan settings ---
	FakeTodayStart     string   `mapstructure:"fake-today-start"`
	FakeTodayEnd       string   `mapstructure:"fake-today-end"`
	FakeTodayFrequency string   `mapstructure:"fake-today-frequency"`
	PredictionWindows  []string `mapstructure:"prediction-windows"`

	// --- Connections ---
	WarehouseDBConnect string `mapstructure:"warehouse-db-connect"`
	RunBackend         string `mapstructure:"run-backend"`
	RunDBConnect       string `mapstructure:"run-db-connect"`
}

// ActiveFeatures returns the enabled feature names of the configured unit, sorted.
func (c *Config) ActiveFeatures() []string {
	return EnabledFeatures(c.Toggles())
}

// Toggles returns the feature toggles of the configured unit.
func (c *Config) Toggles() map[string]bool {
	if c.Unit == schema.OfficerUnit {
		return c.OfficerFeatures
	}
	return c.DispatchFeatures
}

// EnabledFeatures returns the names toggled on, sorted for deterministic execution.
func EnabledFeatures(toggles map[string]bool) []string {
	var names []string
	for name, on := range toggles {
		if on {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.OfficerFeatures = maps.Clone(c.OfficerFeatures)
	clone.DispatchFeatures = maps.Clone(c.DispatchFeatures)
	clone.TimegatedLookback = maps.Clone(c.TimegatedLookback)
	clone.PredictionWindows = slices.Clone(c.PredictionWindows)
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, features *FeatureFile) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processRawDataWindow(cfg, input); err != nil {
		return err
	}
	if err := processCohortPlan(cfg, input); err != nil {
		return err
	}
	if err := processFeatureToggles(cfg, input, features); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("run-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return fmt.Errorf("invalid MySQL connection string: %w", err)
		}
		if cfg.DBName == "" {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("run-db-connect is required when using %s backend", backend)
		}
		return ValidateWarehouseConnectionString(connStr)
	}
	return nil
}

// ValidateWarehouseConnectionString checks a PostgreSQL connection string in URL
// or keyword/value form. An empty string is accepted; commands that need the
// warehouse reject it when opening the connection.
func ValidateWarehouseConnectionString(connStr string) error {
	if connStr == "" {
		return nil
	}
	isURL := strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
	if !isURL {
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	if _, err := pgx.ParseConfig(connStr); err != nil {
		return fmt.Errorf("invalid PostgreSQL connection string: %w", err)
	}
	return nil
}

// validateBackendConfigs validates the run ledger backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	if cfg.RunBackend == "" {
		cfg.RunBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunBackend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
	}
	cfg.RunDBConnect = input.RunDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return err
	}

	cfg.WarehouseDBConnect = input.WarehouseDBConnect
	return ValidateWarehouseConnectionString(cfg.WarehouseDBConnect)
}

// validateSimpleInputs processes and validates all non-temporal fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	// Parse color flag
	colorStr := input.Color
	if colorStr == "" {
		colorStr = "yes"
	}
	colors, err := ParseBoolString(colorStr)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Unit Validation ---
	cfg.Unit = schema.Unit(strings.ToLower(strings.TrimSpace(input.Unit)))
	if _, ok := schema.ValidUnits[cfg.Unit]; !ok {
		return fmt.Errorf("%w '%s'. must be officer, dispatch", ErrUnknownUnit, input.Unit)
	}

	// --- 2. Table Validation ---
	cfg.TableSchema = input.TableSchema
	if cfg.TableSchema == "" {
		cfg.TableSchema = schema.DefaultTableSchema
	}
	if err := ValidateIdentifier(cfg.TableSchema); err != nil {
		return fmt.Errorf("invalid table-schema: %w", err)
	}
	cfg.TableName = input.TableName
	if cfg.TableName == "" {
		cfg.TableName = string(cfg.Unit) + "_features"
	}
	if err := ValidateIdentifier(cfg.TableName); err != nil {
		return fmt.Errorf("invalid table-name: %w", err)
	}

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}

	return nil
}

// processRawDataWindow validates the raw data extraction window.
func processRawDataWindow(cfg *Config, input *ConfigRawInput) error {
	cfg.RawDataFromDate = strings.TrimSpace(input.RawDataFromDate)
	cfg.RawDataToDate = strings.TrimSpace(input.RawDataToDate)

	var from, to time.Time
	var err error
	if cfg.RawDataFromDate != "" {
		if from, err = ParseRawDate(cfg.RawDataFromDate); err != nil {
			return fmt.Errorf("invalid raw-data-from-date: %w", err)
		}
	}
	if cfg.RawDataToDate != "" {
		if to, err = ParseRawDate(cfg.RawDataToDate); err != nil {
			return fmt.Errorf("invalid raw-data-to-date: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return fmt.Errorf("raw-data-from-date (%s) cannot be after raw-data-to-date (%s)", cfg.RawDataFromDate, cfg.RawDataToDate)
	}
	return nil
}

// processCohortPlan handles the fake_today range and prediction windows.
func processCohortPlan(cfg *Config, input *ConfigRawInput) error {
	var err error
	if input.FakeTodayStart != "" {
		if cfg.FakeTodayStart, err = ParseSnapshot(input.FakeTodayStart); err != nil {
			return fmt.Errorf("invalid fake-today-start: %w", err)
		}
	}
	if input.FakeTodayEnd != "" {
		if cfg.FakeTodayEnd, err = ParseSnapshot(input.FakeTodayEnd); err != nil {
			return fmt.Errorf("invalid fake-today-end: %w", err)
		}
	}
	if cfg.FakeTodayEnd.IsZero() {
		cfg.FakeTodayEnd = cfg.FakeTodayStart
	}
	if cfg.FakeTodayStart.After(cfg.FakeTodayEnd) {
		return fmt.Errorf("fake-today-start (%s) cannot be after fake-today-end (%s)", input.FakeTodayStart, input.FakeTodayEnd)
	}

	frequency := input.FakeTodayFrequency
	if frequency == "" {
		frequency = DefaultFakeTodayFrequency
	}
	if cfg.FakeTodayFrequency, err = ParsePeriod(frequency); err != nil {
		return fmt.Errorf("invalid fake-today-frequency: %w", err)
	}

	cfg.PredictionWindows = nil
	for _, w := range input.PredictionWindows {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, err := ParsePeriod(w); err != nil {
			return fmt.Errorf("invalid prediction window: %w", err)
		}
		cfg.PredictionWindows = append(cfg.PredictionWindows, w)
	}
	if len(cfg.PredictionWindows) == 0 {
		cfg.PredictionWindows = []string{DefaultPredictionWindow}
	}
	return nil
}

// processFeatureToggles copies the case-sensitive feature sections and applies
// the --features override to the configured unit.
func processFeatureToggles(cfg *Config, input *ConfigRawInput, features *FeatureFile) error {
	if features == nil {
		features = &FeatureFile{}
	}
	cfg.OfficerFeatures = maps.Clone(features.OfficerFeatures)
	cfg.DispatchFeatures = maps.Clone(features.DispatchFeatures)
	cfg.TimegatedLookback = maps.Clone(features.TimegatedLookback)
	if cfg.OfficerFeatures == nil {
		cfg.OfficerFeatures = map[string]bool{}
	}
	if cfg.DispatchFeatures == nil {
		cfg.DispatchFeatures = map[string]bool{}
	}
	if cfg.TimegatedLookback == nil {
		cfg.TimegatedLookback = map[string]string{}
	}

	for name, lookback := range cfg.TimegatedLookback {
		if _, err := IntervalLiteral(lookback); err != nil {
			return fmt.Errorf("invalid lookback for %s: %w", name, err)
		}
	}

	applyFeatureOverride(cfg, input.Features)
	return nil
}

// applyFeatureOverride replaces the toggles of the configured unit with the
// comma-separated names in features. Blank input leaves the toggles untouched.
func applyFeatureOverride(cfg *Config, features string) {
	names := SplitNames(features)
	if len(names) == 0 {
		return
	}
	override := make(map[string]bool, len(names))
	for _, name := range names {
		override[name] = true
	}
	if cfg.Unit == schema.OfficerUnit {
		cfg.OfficerFeatures = override
	} else {
		cfg.DispatchFeatures = override
	}
}

// SplitNames splits a comma-separated list, dropping blanks.
func SplitNames(s string) []string {
	var names []string
	for part := range strings.SplitSeq(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// RevalidateCohortPlan re-applies cohort plan overrides on a cloned config.
// Blank arguments keep the values already in cfg.
func RevalidateCohortPlan(cfg *Config, start, end, frequency string, windows []string) error {
	input := &ConfigRawInput{
		FakeTodayStart:     start,
		FakeTodayEnd:       end,
		FakeTodayFrequency: frequency,
		PredictionWindows:  windows,
	}
	if start == "" {
		if cfg.FakeTodayStart.IsZero() {
			return errors.New("fake-today-start is required")
		}
		input.FakeTodayStart = FormatSnapshot(cfg.FakeTodayStart)
		if end == "" && !cfg.FakeTodayEnd.IsZero() {
			input.FakeTodayEnd = FormatSnapshot(cfg.FakeTodayEnd)
		}
	}
	if len(windows) == 0 {
		input.PredictionWindows = cfg.PredictionWindows
	}
	previous := cfg.FakeTodayFrequency
	cfg.FakeTodayStart, cfg.FakeTodayEnd = time.Time{}, time.Time{}
	if err := processCohortPlan(cfg, input); err != nil {
		return err
	}
	if frequency == "" && !previous.IsZero() {
		cfg.FakeTodayFrequency = previous
	}
	return nil
}

// RevalidateFeatures switches a cloned config to another unit and feature set.
// The table name follows the unit unless it was customized.
func RevalidateFeatures(cfg *Config, unit, features string) error {
	if unit != "" {
		u := schema.Unit(strings.ToLower(strings.TrimSpace(unit)))
		if _, ok := schema.ValidUnits[u]; !ok {
			return fmt.Errorf("%w '%s'. must be officer, dispatch", ErrUnknownUnit, unit)
		}
		if cfg.TableName == "" || cfg.TableName == string(cfg.Unit)+"_features" {
			cfg.TableName = string(u) + "_features"
		}
		cfg.Unit = u
	}
	applyFeatureOverride(cfg, features)
	return nil
}
