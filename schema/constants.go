package schema

// Custom string types for type safety.
type (
	// Unit represents the entity granularity of a materialization run.
	Unit string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the run ledger.
	DatabaseBackend string

	// Family names the computation family a feature definition belongs to.
	Family string

	// FeatureKind is the column kind a feature materializes as.
	FeatureKind string

	// RunState is the lifecycle state of a materialization run.
	RunState string
)

// All units supported.
const (
	OfficerUnit  Unit = "officer"
	DispatchUnit Unit = "dispatch"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All run ledger backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Feature kinds. Label features are stored as numeric columns.
const (
	CategoricalKind FeatureKind = "categorical"
	NumericKind     FeatureKind = "numeric"
	LabelKind       FeatureKind = "label"
)

// Run states recorded in the run ledger.
const (
	RunningState   RunState = "running"
	SucceededState RunState = "succeeded"
	FailedState    RunState = "failed"
)

// Computation families. Each family owns one SQL template.
const (
	DispatchTimePartFamily        Family = "dispatch_time_part"
	DispatchAttributeFamily       Family = "dispatch_attribute"
	UnitsAssignedFamily           Family = "units_assigned"
	RecentEventsFamily            Family = "recent_events"
	OfficersOutcomeAverageFamily  Family = "officers_outcome_average"
	CensusTractFamily             Family = "census_tract"
	EventsWithinRadiusFamily      Family = "events_within_radius"
	OfficerDispatchesRadiusFamily Family = "officer_dispatches_radius"
	RespondingOfficersFamily      Family = "responding_officers"
	DispatchLabelFamily           Family = "dispatch_label"
	OfficerAggregateFamily        Family = "officer_aggregate"
	OfficerAttributeFamily        Family = "officer_attribute"
	TimeGatedFamily               Family = "time_gated"
)

// Column types used by the schema builder.
const (
	NumericColumnType     = "numeric"
	CategoricalColumnType = "varchar(20)"
	DispatchIDColumnType  = "varchar(20)"
	OfficerIDColumnType   = "int"
	TimestampColumnType   = "timestamp"
)

// Date layouts shared by the planner and the materializer.
const (
	// SnapshotLayout is the day-month-year layout of cohort fake_today values.
	SnapshotLayout = "02Jan2006"

	// RawDateLayout is the layout of raw data extraction dates.
	RawDateLayout = "2006-01-02"

	// TimestampLayout is how snapshots are rendered into SQL literals.
	TimestampLayout = "2006-01-02 15:04:05"
)

// DefaultTimeWindow is the feature time window in years when the name carries none.
const DefaultTimeWindow = 15

// DefaultTableSchema is the warehouse schema that holds feature tables.
const DefaultTableSchema = "features"

// AllUnits lists all supported units.
var AllUnits = []Unit{OfficerUnit, DispatchUnit}

// ValidUnits lists all valid units.
var ValidUnits = map[Unit]struct{}{
	OfficerUnit:  {},
	DispatchUnit: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run ledger backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// IDColumn returns the identity column name for the unit.
func (u Unit) IDColumn() string {
	return string(u) + "_id"
}
