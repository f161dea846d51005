// Package schema has configs, models and constants for all parts of pitfeat.
package schema

import "time"

// FeatureParams carries the family-specific parameters of a feature definition.
// Only the fields a family reads are set.
type FeatureParams struct {
	Field       string // date part or source column
	Source      string // source relation
	Condition   string // extra predicate on the source relation
	TimeColumn  string // timestamp column of the source relation
	Expr        string // aggregate expression
	Interval    string // SQL interval literal, e.g. "6 hours"
	EventType   int    // event_type_code filter
	RadiusM     int    // radius in meters
	WindowYears int    // fixed lookback in years; zero means use the decoded window
}

// FeatureDefinition is the static metadata of a registered feature.
// Categorical and label traits are properties of the definition itself.
type FeatureDefinition struct {
	Name        string
	Unit        Unit
	Family      Family
	Categorical bool
	Label       bool
	Params      FeatureParams
}

// Kind returns the column kind of the definition.
func (d FeatureDefinition) Kind() FeatureKind {
	switch {
	case d.Label:
		return LabelKind
	case d.Categorical:
		return CategoricalKind
	default:
		return NumericKind
	}
}

// FeatureSpec is the resolved descriptor handed to a computation unit.
// It is built fresh on every resolution and never cached.
type FeatureSpec struct {
	FeatureName   string `json:"feature_name"`
	IsCategorical bool   `json:"is_categorical"`
	IsLabel       bool   `json:"is_label"`
	TimeWindow    int    `json:"time_window"` // years
	Unit          Unit   `json:"unit"`
	Family        Family `json:"family"`
}

// TemporalContext is the per-resolution context supplied by the materializer.
type TemporalContext struct {
	FromDate          string            // raw data extraction window start
	ToDate            string            // raw data extraction window end
	FakeToday         time.Time         // point-in-time reference instant
	TableSchema       string            // destination schema
	TableName         string            // destination table
	LookbackDurations map[string]string // per-feature lookback for time-gated families
}

// CohortEntry is one entry of the externally generated temporal cohort plan.
type CohortEntry struct {
	FakeToday        string `json:"fake_today"` // SnapshotLayout
	PredictionWindow string `json:"prediction_window"`
}

// Classification partitions a feature list along the categorical and label axes.
// Numeric is the complement of Categorical within the input.
type Classification struct {
	Categorical []string `json:"categorical"`
	Label       []string `json:"label"`
	Numeric     []string `json:"numeric"`
}

// ColumnDef is one column of a feature table.
type ColumnDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableSpec is the elaborated shape of a feature table.
type TableSpec struct {
	Schema   string      `json:"schema"`
	Name     string      `json:"name"`
	Unit     Unit        `json:"unit"`
	Unlogged bool        `json:"unlogged"`
	Columns  []ColumnDef `json:"columns"`
}

// FeatureColumns returns the columns beyond the fixed id and timestamp columns.
func (t TableSpec) FeatureColumns() []ColumnDef {
	var out []ColumnDef
	for _, c := range t.Columns {
		switch c.Name {
		case t.Unit.IDColumn(), "fake_today", "created_on":
			continue
		}
		out = append(out, c)
	}
	return out
}
