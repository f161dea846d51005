// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/pitfeat/schema"
)

// Executor runs raw DDL/DML statements against the warehouse.
// Statements run synchronously and one at a time; no result set is returned.
type Executor interface {
	Exec(ctx context.Context, statement string) error
}

// CohortGenerator produces the temporal cohort plan for a run configuration.
// Entries may share a fake_today value.
type CohortGenerator interface {
	Generate(ctx context.Context, cfg *Config) ([]schema.CohortEntry, error)
}

// ColumnLister returns the exhaustive, ordered officer feature columns the
// officer table must provision. It is a superset of the active features.
type ColumnLister interface {
	OfficerColumns(cfg *Config) ([]string, error)
}

// FeatureUnit is a context-bound feature computation.
// BuildAndInsert computes the feature for every relevant row of the
// destination table and updates its column in place.
type FeatureUnit interface {
	Spec() schema.FeatureSpec
	BuildAndInsert(ctx context.Context, exec Executor) error
}

// Resolver turns a feature name and a temporal context into a computation unit.
type Resolver interface {
	Resolve(name string, tc schema.TemporalContext) (FeatureUnit, error)
}

// RunStore defines the interface for tracking materialization runs.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(runUUID string, unit schema.Unit, tableName string, startTime time.Time, featureCount, snapshotCount int) (int64, error)

	// RecordFeature stores per-feature timing for a run
	RecordFeature(runID int64, featureName string, kind schema.FeatureKind, snapshots int, elapsed time.Duration) error

	// EndRun marks the run finished with its final state
	EndRun(runID int64, endTime time.Time, state schema.RunState, runErr error) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRunFeatures returns every per-feature record ordered by run and name
	GetAllRunFeatures() ([]schema.RunFeatureRecord, error)

	// Close closes the underlying connection
	Close() error
}
