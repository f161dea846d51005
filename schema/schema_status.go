package schema

import "time"

// RunStatus represents the status of the run ledger.
type RunStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	FailedRuns    int              `json:"failed_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the pitfeat_runs table.
type RunRecord struct {
	RunID         int64
	RunUUID       string
	Unit          string
	TableName     string
	StartTime     time.Time
	EndTime       *time.Time
	DurationMs    *int64
	FeatureCount  int
	SnapshotCount int
	State         string
	ErrorText     *string
}

// RunFeatureRecord represents a row from the pitfeat_run_features table.
type RunFeatureRecord struct {
	RunID       int64
	FeatureName string
	Kind        string
	Snapshots   int
	DurationMs  int64
}
