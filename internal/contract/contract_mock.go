package contract

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/pitfeat/schema"
)

// MockExecutor is a mock implementation of Executor for testing.
type MockExecutor struct {
	mock.Mock
}

var _ Executor = &MockExecutor{} // Compile-time check

// Exec implements the Executor interface.
func (m *MockExecutor) Exec(ctx context.Context, statement string) error {
	args := m.Called(ctx, statement)
	return args.Error(0)
}

// RecordingExecutor captures statements in execution order.
// When FailOn is set, the first statement containing it fails with Err.
type RecordingExecutor struct {
	mu         sync.Mutex
	Statements []string
	FailOn     string
	Err        error
}

var _ Executor = &RecordingExecutor{} // Compile-time check

// Exec implements the Executor interface.
func (r *RecordingExecutor) Exec(_ context.Context, statement string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailOn != "" && strings.Contains(statement, r.FailOn) {
		return r.Err
	}
	r.Statements = append(r.Statements, statement)
	return nil
}

// Matching returns the recorded statements that contain substr.
func (r *RecordingExecutor) Matching(substr string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.Statements {
		if strings.Contains(s, substr) {
			out = append(out, s)
		}
	}
	return out
}

// MockCohortGenerator is a mock implementation of CohortGenerator for testing.
type MockCohortGenerator struct {
	mock.Mock
}

var _ CohortGenerator = &MockCohortGenerator{} // Compile-time check

// Generate implements the CohortGenerator interface.
func (m *MockCohortGenerator) Generate(ctx context.Context, cfg *Config) ([]schema.CohortEntry, error) {
	args := m.Called(ctx, cfg)
	entries, _ := args.Get(0).([]schema.CohortEntry)
	return entries, args.Error(1)
}

// MockColumnLister is a mock implementation of ColumnLister for testing.
type MockColumnLister struct {
	mock.Mock
}

var _ ColumnLister = &MockColumnLister{} // Compile-time check

// OfficerColumns implements the ColumnLister interface.
func (m *MockColumnLister) OfficerColumns(cfg *Config) ([]string, error) {
	args := m.Called(cfg)
	cols, _ := args.Get(0).([]string)
	return cols, args.Error(1)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(runUUID string, unit schema.Unit, tableName string, startTime time.Time, featureCount, snapshotCount int) (int64, error) {
	args := m.Called(runUUID, unit, tableName, startTime, featureCount, snapshotCount)
	return args.Get(0).(int64), args.Error(1)
}

// RecordFeature implements the RunStore interface.
func (m *MockRunStore) RecordFeature(runID int64, featureName string, kind schema.FeatureKind, snapshots int, elapsed time.Duration) error {
	args := m.Called(runID, featureName, kind, snapshots, elapsed)
	return args.Error(0)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, state schema.RunState, runErr error) error {
	args := m.Called(runID, endTime, state, runErr)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// GetAllRunFeatures implements the RunStore interface.
func (m *MockRunStore) GetAllRunFeatures() ([]schema.RunFeatureRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunFeatureRecord)
	return records, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
