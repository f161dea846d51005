// Package runstore records materialization runs in a small ledger database.
package runstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/schema"
)

// Table names for run tracking.
const (
	runsTable        = "pitfeat_runs"
	runFeaturesTable = "pitfeat_run_features"
)

// maxErrorText bounds the stored error text.
const maxErrorText = 2000

// Store implements the contract.RunStore interface.
type Store struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &Store{} // Compile-time check

// driverFor maps a backend to its database/sql driver name.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings the ledger database for a backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunDBFilePath()
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}
	return db, nil
}

// New creates a run store with the specified backend. The none backend
// returns a store that records nothing.
func New(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	if backend == schema.NoneBackend {
		return &Store{backend: backend}, nil
	}
	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}
	return &Store{db: db, backend: backend}, nil
}

// createTables creates the ledger tables when they are missing.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, createRunsQuery(backend)},
		{runFeaturesTable, createRunFeaturesQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// createRunsQuery returns the CREATE TABLE query for pitfeat_runs.
func createRunsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(runsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid VARCHAR(36) NOT NULL,
				unit VARCHAR(20) NOT NULL,
				table_name VARCHAR(128) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				feature_count INT NOT NULL,
				snapshot_count INT NOT NULL,
				state VARCHAR(20) NOT NULL,
				error_text TEXT
			);
		`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				unit TEXT NOT NULL,
				table_name TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				feature_count INT NOT NULL,
				snapshot_count INT NOT NULL,
				state TEXT NOT NULL,
				error_text TEXT
			);
		`, quoted)
	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				unit TEXT NOT NULL,
				table_name TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				feature_count INTEGER NOT NULL,
				snapshot_count INTEGER NOT NULL,
				state TEXT NOT NULL,
				error_text TEXT
			);
		`, quoted)
	}
}

// createRunFeaturesQuery returns the CREATE TABLE query for pitfeat_run_features.
func createRunFeaturesQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(runFeaturesTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				feature_name VARCHAR(128) NOT NULL,
				kind VARCHAR(20) NOT NULL,
				snapshots INT NOT NULL,
				duration_ms BIGINT NOT NULL,
				PRIMARY KEY (run_id, feature_name)
			);
		`, quoted)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				feature_name TEXT NOT NULL,
				kind TEXT NOT NULL,
				snapshots INT NOT NULL,
				duration_ms BIGINT NOT NULL,
				PRIMARY KEY (run_id, feature_name)
			);
		`, quoted)
	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				feature_name TEXT NOT NULL,
				kind TEXT NOT NULL,
				snapshots INTEGER NOT NULL,
				duration_ms INTEGER NOT NULL,
				PRIMARY KEY (run_id, feature_name)
			);
		`, quoted)
	}
}

// disabled reports whether the store records nothing.
func (s *Store) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// BeginRun implements the contract.RunStore interface.
func (s *Store) BeginRun(runUUID string, unit schema.Unit, tableName string, startTime time.Time, featureCount, snapshotCount int) (int64, error) {
	if s.disabled() {
		return 0, nil
	}
	quoted := quoteTableName(runsTable, s.backend)
	cols := "run_uuid, unit, table_name, start_time, feature_count, snapshot_count, state"
	args := []any{runUUID, string(unit), tableName, formatTime(startTime, s.backend), featureCount, snapshotCount, string(schema.RunningState)}

	var runID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING run_id`, quoted, cols, placeholders(s.backend, len(args)))
		if err := s.db.QueryRow(query, args...).Scan(&runID); err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quoted, cols, placeholders(s.backend, len(args)))
		result, err := s.db.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		if runID, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read run id: %w", err)
		}
	}
	return runID, nil
}

// RecordFeature implements the contract.RunStore interface.
func (s *Store) RecordFeature(runID int64, featureName string, kind schema.FeatureKind, snapshots int, elapsed time.Duration) error {
	if s.disabled() {
		return nil
	}
	query := fmt.Sprintf(`INSERT INTO %s (run_id, feature_name, kind, snapshots, duration_ms) VALUES (%s)`,
		quoteTableName(runFeaturesTable, s.backend), placeholders(s.backend, 5))
	if _, err := s.db.Exec(query, runID, featureName, string(kind), snapshots, elapsed.Milliseconds()); err != nil {
		return fmt.Errorf("failed to record feature %s: %w", featureName, err)
	}
	return nil
}

// EndRun implements the contract.RunStore interface.
func (s *Store) EndRun(runID int64, endTime time.Time, state schema.RunState, runErr error) error {
	if s.disabled() {
		return nil
	}
	quoted := quoteTableName(runsTable, s.backend)

	// First, get the start_time to calculate duration
	row := s.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quoted, placeholders(s.backend, 1)), runID)
	startTime, err := scanTime(row, s.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	var errText *string
	if runErr != nil {
		msg := runErr.Error()
		if len(msg) > maxErrorText {
			msg = msg[:maxErrorText]
		}
		errText = &msg
	}

	query := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, state = %s, error_text = %s WHERE run_id = %s`,
		quoted, placeholder(s.backend, 1), placeholder(s.backend, 2), placeholder(s.backend, 3),
		placeholder(s.backend, 4), placeholder(s.backend, 5))
	durationMs := endTime.Sub(startTime).Milliseconds()
	if _, err := s.db.Exec(query, formatTime(endTime, s.backend), durationMs, string(state), errText, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus implements the contract.RunStore interface.
func (s *Store) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	quoted := quoteTableName(runsTable, s.backend)
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	failedQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE state = %s", quoted, placeholder(s.backend, 1))
	if err := s.db.QueryRow(failedQuery, string(schema.FailedState)).Scan(&status.FailedRuns); err != nil {
		return status, fmt.Errorf("failed to get failed runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := s.db.QueryRow(fmt.Sprintf("SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1", quoted))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run id: %w", err)
		}
		last, err := scanTime(s.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoted)), s.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = last
		oldest, err := scanTime(s.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quoted)), s.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest
	}

	for _, table := range []string{runsTable, runFeaturesTable} {
		var count int64
		row := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllRuns implements the contract.RunStore interface.
func (s *Store) GetAllRuns() ([]schema.RunRecord, error) {
	if s.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT run_id, run_uuid, unit, table_name, start_time, end_time, run_duration_ms,
		feature_count, snapshot_count, state, error_text FROM %s ORDER BY run_id`, quoteTableName(runsTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var r schema.RunRecord
		switch s.backend {
		case schema.SQLiteBackend:
			var startStr string
			var endStr *string
			if err := rows.Scan(&r.RunID, &r.RunUUID, &r.Unit, &r.TableName, &startStr, &endStr, &r.DurationMs,
				&r.FeatureCount, &r.SnapshotCount, &r.State, &r.ErrorText); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if r.StartTime, err = time.Parse(time.RFC3339Nano, startStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endStr != nil {
				end, err := time.Parse(time.RFC3339Nano, *endStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				r.EndTime = &end
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&r.RunID, &r.RunUUID, &r.Unit, &r.TableName, &r.StartTime, &r.EndTime, &r.DurationMs,
				&r.FeatureCount, &r.SnapshotCount, &r.State, &r.ErrorText); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllRunFeatures implements the contract.RunStore interface.
func (s *Store) GetAllRunFeatures() ([]schema.RunFeatureRecord, error) {
	if s.disabled() {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT run_id, feature_name, kind, snapshots, duration_ms FROM %s ORDER BY run_id, feature_name`,
		quoteTableName(runFeaturesTable, s.backend))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query run features: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunFeatureRecord
	for rows.Next() {
		var r schema.RunFeatureRecord
		if err := rows.Scan(&r.RunID, &r.FeatureName, &r.Kind, &r.Snapshots, &r.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan run feature: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run features: %w", err)
	}
	return results, nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// placeholder returns the n-th (1-based) bind parameter for the backend.
func placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns a comma-separated list of count bind parameters.
func placeholders(backend schema.DatabaseBackend, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = placeholder(backend, i+1)
	}
	return strings.Join(parts, ", ")
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}

// scanTime reads a single time column stored per backend.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend != schema.SQLiteBackend {
		var t time.Time
		err := row.Scan(&t)
		return t, err
	}
	var raw string
	if err := row.Scan(&raw); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errors.Join(errors.New("malformed timestamp"), err)
	}
	return t, nil
}
