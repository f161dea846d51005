// Package warehouse owns the connection to the PostgreSQL feature warehouse.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver

	"github.com/huangsam/pitfeat/internal/contract"
)

// driverName is the database/sql name registered by pgx/v5/stdlib.
const driverName = "pgx"

// ErrNoConnection is returned when no warehouse connection string is configured.
var ErrNoConnection = errors.New("warehouse-db-connect is required")

// DB executes statements on a single warehouse connection.
type DB struct {
	db *sql.DB
}

var _ contract.Executor = &DB{} // Compile-time check

// Open connects to the warehouse and pings it. Failure is returned immediately;
// there is no degraded mode.
func Open(ctx context.Context, connStr string) (*DB, error) {
	if connStr == "" {
		return nil, ErrNoConnection
	}
	if err := contract.ValidateWarehouseConnectionString(connStr); err != nil {
		return nil, err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to warehouse: %w. Check that PostgreSQL is running and the connection string is correct", err)
	}
	return New(db), nil
}

// New wraps an already established connection pool. Statements are serialized
// onto one connection.
func New(db *sql.DB) *DB {
	db.SetMaxOpenConns(1)
	return &DB{db: db}
}

// Exec implements the contract.Executor interface.
func (w *DB) Exec(ctx context.Context, statement string) error {
	_, err := w.db.ExecContext(ctx, statement)
	return err
}

// EnsureSchema creates the feature table schema when it is missing.
func (w *DB) EnsureSchema(ctx context.Context, name string) error {
	stmt := "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{name}.Sanitize()
	if err := w.Exec(ctx, stmt); err != nil {
		return &contract.ExecutionError{Table: name, Statement: stmt, Err: err}
	}
	return nil
}

// Close closes the underlying connection.
func (w *DB) Close() error {
	if w == nil || w.db == nil {
		return nil
	}
	return w.db.Close()
}
