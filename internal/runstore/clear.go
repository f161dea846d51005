package runstore

import (
	"fmt"
	"os"

	"github.com/huangsam/pitfeat/internal/contract"
	"github.com/huangsam/pitfeat/schema"
)

// Clear removes all ledger data for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the ledger tables.
// For the none backend, it does nothing.
func Clear(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		path := connStr
		if path == "" {
			path = contract.GetRunDBFilePath()
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", path, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := openDB(backend, connStr)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		for _, table := range []string{runFeaturesTable, runsTable} {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + quoteTableName(table, backend)); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported run backend for clearing: %s", backend)
	}
}
