// Package sqlite implements the SQLite backend for ranks. The database file
// in DataDir is the system of record. SQLite checks the unique (scope,
// position) index on every row write, so engines run in ordered mode
// against it.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/ranks/internal/sqlstore"
	"github.com/mesh-intelligence/ranks/pkg/types"
)

// DatabaseFile is the name of the database inside DataDir.
const DatabaseFile = "ranks.db"

// NewBackend creates a detached SQLite backend.
func NewBackend(logger *slog.Logger) *sqlstore.Backend {
	return sqlstore.NewBackend(types.BackendSQLite, Open, logger)
}

// Open opens (creating if needed) DataDir/ranks.db with the configured
// driver and applies the schema.
func Open(ctx context.Context, config types.Config) (*sql.DB, sqlstore.Dialect, error) {
	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, sqlstore.Dialect{}, fmt.Errorf("creating data dir: %w", err)
	}

	driver := config.GetDriver()
	db, err := sql.Open(driver, dsn(driver, filepath.Join(dataDir, DatabaseFile)))
	if err != nil {
		return nil, sqlstore.Dialect{}, fmt.Errorf("opening database: %w", err)
	}
	// Writers are serialized through a single connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(ctx, db, config.GetUniqueIndex()); err != nil {
		db.Close()
		return nil, sqlstore.Dialect{}, err
	}
	return db, Dialect(), nil
}

func applySchema(ctx context.Context, db *sql.DB, uniqueIndex string) error {
	for _, ddl := range schemaDDL {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL(uniqueIndex) {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}
