// Package postgres implements the PostgreSQL backend for ranks through the
// pgx database/sql driver. With unique_index set to deferred the (scope,
// position) constraint is DEFERRABLE INITIALLY DEFERRED and engines write a
// shift set in one unordered pass; otherwise the constraint is checked per
// row and engines sequence their writes.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mesh-intelligence/ranks/internal/sqlstore"
	"github.com/mesh-intelligence/ranks/pkg/types"
)

// SQLSTATE codes treated as position conflicts.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
)

// NewBackend creates a detached PostgreSQL backend.
func NewBackend(logger *slog.Logger) *sqlstore.Backend {
	return sqlstore.NewBackend(types.BackendPostgres, Open, logger)
}

// Open connects to config.DSN and creates the list tables if missing.
func Open(ctx context.Context, config types.Config) (*sql.DB, sqlstore.Dialect, error) {
	db, err := sql.Open("pgx", config.DSN)
	if err != nil {
		return nil, sqlstore.Dialect{}, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, sqlstore.Dialect{}, fmt.Errorf("connecting to postgres: %w", err)
	}
	mode := config.GetUniqueIndex()
	for _, ddl := range schemaDDL(mode) {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return nil, sqlstore.Dialect{}, fmt.Errorf("creating schema: %w", err)
		}
	}
	return db, Dialect(mode), nil
}

// Dialect is the sqlstore dialect for PostgreSQL with the given unique index
// mode. Transactions run at SERIALIZABLE isolation.
func Dialect(uniqueIndex string) sqlstore.Dialect {
	return sqlstore.Dialect{
		Name:               "postgres",
		Numbered:           true,
		IsConflict:         isConflict,
		TxOptions:          &sql.TxOptions{Isolation: sql.LevelSerializable},
		DeferredUniqueness: uniqueIndex == types.UniqueIndexDeferred,
	}
}

func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == codeUniqueViolation || pgErr.Code == codeSerializationFailure
}
