// Package ranks is the public entry point: it builds attached backends and
// positioning engines without exposing internal packages.
//
// Example:
//
//	b, err := ranks.Open(types.Config{Backend: types.BackendSQLite, DataDir: ".ranks"}, nil)
//	if err != nil {
//	    return err
//	}
//	defer b.Detach()
//	items, _ := b.Engine(types.ItemsTable)
//	rec, err := items.Create(ctx, types.Record{ParentID: &sectionID, Position: 1})
package ranks

import (
	"log/slog"

	"github.com/mesh-intelligence/ranks/internal/memstore"
	"github.com/mesh-intelligence/ranks/internal/position"
	"github.com/mesh-intelligence/ranks/internal/postgres"
	"github.com/mesh-intelligence/ranks/internal/sqlite"
	"github.com/mesh-intelligence/ranks/internal/sqlstore"
	"github.com/mesh-intelligence/ranks/pkg/types"
)

// Version is the release version of the module.
const Version = "0.3.0"

// Backend is an attached database with one store, engine and table per
// standard list.
type Backend = sqlstore.Backend

// Engine keeps one list contiguous.
type Engine = position.Engine

// NewBackend returns a detached backend for config.Backend. A nil logger
// uses slog.Default().
func NewBackend(config types.Config, logger *slog.Logger) (*Backend, error) {
	switch config.Backend {
	case types.BackendSQLite:
		return sqlite.NewBackend(logger), nil
	case types.BackendPostgres:
		return postgres.NewBackend(logger), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, types.ErrBackendUnknown
	}
}

// Open creates and attaches a backend for config.
func Open(config types.Config, logger *slog.Logger) (*Backend, error) {
	b, err := NewBackend(config, logger)
	if err != nil {
		return nil, err
	}
	if err := b.Attach(config); err != nil {
		return nil, err
	}
	return b, nil
}

// NewEngine returns an engine for list on any RecordStore, configured from
// config's strict and uniqueness settings.
func NewEngine(store types.RecordStore, list types.ListSpec, config types.Config, logger *slog.Logger) *Engine {
	return position.NewFromConfig(store, list, config, logger)
}

// NewMemoryStore returns an in-memory store for list that enforces
// uniqueness per uniqueIndex ("none", "eager" or "deferred").
func NewMemoryStore(list types.ListSpec, uniqueIndex string) types.RecordStore {
	return memstore.New(list, memstore.Options{UniqueIndex: uniqueIndex})
}
