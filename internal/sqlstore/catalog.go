package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/ranks/internal/position"
	"github.com/mesh-intelligence/ranks/pkg/types"
)

// Catalog wires a store, a positioning engine and a table accessor for each
// standard list on one database.
type Catalog struct {
	stores  map[string]*Store
	engines map[string]*position.Engine
	tables  map[string]*Table
}

// NewCatalog builds the standard lists on db. Engines take their strict and
// uniqueness settings from cfg.
func NewCatalog(db *sql.DB, dialect Dialect, cfg types.Config, logger *slog.Logger) *Catalog {
	c := &Catalog{
		stores:  make(map[string]*Store),
		engines: make(map[string]*position.Engine),
		tables:  make(map[string]*Table),
	}
	for _, list := range types.StandardLists {
		st := New(db, dialect, list)
		eng := position.NewFromConfig(st, list, cfg, logger)
		c.stores[list.Table] = st
		c.engines[list.Table] = eng
		c.tables[list.Table] = NewTable(st, eng)
	}
	return c
}

// Store returns the record store for a list.
func (c *Catalog) Store(name string) (*Store, error) {
	st, ok := c.stores[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return st, nil
}

// Engine returns the positioning engine for a list.
func (c *Catalog) Engine(name string) (*position.Engine, error) {
	eng, ok := c.engines[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return eng, nil
}

// Table returns the table accessor for a list.
func (c *Catalog) Table(name string) (*Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return t, nil
}

// Export writes a list to path as JSONL.
func (c *Catalog) Export(ctx context.Context, name, path string) (int, error) {
	st, err := c.Store(name)
	if err != nil {
		return 0, err
	}
	return Export(ctx, st, path)
}

// Import loads a JSONL file into a list and repairs every scope it touched.
func (c *Catalog) Import(ctx context.Context, name, path string) (int, error) {
	st, err := c.Store(name)
	if err != nil {
		return 0, err
	}
	n, touched, err := Import(ctx, st, path)
	if err != nil {
		return 0, err
	}
	eng := c.engines[name]
	for _, scope := range touched {
		if _, err := eng.Repair(ctx, scope); err != nil {
			return n, fmt.Errorf("repairing %s scope %s: %w", name, scope, err)
		}
	}
	return n, nil
}
