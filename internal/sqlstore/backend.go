package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/ranks/internal/position"
	"github.com/mesh-intelligence/ranks/pkg/types"
)

// Opener connects to a database for config, applies the schema and returns
// the dialect the stores should use.
type Opener func(ctx context.Context, config types.Config) (*sql.DB, Dialect, error)

var _ types.Backend = (*Backend)(nil)

// Backend implements types.Backend on any database an Opener can reach.
type Backend struct {
	mu       sync.RWMutex
	name     string
	open     Opener
	attached bool
	config   types.Config
	db       *sql.DB
	catalog  *Catalog
	logger   *slog.Logger
}

// NewBackend creates a detached backend. A nil logger uses slog.Default().
func NewBackend(name string, open Opener, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{name: name, open: open, logger: logger}
}

// Attach validates config, opens the database and builds the list catalog.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	db, dialect, err := b.open(context.Background(), config)
	if err != nil {
		return err
	}
	b.db = db
	b.config = config
	b.catalog = NewCatalog(db, dialect, config, b.logger)
	b.attached = true
	b.logger.Debug("backend attached",
		"backend", b.name,
		"dialect", dialect.Name,
		"unique_index", config.GetUniqueIndex(),
		"uniqueness", config.GetUniqueness())
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	b.db = nil
	b.catalog = nil
	b.attached = false
	return nil
}

// DB returns the open database handle, or ErrBackendDetached.
func (b *Backend) DB() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.db, nil
}

func (b *Backend) attachedCatalog() (*Catalog, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	return b.catalog, nil
}

// GetTable returns the table accessor for a list.
func (b *Backend) GetTable(name string) (types.Table, error) {
	c, err := b.attachedCatalog()
	if err != nil {
		return nil, err
	}
	return c.Table(name)
}

// Store returns the record store for a list.
func (b *Backend) Store(name string) (types.RecordStore, error) {
	c, err := b.attachedCatalog()
	if err != nil {
		return nil, err
	}
	return c.Store(name)
}

// Engine returns the positioning engine for a list.
func (b *Backend) Engine(name string) (*position.Engine, error) {
	c, err := b.attachedCatalog()
	if err != nil {
		return nil, err
	}
	return c.Engine(name)
}

// Scopes returns every scope of a list that holds records.
func (b *Backend) Scopes(ctx context.Context, name string) ([]types.ScopeKey, error) {
	c, err := b.attachedCatalog()
	if err != nil {
		return nil, err
	}
	st, err := c.Store(name)
	if err != nil {
		return nil, err
	}
	return st.Scopes(ctx)
}

// Export writes a list to path as JSONL and returns the record count.
func (b *Backend) Export(ctx context.Context, name, path string) (int, error) {
	c, err := b.attachedCatalog()
	if err != nil {
		return 0, err
	}
	return c.Export(ctx, name, path)
}

// Import loads a JSONL file into a list and returns the record count.
func (b *Backend) Import(ctx context.Context, name, path string) (int, error) {
	c, err := b.attachedCatalog()
	if err != nil {
		return 0, err
	}
	return c.Import(ctx, name, path)
}
