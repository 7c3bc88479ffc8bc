package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

// Table is the types.Table accessor for a list. Every write runs the
// positioning hooks in the same transaction as the row change, so callers
// that only know Get/Set/Delete still keep the list contiguous.
type Table struct {
	store *Store
	hooks types.Hooks
}

var _ types.Table = (*Table)(nil)

// NewTable returns an accessor for store that positions rows with hooks.
func NewTable(store *Store, hooks types.Hooks) *Table {
	return &Table{store: store, hooks: hooks}
}

// Store returns the underlying record store.
func (t *Table) Store() *Store {
	return t.store
}

// Get retrieves a record by ID.
func (t *Table) Get(ctx context.Context, id string) (types.Record, error) {
	return t.store.Get(ctx, id)
}

// Set creates or updates a record and returns its ID. An empty id (or an id
// not yet stored) creates the record: Position 0 appends, anything else
// inserts there. For an existing record a changed Position or ParentID
// repositions it; Position 0 keeps its slot within the same scope and
// appends when the scope changes. rec is updated with the stored state.
func (t *Table) Set(ctx context.Context, id string, rec *types.Record) (string, error) {
	if rec == nil {
		return "", types.ErrInvalidData
	}
	err := t.store.WithinTx(ctx, func(st types.RecordStore) error {
		if id != "" {
			prev, err := st.Get(ctx, id)
			if err == nil {
				return t.update(ctx, st, prev, rec)
			}
			if !errors.Is(err, types.ErrNotFound) {
				return err
			}
		}
		rec.ID = id
		if err := t.hooks.OnCreate(ctx, st, rec); err != nil {
			return err
		}
		newID, err := st.Create(ctx, *rec)
		if err != nil {
			return concurrent(err)
		}
		rec.ID = newID
		return nil
	})
	if err != nil {
		return "", concurrent(err)
	}
	return rec.ID, nil
}

func (t *Table) update(ctx context.Context, st types.RecordStore, prev types.Record, rec *types.Record) error {
	next := *rec
	next.ID = prev.ID
	if !t.store.list.Scoped() {
		next.ParentID = nil
	}
	sameScope := t.store.scopeOf(prev) == t.store.scopeOf(next)
	if next.Position == 0 && sameScope {
		next.Position = prev.Position
	}
	if !sameScope || next.Position != prev.Position {
		if err := t.hooks.OnReposition(ctx, st, prev, &next); err != nil {
			return err
		}
		if !sameScope {
			if err := st.UpdateScope(ctx, prev.ID, t.store.scopeOf(next), next.Position); err != nil {
				return concurrent(err)
			}
		}
	}
	if next.Name != prev.Name || next.Visible != prev.Visible {
		attrs, ok := st.(*Store)
		if !ok {
			return fmt.Errorf("%w: store cannot update attributes", types.ErrInvalidData)
		}
		if err := attrs.UpdateAttributes(ctx, prev.ID, next.Name, next.Visible); err != nil {
			return err
		}
	}
	*rec = next
	return nil
}

// Delete removes a record and closes the gap it leaves.
func (t *Table) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	err := t.store.WithinTx(ctx, func(st types.RecordStore) error {
		rec, err := st.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := t.hooks.OnDestroy(ctx, st, rec); err != nil {
			return err
		}
		return st.Destroy(ctx, id)
	})
	return concurrent(err)
}

// Fetch returns records matching filter; see Store.Fetch.
func (t *Table) Fetch(ctx context.Context, filter types.Filter) ([]types.Record, error) {
	return t.store.Fetch(ctx, filter)
}

// concurrent marks a uniqueness violation, from a write or from commit, as
// a concurrent modification.
func concurrent(err error) error {
	if errors.Is(err, types.ErrConflict) && !errors.Is(err, types.ErrConcurrentModification) {
		return fmt.Errorf("%w: %w", types.ErrConcurrentModification, err)
	}
	return err
}
