// Package memstore is an in-memory RecordStore. Rows live in a map keyed by
// ID with a btree index on (scope, position, id). The index can enforce
// uniqueness on every write (like a SQL unique index), at commit (like a
// deferrable constraint) or not at all, which lets tests exercise the engine
// against each enforcement mode without a database.
package memstore

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/btree"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

var _ types.RecordStore = (*Store)(nil)

// Options configures a Store.
type Options struct {
	// UniqueIndex is types.UniqueIndexNone, UniqueIndexEager (default) or
	// UniqueIndexDeferred.
	UniqueIndex string

	// NoTransactions makes WithinTx run fn directly with no rollback.
	NoTransactions bool
}

// slot is one entry of the position index.
type slot struct {
	scope types.ScopeKey
	pos   int
	id    string
}

func lessSlot(a, b slot) bool {
	if a.scope.Valid != b.scope.Valid {
		return !a.scope.Valid
	}
	if a.scope.Value != b.scope.Value {
		return a.scope.Value < b.scope.Value
	}
	if a.pos != b.pos {
		return a.pos < b.pos
	}
	return a.id < b.id
}

// Store is an in-memory RecordStore for one list.
type Store struct {
	list   types.ListSpec
	unique string
	noTx   bool

	txMu sync.Mutex // serializes transactions

	mu     sync.Mutex
	rows   map[string]types.Record
	index  *btree.BTreeG[slot]
	writes int

	// Intercept, when set, runs before every position write with the
	// record ID and target position. A non-nil error aborts the write.
	// Tests use it to simulate concurrent writers.
	Intercept func(id string, position int) error
}

// New creates an empty store for list.
func New(list types.ListSpec, opts Options) *Store {
	unique := opts.UniqueIndex
	if unique == "" {
		unique = types.UniqueIndexEager
	}
	return &Store{
		list:   list,
		unique: unique,
		noTx:   opts.NoTransactions,
		rows:   make(map[string]types.Record),
		index:  btree.NewG(8, lessSlot),
	}
}

func (s *Store) scopeOf(rec types.Record) types.ScopeKey {
	if !s.list.Scoped() {
		return types.NullScope
	}
	return types.ScopeOf(rec.ParentID)
}

// Capabilities reports transactions unless disabled, and deferred
// uniqueness when the index checks at commit.
func (s *Store) Capabilities() types.Capabilities {
	return types.Capabilities{
		Transactions:       !s.noTx,
		DeferredUniqueness: s.unique == types.UniqueIndexDeferred,
	}
}

// Get returns a copy of the record.
func (s *Store) Get(_ context.Context, id string) (types.Record, error) {
	if id == "" {
		return types.Record{}, types.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rows[id]
	if !ok {
		return types.Record{}, types.ErrNotFound
	}
	return rec, nil
}

// Count returns the number of records in scope.
func (s *Store) Count(_ context.Context, scope types.ScopeKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	s.index.AscendGreaterOrEqual(slot{scope: scope, pos: math.MinInt}, func(sl slot) bool {
		if sl.scope != scope {
			return false
		}
		n++
		return true
	})
	return n, nil
}

// MembersAtOrAfter returns members of scope with position >= position.
func (s *Store) MembersAtOrAfter(_ context.Context, scope types.ScopeKey, position int) ([]types.Member, error) {
	return s.scan(scope, position, math.MaxInt), nil
}

// MembersInRange returns members of scope with low <= position <= high.
func (s *Store) MembersInRange(_ context.Context, scope types.ScopeKey, low, high int) ([]types.Member, error) {
	if high < low {
		return nil, nil
	}
	return s.scan(scope, low, high), nil
}

func (s *Store) scan(scope types.ScopeKey, low, high int) []types.Member {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []types.Member
	s.index.AscendGreaterOrEqual(slot{scope: scope, pos: low}, func(sl slot) bool {
		if sl.scope != scope || sl.pos > high {
			return false
		}
		out = append(out, types.Member{ID: sl.id, Position: sl.pos})
		return true
	})
	return out
}

// UpdatePosition moves a record within its scope.
func (s *Store) UpdatePosition(_ context.Context, id string, position int) error {
	if s.Intercept != nil {
		if err := s.Intercept(id, position); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rows[id]
	if !ok {
		return types.ErrNotFound
	}
	return s.placeLocked(rec, s.scopeOf(rec), position)
}

// UpdateScope moves a record into scope at position.
func (s *Store) UpdateScope(_ context.Context, id string, scope types.ScopeKey, position int) error {
	if s.Intercept != nil {
		if err := s.Intercept(id, position); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rows[id]
	if !ok {
		return types.ErrNotFound
	}
	if s.list.Scoped() {
		rec.ParentID = scope.Ptr()
	}
	return s.placeLocked(rec, scope, position)
}

// placeLocked writes rec at (scope, position), replacing its index entry.
// The caller must hold s.mu.
func (s *Store) placeLocked(rec types.Record, scope types.ScopeKey, position int) error {
	if s.unique == types.UniqueIndexEager && s.occupiedLocked(scope, position, rec.ID) {
		return fmt.Errorf("%w: %s position %d in scope %s", types.ErrConflict, s.list.Table, position, scope)
	}
	if old, ok := s.rows[rec.ID]; ok {
		s.index.Delete(slot{scope: s.scopeOf(old), pos: old.Position, id: old.ID})
	}
	rec.Position = position
	s.rows[rec.ID] = rec
	s.index.ReplaceOrInsert(slot{scope: scope, pos: position, id: rec.ID})
	s.writes++
	return nil
}

func (s *Store) occupiedLocked(scope types.ScopeKey, position int, self string) bool {
	taken := false
	s.index.AscendGreaterOrEqual(slot{scope: scope, pos: position}, func(sl slot) bool {
		if sl.scope != scope || sl.pos != position {
			return false
		}
		if sl.id != self {
			taken = true
			return false
		}
		return true
	})
	return taken
}

// Create inserts rec with a new UUID v7 unless rec.ID is already set.
func (s *Store) Create(_ context.Context, rec types.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	if !s.list.Scoped() {
		rec.ParentID = nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[rec.ID]; ok {
		return "", fmt.Errorf("%w: duplicate id %s", types.ErrInvalidID, rec.ID)
	}
	if err := s.placeLocked(rec, s.scopeOf(rec), rec.Position); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Destroy deletes a record.
func (s *Store) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.rows[id]
	if !ok {
		return types.ErrNotFound
	}
	s.index.Delete(slot{scope: s.scopeOf(rec), pos: rec.Position, id: id})
	delete(s.rows, id)
	s.writes++
	return nil
}

// Writes returns the number of row writes applied so far.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Scopes returns every scope holding at least one record.
func (s *Store) Scopes() []types.ScopeKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []types.ScopeKey
	s.index.Ascend(func(sl slot) bool {
		if len(out) == 0 || out[len(out)-1] != sl.scope {
			out = append(out, sl.scope)
		}
		return true
	})
	return out
}
