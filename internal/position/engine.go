package position

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

var _ types.Hooks = (*Engine)(nil)

// Engine keeps one list's positions contiguous. It implements types.Hooks
// for persistence layers that drive their own writes, and offers the list
// operations built on those hooks.
type Engine struct {
	store      types.RecordStore
	list       types.ListSpec
	scope      ScopeResolver
	alloc      Allocator
	uniqueness string
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithStrict rejects out-of-range positions instead of clamping them.
func WithStrict(strict bool) Option {
	return func(e *Engine) { e.alloc.Strict = strict }
}

// WithUniqueness tells the engine how the store enforces (scope, position)
// uniqueness: types.UniquenessAuto, UniquenessEager or UniquenessDeferred.
func WithUniqueness(mode string) Option {
	return func(e *Engine) { e.uniqueness = mode }
}

// WithScope overrides the scope resolver derived from the ListSpec.
func WithScope(r ScopeResolver) Option {
	return func(e *Engine) { e.scope = r }
}

// New creates an engine for list on store.
func New(store types.RecordStore, list types.ListSpec, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		list:       list,
		scope:      ResolverFor(list),
		uniqueness: types.UniquenessAuto,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromConfig creates an engine using the strict and uniqueness settings
// of cfg.
func NewFromConfig(store types.RecordStore, list types.ListSpec, cfg types.Config, logger *slog.Logger) *Engine {
	opts := []Option{WithStrict(cfg.Strict), WithUniqueness(cfg.GetUniqueness())}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	return New(store, list, opts...)
}

// Mode returns the write ordering the engine uses against store. Unordered
// writes are only chosen when uniqueness is deferred and the store can wrap
// them in a transaction; anything unknown falls back to Ordered.
func (e *Engine) Mode(store types.RecordStore) Mode {
	caps := store.Capabilities()
	if !caps.Transactions {
		return Ordered
	}
	switch e.uniqueness {
	case types.UniquenessDeferred:
		return Unordered
	case types.UniquenessAuto:
		if caps.DeferredUniqueness {
			return Unordered
		}
	}
	return Ordered
}

// Create inserts rec. A zero Position appends it to its scope; any other
// position inserts it there and shifts the members at or after it.
func (e *Engine) Create(ctx context.Context, rec types.Record) (types.Record, error) {
	err := e.withinTx(ctx, func(st types.RecordStore) error {
		if err := e.OnCreate(ctx, st, &rec); err != nil {
			return err
		}
		id, err := st.Create(ctx, rec)
		if err != nil {
			return e.conflict(err, "creating record at %d", rec.Position)
		}
		rec.ID = id
		return nil
	})
	if err != nil {
		return types.Record{}, err
	}
	return rec, nil
}

// Get returns the current state of a record.
func (e *Engine) Get(ctx context.Context, id string) (types.Record, error) {
	return e.store.Get(ctx, id)
}

// MoveTo moves a record to position within its scope. Out-of-range
// positions are clamped unless the engine is strict. Moving a record to its
// current position issues no writes.
func (e *Engine) MoveTo(ctx context.Context, id string, position int) (types.Record, error) {
	return e.reposition(ctx, id, func(_ types.RecordStore, prev types.Record) (types.Record, error) {
		next := prev
		next.Position = position
		return next, nil
	})
}

// InsertAt moves an existing record to position. It is MoveTo under the name
// callers of list libraries expect.
func (e *Engine) InsertAt(ctx context.Context, id string, position int) (types.Record, error) {
	return e.MoveTo(ctx, id, position)
}

// MoveHigher swaps a record with the one above it. No-op at the top.
func (e *Engine) MoveHigher(ctx context.Context, id string) (types.Record, error) {
	return e.reposition(ctx, id, func(_ types.RecordStore, prev types.Record) (types.Record, error) {
		next := prev
		if prev.Position > 1 {
			next.Position = prev.Position - 1
		}
		return next, nil
	})
}

// MoveLower swaps a record with the one below it. No-op at the bottom.
func (e *Engine) MoveLower(ctx context.Context, id string) (types.Record, error) {
	return e.reposition(ctx, id, func(st types.RecordStore, prev types.Record) (types.Record, error) {
		n, err := st.Count(ctx, e.scope.ScopeOf(prev))
		if err != nil {
			return prev, err
		}
		next := prev
		if prev.Position < n {
			next.Position = prev.Position + 1
		}
		return next, nil
	})
}

// MoveToTop moves a record to position 1.
func (e *Engine) MoveToTop(ctx context.Context, id string) (types.Record, error) {
	return e.MoveTo(ctx, id, 1)
}

// MoveToBottom moves a record to the last position of its scope.
func (e *Engine) MoveToBottom(ctx context.Context, id string) (types.Record, error) {
	return e.reposition(ctx, id, func(st types.RecordStore, prev types.Record) (types.Record, error) {
		n, err := st.Count(ctx, e.scope.ScopeOf(prev))
		if err != nil {
			return prev, err
		}
		next := prev
		next.Position = n
		return next, nil
	})
}

// MoveAbove places a record directly above sibling. Returns ErrScopeMismatch
// when sibling is in another scope; use Reparent to change scopes.
func (e *Engine) MoveAbove(ctx context.Context, id, siblingID string) (types.Record, error) {
	return e.moveRelative(ctx, id, siblingID, true)
}

// MoveBelow places a record directly below sibling. Returns ErrScopeMismatch
// when sibling is in another scope.
func (e *Engine) MoveBelow(ctx context.Context, id, siblingID string) (types.Record, error) {
	return e.moveRelative(ctx, id, siblingID, false)
}

func (e *Engine) moveRelative(ctx context.Context, id, siblingID string, above bool) (types.Record, error) {
	return e.reposition(ctx, id, func(st types.RecordStore, prev types.Record) (types.Record, error) {
		sib, err := st.Get(ctx, siblingID)
		if err != nil {
			return prev, fmt.Errorf("loading sibling %s: %w", siblingID, err)
		}
		if !SameScope(e.scope, prev, sib) {
			return prev, fmt.Errorf("%w: %s is in %s, %s is in %s", types.ErrScopeMismatch,
				id, e.scope.ScopeOf(prev), siblingID, e.scope.ScopeOf(sib))
		}
		next := prev
		switch {
		case sib.ID == prev.ID:
		case above && sib.Position < prev.Position:
			next.Position = sib.Position
		case above:
			next.Position = sib.Position - 1
		case sib.Position > prev.Position:
			next.Position = sib.Position
		default:
			next.Position = sib.Position + 1
		}
		return next, nil
	})
}

// Reparent moves a record into the scope of parentID at position; a zero
// position appends it. The old scope closes its gap and the new scope opens
// a slot, each renumbered independently. Reparenting within the same scope
// is a MoveTo.
func (e *Engine) Reparent(ctx context.Context, id string, parentID *string, position int) (types.Record, error) {
	return e.reposition(ctx, id, func(st types.RecordStore, prev types.Record) (types.Record, error) {
		next := prev
		next.ParentID = parentID
		next.Position = position
		if position == 0 {
			n, err := st.Count(ctx, e.scope.ScopeOf(next))
			if err != nil {
				return prev, err
			}
			if SameScope(e.scope, prev, next) {
				next.Position = n
			} else {
				next.Position = n + 1
			}
		}
		return next, nil
	})
}

// reposition loads a record, lets target compute its next state and runs
// the reposition hook plus the final write in one transaction.
func (e *Engine) reposition(ctx context.Context, id string,
	target func(st types.RecordStore, prev types.Record) (types.Record, error)) (types.Record, error) {
	if id == "" {
		return types.Record{}, types.ErrInvalidID
	}
	var out types.Record
	err := e.withinTx(ctx, func(st types.RecordStore) error {
		prev, err := st.Get(ctx, id)
		if err != nil {
			return err
		}
		next, err := target(st, prev)
		if err != nil {
			return err
		}
		if next.Position == prev.Position && SameScope(e.scope, prev, next) {
			out = prev
			return nil
		}
		if err := e.OnReposition(ctx, st, prev, &next); err != nil {
			return err
		}
		if !SameScope(e.scope, prev, next) {
			if err := st.UpdateScope(ctx, id, e.scope.ScopeOf(next), next.Position); err != nil {
				return e.conflict(err, "placing %s at %d", id, next.Position)
			}
		}
		out = next
		return nil
	})
	if err != nil {
		return types.Record{}, err
	}
	return out, nil
}

// Remove destroys a record and moves every later sibling up one.
func (e *Engine) Remove(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	return e.withinTx(ctx, func(st types.RecordStore) error {
		rec, err := st.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := e.OnDestroy(ctx, st, rec); err != nil {
			return err
		}
		if err := st.Destroy(ctx, id); err != nil {
			return fmt.Errorf("destroying %s: %w", id, err)
		}
		return nil
	})
}

// HigherItems returns the siblings above a record, nearest first. On stores
// that are not a SiblingReader, VisibleOnly checks only the sibling's own
// flag because the engine cannot read the parent list.
func (e *Engine) HigherItems(ctx context.Context, id string, opts types.SiblingOptions) ([]types.Record, error) {
	return e.siblings(ctx, id, types.Higher, opts)
}

// LowerItems returns the siblings below a record, nearest first.
func (e *Engine) LowerItems(ctx context.Context, id string, opts types.SiblingOptions) ([]types.Record, error) {
	return e.siblings(ctx, id, types.Lower, opts)
}

// HigherItem returns the sibling directly above a record, or ErrNotFound at
// the top.
func (e *Engine) HigherItem(ctx context.Context, id string) (types.Record, error) {
	return e.nearest(ctx, id, types.Higher)
}

// LowerItem returns the sibling directly below a record, or ErrNotFound at
// the bottom.
func (e *Engine) LowerItem(ctx context.Context, id string) (types.Record, error) {
	return e.nearest(ctx, id, types.Lower)
}

func (e *Engine) nearest(ctx context.Context, id string, dir types.Direction) (types.Record, error) {
	recs, err := e.siblings(ctx, id, dir, types.SiblingOptions{Limit: 1})
	if err != nil {
		return types.Record{}, err
	}
	if len(recs) == 0 {
		return types.Record{}, types.ErrNotFound
	}
	return recs[0], nil
}

func (e *Engine) siblings(ctx context.Context, id string, dir types.Direction, opts types.SiblingOptions) ([]types.Record, error) {
	if r, ok := e.store.(types.SiblingReader); ok {
		return r.Siblings(ctx, id, dir, opts)
	}

	rec, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	scope := e.scope.ScopeOf(rec)
	var members []types.Member
	if dir == types.Higher {
		members, err = e.store.MembersInRange(ctx, scope, 1, rec.Position-1)
		slices.Reverse(members)
	} else {
		members, err = e.store.MembersAtOrAfter(ctx, scope, rec.Position+1)
	}
	if err != nil {
		return nil, err
	}
	var out []types.Record
	for _, m := range members {
		sib, err := e.store.Get(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if opts.VisibleOnly && !sib.Visible {
			continue
		}
		out = append(out, sib)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

// IsFirst reports whether a record holds position 1.
func (e *Engine) IsFirst(ctx context.Context, id string) (bool, error) {
	rec, err := e.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return rec.Position == 1, nil
}

// IsLast reports whether a record holds the last position of its scope.
func (e *Engine) IsLast(ctx context.Context, id string) (bool, error) {
	rec, err := e.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	n, err := e.store.Count(ctx, e.scope.ScopeOf(rec))
	if err != nil {
		return false, err
	}
	return rec.Position == n, nil
}

// Members returns every member of scope ordered by position, including rows
// left outside 1..N by an interrupted operation.
func (e *Engine) Members(ctx context.Context, scope types.ScopeKey) ([]types.Member, error) {
	return e.store.MembersAtOrAfter(ctx, scope, math.MinInt32)
}

// Check verifies that scope holds exactly the positions 1..N. It returns an
// error wrapping ErrNotContiguous that names the first bad slot.
func (e *Engine) Check(ctx context.Context, scope types.ScopeKey) error {
	members, err := e.Members(ctx, scope)
	if err != nil {
		return err
	}
	for i, m := range members {
		if m.Position != i+1 {
			return fmt.Errorf("%w: scope %s slot %d holds %s at %d", types.ErrNotContiguous, scope, i+1, m.ID, m.Position)
		}
	}
	return nil
}

// Repair renumbers scope to 1..N keeping the current order and returns the
// number of records moved. It is the reconciliation step after an operation
// failed on a store without transactions.
func (e *Engine) Repair(ctx context.Context, scope types.ScopeKey) (int, error) {
	var moved int
	err := e.withinTx(ctx, func(st types.RecordStore) error {
		members, err := st.MembersAtOrAfter(ctx, scope, math.MinInt32)
		if err != nil {
			return err
		}
		set := Renumber(members)
		moved = len(set)
		return e.apply(ctx, st, scope, set)
	})
	if err != nil {
		return 0, err
	}
	if moved > 0 {
		e.logger.Info("scope repaired", "list", e.list.Table, "scope", scope.String(), "moved", moved)
	}
	return moved, nil
}

// withinTx runs fn in a store transaction. A uniqueness violation raised
// at commit means another writer changed the scope, so it surfaces as
// ErrConcurrentModification like a violation on a single write.
func (e *Engine) withinTx(ctx context.Context, fn func(types.RecordStore) error) error {
	err := e.store.WithinTx(ctx, fn)
	if errors.Is(err, types.ErrConflict) && !errors.Is(err, types.ErrConcurrentModification) {
		e.logger.Warn("position conflict at commit", "list", e.list.Table, "err", err)
		return fmt.Errorf("%w: %w", types.ErrConcurrentModification, err)
	}
	return err
}

// apply sequences set for the store's enforcement mode and writes it.
func (e *Engine) apply(ctx context.Context, st types.RecordStore, scope types.ScopeKey, set types.ShiftSet) error {
	if len(set) == 0 {
		return nil
	}
	mode := e.Mode(st)
	var writes []Write
	if mode == Ordered {
		// Rows stranded at or below the parking slot by an earlier failed
		// operation are not part of set but still hold their slots.
		stranded, err := st.MembersInRange(ctx, scope, math.MinInt32, ParkingPosition)
		if err != nil {
			return err
		}
		floor := ParkingPosition + 1
		if len(stranded) > 0 {
			floor = stranded[0].Position
		}
		writes = SequenceAbove(set, floor)
	} else {
		writes = Sequence(set, mode)
	}
	e.logger.Debug("applying shift plan",
		"list", e.list.Table,
		"scope", scope.String(),
		"mode", mode.String(),
		"shifts", len(set),
		"writes", len(writes))
	for _, w := range writes {
		if w.Park {
			e.logger.Debug("parking record", "list", e.list.Table, "id", w.ID, "from", w.From, "slot", w.To)
		}
		if err := st.UpdatePosition(ctx, w.ID, w.To); err != nil {
			return e.conflict(err, "moving %s from %d to %d", w.ID, w.From, w.To)
		}
	}
	return nil
}

// conflict wraps store uniqueness violations as ErrConcurrentModification;
// other errors pass through with context.
func (e *Engine) conflict(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, types.ErrConflict) {
		e.logger.Warn("position conflict", "list", e.list.Table, "op", msg, "err", err)
		return fmt.Errorf("%w: %s: %w", types.ErrConcurrentModification, msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
