package position

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

// OnCreate assigns rec a position before it is inserted. A zero position
// appends; anything else is clamped (or rejected in strict mode) and the
// members at or after it are shifted down to open the slot.
func (e *Engine) OnCreate(ctx context.Context, st types.RecordStore, rec *types.Record) error {
	scope := e.scope.ScopeOf(*rec)
	n, err := st.Count(ctx, scope)
	if err != nil {
		return fmt.Errorf("counting scope %s: %w", scope, err)
	}
	if rec.Position == 0 {
		rec.Position = n + 1
		return nil
	}
	p, err := e.alloc.Place(n, rec.Position, ForInsert)
	if err != nil {
		return err
	}
	rec.Position = p
	if p > n {
		return nil
	}
	members, err := st.MembersAtOrAfter(ctx, scope, p)
	if err != nil {
		return fmt.Errorf("reading scope %s from %d: %w", scope, p, err)
	}
	return e.apply(ctx, st, scope, InsertShifts(members, p))
}

// OnReposition runs before a record's position or scope changes. Within one
// scope the record and the members between its old and new slot are
// rewritten, so the record already holds next.Position on return. Across
// scopes the record is parked, the old scope closes its gap and the new scope
// opens next.Position for the caller's final write.
func (e *Engine) OnReposition(ctx context.Context, st types.RecordStore, prev types.Record, next *types.Record) error {
	from, to := e.scope.ScopeOf(prev), e.scope.ScopeOf(*next)
	if from == to {
		n, err := st.Count(ctx, from)
		if err != nil {
			return fmt.Errorf("counting scope %s: %w", from, err)
		}
		p, err := e.alloc.Place(n, next.Position, ForMove)
		if err != nil {
			return err
		}
		next.Position = p
		if p == prev.Position {
			return nil
		}
		lo, hi := min(p, prev.Position), max(p, prev.Position)
		members, err := st.MembersInRange(ctx, from, lo, hi)
		if err != nil {
			return fmt.Errorf("reading scope %s in [%d, %d]: %w", from, lo, hi, err)
		}
		return e.apply(ctx, st, from, MoveShifts(members, prev.ID, prev.Position, p))
	}

	n, err := st.Count(ctx, to)
	if err != nil {
		return fmt.Errorf("counting scope %s: %w", to, err)
	}
	requested := next.Position
	if requested == 0 {
		requested = n + 1
	}
	p, err := e.alloc.Place(n, requested, ForInsert)
	if err != nil {
		return err
	}
	next.Position = p

	if err := e.leave(ctx, st, prev); err != nil {
		return err
	}
	if p > n {
		return nil
	}
	members, err := st.MembersAtOrAfter(ctx, to, p)
	if err != nil {
		return fmt.Errorf("reading scope %s from %d: %w", to, p, err)
	}
	return e.apply(ctx, st, to, InsertShifts(members, p))
}

// OnDestroy runs before rec is deleted. The record is parked and every later
// sibling moves up one.
func (e *Engine) OnDestroy(ctx context.Context, st types.RecordStore, rec types.Record) error {
	return e.leave(ctx, st, rec)
}

func (e *Engine) leave(ctx context.Context, st types.RecordStore, rec types.Record) error {
	scope := e.scope.ScopeOf(rec)
	members, err := st.MembersAtOrAfter(ctx, scope, rec.Position)
	if err != nil {
		return fmt.Errorf("reading scope %s from %d: %w", scope, rec.Position, err)
	}
	return e.apply(ctx, st, scope, LeaveShifts(members, rec.ID, rec.Position))
}
