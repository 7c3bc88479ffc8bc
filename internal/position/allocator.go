package position

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

// ClampMode selects the valid range for a requested position.
type ClampMode int

const (
	// ForInsert allows 1..count+1: a new member may go after the last one.
	ForInsert ClampMode = iota
	// ForMove allows 1..count: an existing member stays within the list.
	ForMove
)

// NextPosition returns the position a record appended to scope receives.
func NextPosition(ctx context.Context, store types.RecordStore, scope types.ScopeKey) (int, error) {
	n, err := store.Count(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("counting scope %s: %w", scope, err)
	}
	return n + 1, nil
}

// Clamp bounds requested to the valid range for mode. It never fails.
func Clamp(count, requested int, mode ClampMode) int {
	hi := upperBound(count, mode)
	if requested > hi {
		requested = hi
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}

func upperBound(count int, mode ClampMode) int {
	if mode == ForInsert {
		return count + 1
	}
	if count < 1 {
		return 1
	}
	return count
}

// Allocator turns requested positions into valid ones. With Strict set,
// out-of-range requests fail with ErrInvalidPosition instead of clamping.
type Allocator struct {
	Strict bool
}

// Place validates or clamps requested for a scope holding count members.
func (a Allocator) Place(count, requested int, mode ClampMode) (int, error) {
	if a.Strict {
		if hi := upperBound(count, mode); requested < 1 || requested > hi {
			return 0, fmt.Errorf("%w: %d not in [1, %d]", types.ErrInvalidPosition, requested, hi)
		}
		return requested, nil
	}
	return Clamp(count, requested, mode), nil
}
