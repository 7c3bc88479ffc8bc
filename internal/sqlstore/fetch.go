package sqlstore

import (
	"context"
	"fmt"
	"math"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

// Fetch returns records matching filter ordered by scope then position.
// Supported keys: parent_id (string or *string; nil or "" select the null
// scope), visible (bool),
// limit and offset (int). Unknown keys or wrong value types return
// ErrInvalidFilter.
func (s *Store) Fetch(ctx context.Context, filter types.Filter) ([]types.Record, error) {
	t := s.list.Table
	query := "SELECT " + s.columns() + " FROM " + t + " WHERE 1 = 1"
	var args []any
	limit, offset := 0, 0

	for key, val := range filter {
		switch key {
		case "parent_id":
			if !s.list.Scoped() {
				return nil, fmt.Errorf("%w: %s has no parent", types.ErrInvalidFilter, t)
			}
			var scope types.ScopeKey
			switch parent := val.(type) {
			case nil:
				scope = types.NullScope
			case string:
				if parent != "" {
					scope = types.ScopeKey{Value: parent, Valid: true}
				}
			case *string:
				scope = types.ScopeOf(parent)
			default:
				return nil, fmt.Errorf("%w: parent_id must be a string or nil", types.ErrInvalidFilter)
			}
			cond, condArgs := s.scopeCond(scope)
			query += " AND " + cond
			args = append(args, condArgs...)
		case "visible":
			v, ok := val.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: visible must be a bool", types.ErrInvalidFilter)
			}
			query += " AND " + t + ".visible = ?"
			args = append(args, v)
		case "limit", "offset":
			n, ok := val.(int)
			if !ok || n < 0 {
				return nil, fmt.Errorf("%w: %s must be a non-negative int", types.ErrInvalidFilter, key)
			}
			if key == "limit" {
				limit = n
			} else {
				offset = n
			}
		default:
			return nil, fmt.Errorf("%w: unknown key %q", types.ErrInvalidFilter, key)
		}
	}

	if s.list.Scoped() {
		query += " ORDER BY " + t + "." + s.list.ScopeColumn + ", " + t + ".position, " + t + ".id"
	} else {
		query += " ORDER BY " + t + ".position, " + t + ".id"
	}
	if limit > 0 || offset > 0 {
		if limit == 0 {
			limit = math.MaxInt32
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := s.q.QueryContext(ctx, s.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", t, err)
	}
	return scanRecords(rows)
}
