package sqlstore

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

// Siblings returns the records above (Higher) or below (Lower) id in its
// scope, nearest first. With VisibleOnly, hidden records are skipped and, when
// the list has a parent table, the parent is joined and must be visible too.
// Every column is qualified by table so the join never makes a column
// ambiguous.
func (s *Store) Siblings(ctx context.Context, id string, dir types.Direction, opts types.SiblingOptions) ([]types.Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	t := s.list.Table
	query := "SELECT " + s.columns() + " FROM " + t
	if opts.VisibleOnly && s.list.Parent != nil && s.list.Scoped() {
		p := s.list.Parent.Table
		query += fmt.Sprintf(" JOIN %s ON %s.id = %s.%s", p, p, t, s.list.ScopeColumn)
	}

	cond, args := s.scopeCond(s.scopeOf(rec))
	query += " WHERE " + cond
	order := ""
	if dir == types.Higher {
		query += " AND " + t + ".position < ?"
		order = " ORDER BY " + t + ".position DESC, " + t + ".id DESC"
	} else {
		query += " AND " + t + ".position > ?"
		order = " ORDER BY " + t + ".position, " + t + ".id"
	}
	args = append(args, rec.Position)

	if opts.VisibleOnly {
		query += " AND " + t + ".visible = ?"
		args = append(args, true)
		if s.list.Parent != nil && s.list.Scoped() {
			query += " AND " + s.list.Parent.Table + ".visible = ?"
			args = append(args, true)
		}
	}
	query += order
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.q.QueryContext(ctx, s.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("reading %s siblings of %s: %w", t, id, err)
	}
	return scanRecords(rows)
}
