package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

var (
	_ types.RecordStore   = (*Store)(nil)
	_ types.SiblingReader = (*Store)(nil)
)

// queryer is the subset of *sql.DB and *sql.Tx the store uses.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a RecordStore for one list table.
type Store struct {
	db      *sql.DB
	q       queryer
	inTx    bool
	dialect Dialect
	list    types.ListSpec
}

// New returns a store for list on db. The table must already exist.
func New(db *sql.DB, dialect Dialect, list types.ListSpec) *Store {
	return &Store{db: db, q: db, dialect: dialect, list: list}
}

// List returns the ListSpec the store serves.
func (s *Store) List() types.ListSpec {
	return s.list
}

// Capabilities reports transactions, and deferred uniqueness when the
// dialect's constraint is checked at commit.
func (s *Store) Capabilities() types.Capabilities {
	return types.Capabilities{
		Transactions:       true,
		DeferredUniqueness: s.dialect.DeferredUniqueness,
	}
}

func (s *Store) bind(query string) string {
	return s.dialect.Rebind(query)
}

func (s *Store) scopeOf(rec types.Record) types.ScopeKey {
	if !s.list.Scoped() {
		return types.NullScope
	}
	return types.ScopeOf(rec.ParentID)
}

// columns lists the record columns qualified by table name so joined
// queries stay unambiguous.
func (s *Store) columns() string {
	t := s.list.Table
	parent := "NULL"
	if s.list.Scoped() {
		parent = t + "." + s.list.ScopeColumn
	}
	return fmt.Sprintf("%s.id, %s, %s.position, %s.name, %s.visible", t, parent, t, t, t)
}

// scopeCond returns the WHERE fragment selecting scope. Unscoped lists have
// a single scope holding every row.
func (s *Store) scopeCond(scope types.ScopeKey) (string, []any) {
	if !s.list.Scoped() {
		return "1 = 1", nil
	}
	col := s.list.Table + "." + s.list.ScopeColumn
	if !scope.Valid {
		return col + " IS NULL", nil
	}
	return col + " = ?", []any{scope.Value}
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (types.Record, error) {
	var (
		rec    types.Record
		parent sql.NullString
	)
	if err := row.Scan(&rec.ID, &parent, &rec.Position, &rec.Name, &rec.Visible); err != nil {
		return types.Record{}, err
	}
	if parent.Valid {
		rec.ParentID = &parent.String
	}
	return rec, nil
}

func scanRecords(rows *sql.Rows) ([]types.Record, error) {
	defer rows.Close()
	var out []types.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns the record with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (types.Record, error) {
	if id == "" {
		return types.Record{}, types.ErrInvalidID
	}
	row := s.q.QueryRowContext(ctx,
		s.bind("SELECT "+s.columns()+" FROM "+s.list.Table+" WHERE "+s.list.Table+".id = ?"), id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, types.ErrNotFound
	}
	if err != nil {
		return types.Record{}, fmt.Errorf("getting %s %s: %w", s.list.Table, id, err)
	}
	return rec, nil
}

// Count returns the number of records in scope.
func (s *Store) Count(ctx context.Context, scope types.ScopeKey) (int, error) {
	cond, args := s.scopeCond(scope)
	var n int
	err := s.q.QueryRowContext(ctx, s.bind("SELECT COUNT(*) FROM "+s.list.Table+" WHERE "+cond), args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", s.list.Table, err)
	}
	return n, nil
}

// MembersAtOrAfter returns members of scope with position >= position,
// ordered by position.
func (s *Store) MembersAtOrAfter(ctx context.Context, scope types.ScopeKey, position int) ([]types.Member, error) {
	cond, args := s.scopeCond(scope)
	return s.members(ctx, cond+" AND position >= ?", append(args, position)...)
}

// MembersInRange returns members of scope with low <= position <= high.
func (s *Store) MembersInRange(ctx context.Context, scope types.ScopeKey, low, high int) ([]types.Member, error) {
	if high < low {
		return nil, nil
	}
	cond, args := s.scopeCond(scope)
	return s.members(ctx, cond+" AND position >= ? AND position <= ?", append(args, low, high)...)
}

func (s *Store) members(ctx context.Context, where string, args ...any) ([]types.Member, error) {
	rows, err := s.q.QueryContext(ctx,
		s.bind("SELECT id, position FROM "+s.list.Table+" WHERE "+where+" ORDER BY position, id"), args...)
	if err != nil {
		return nil, fmt.Errorf("reading %s members: %w", s.list.Table, err)
	}
	defer rows.Close()

	var out []types.Member
	for rows.Next() {
		var m types.Member
		if err := rows.Scan(&m.ID, &m.Position); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdatePosition writes position for id.
func (s *Store) UpdatePosition(ctx context.Context, id string, position int) error {
	return s.exec(ctx, id, "UPDATE "+s.list.Table+" SET position = ? WHERE id = ?", position, id)
}

// UpdateScope moves id into scope at position. On an unscoped list it is
// UpdatePosition.
func (s *Store) UpdateScope(ctx context.Context, id string, scope types.ScopeKey, position int) error {
	if !s.list.Scoped() {
		return s.UpdatePosition(ctx, id, position)
	}
	return s.exec(ctx, id,
		"UPDATE "+s.list.Table+" SET "+s.list.ScopeColumn+" = ?, position = ? WHERE id = ?",
		nullable(scope.Ptr()), position, id)
}

// UpdateAttributes writes the non-positional columns of id.
func (s *Store) UpdateAttributes(ctx context.Context, id, name string, visible bool) error {
	return s.exec(ctx, id, "UPDATE "+s.list.Table+" SET name = ?, visible = ? WHERE id = ?", name, visible, id)
}

func (s *Store) exec(ctx context.Context, id, query string, args ...any) error {
	res, err := s.q.ExecContext(ctx, s.bind(query), args...)
	if err != nil {
		return s.writeErr(err, "updating %s %s", s.list.Table, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating %s %s: %w", s.list.Table, id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// writeErr marks driver conflicts with ErrConflict.
func (s *Store) writeErr(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if s.dialect.conflict(err) {
		return fmt.Errorf("%w: %s: %w", types.ErrConflict, msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Create inserts rec with a new UUID v7 unless rec.ID is already set.
func (s *Store) Create(ctx context.Context, rec types.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	cols := []string{"id", "position", "name", "visible"}
	args := []any{rec.ID, rec.Position, rec.Name, rec.Visible}
	if s.list.Scoped() {
		cols = append(cols, s.list.ScopeColumn)
		args = append(args, nullable(rec.ParentID))
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.list.Table, strings.Join(cols, ", "), marks)
	if _, err := s.q.ExecContext(ctx, s.bind(query), args...); err != nil {
		return "", s.writeErr(err, "inserting %s %s", s.list.Table, rec.ID)
	}
	return rec.ID, nil
}

// Destroy deletes id.
func (s *Store) Destroy(ctx context.Context, id string) error {
	return s.exec(ctx, id, "DELETE FROM "+s.list.Table+" WHERE id = ?", id)
}

// WithinTx runs fn in a transaction using the dialect's TxOptions. fn
// receives a store bound to the transaction; nested calls join it. The
// transaction commits when fn returns nil and rolls back otherwise,
// including on panic.
func (s *Store) WithinTx(ctx context.Context, fn func(types.RecordStore) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, s.dialect.TxOptions)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	child := *s
	child.q = tx
	child.inTx = true
	if err := fn(&child); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return s.writeErr(err, "committing %s", s.list.Table)
	}
	return nil
}

// Scopes returns every scope holding at least one record.
func (s *Store) Scopes(ctx context.Context) ([]types.ScopeKey, error) {
	if !s.list.Scoped() {
		n, err := s.Count(ctx, types.NullScope)
		if err != nil || n == 0 {
			return nil, err
		}
		return []types.ScopeKey{types.NullScope}, nil
	}
	col := s.list.ScopeColumn
	rows, err := s.q.QueryContext(ctx, "SELECT DISTINCT "+col+" FROM "+s.list.Table+" ORDER BY "+col)
	if err != nil {
		return nil, fmt.Errorf("listing %s scopes: %w", s.list.Table, err)
	}
	defer rows.Close()

	var out []types.ScopeKey
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning scope: %w", err)
		}
		out = append(out, types.ScopeKey{Value: v.String, Valid: v.Valid})
	}
	return out, rows.Err()
}
