package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

func strPtr(s string) *string { return &s }

func fill(t *testing.T, s *Store, parent *string, ids ...string) {
	t.Helper()
	for i, id := range ids {
		_, err := s.Create(context.Background(), types.Record{ID: id, ParentID: parent, Position: i + 1})
		require.NoError(t, err)
	}
}

func TestCreateAssignsUUID(t *testing.T) {
	s := New(types.Sections, Options{})
	id, err := s.Create(context.Background(), types.Record{Name: "a", Position: 1})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	_, err = s.Create(context.Background(), types.Record{ID: id, Position: 2})
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestEagerIndexRejectsOccupiedSlot(t *testing.T) {
	ctx := context.Background()
	s := New(types.Items, Options{})
	fill(t, s, strPtr("s1"), "a", "b")
	fill(t, s, strPtr("s2"), "c")

	err := s.UpdatePosition(ctx, "a", 2)
	assert.ErrorIs(t, err, types.ErrConflict)

	// The same position in another scope is free.
	require.NoError(t, s.UpdateScope(ctx, "c", types.ScopeOf(strPtr("s1")), 3))
	rec, err := s.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "s1", *rec.ParentID)
	assert.Equal(t, 3, rec.Position)
}

func TestMembersQueries(t *testing.T) {
	ctx := context.Background()
	s := New(types.Items, Options{})
	fill(t, s, strPtr("s1"), "a", "b", "c", "d")
	fill(t, s, nil, "x")

	scope := types.ScopeOf(strPtr("s1"))
	n, err := s.Count(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = s.Count(ctx, types.NullScope)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	after, err := s.MembersAtOrAfter(ctx, scope, 3)
	require.NoError(t, err)
	assert.Equal(t, []types.Member{{ID: "c", Position: 3}, {ID: "d", Position: 4}}, after)

	between, err := s.MembersInRange(ctx, scope, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []types.Member{{ID: "b", Position: 2}, {ID: "c", Position: 3}}, between)

	empty, err := s.MembersInRange(ctx, scope, 3, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.Equal(t, []types.ScopeKey{types.NullScope, scope}, s.Scopes())
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New(types.Sections, Options{})
	fill(t, s, nil, "a", "b")

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx types.RecordStore) error {
		require.NoError(t, tx.UpdatePosition(ctx, "b", 3))
		require.NoError(t, tx.Destroy(ctx, "a"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	a, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Position)
	b, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Position)
}

func TestDeferredIndexChecksAtCommit(t *testing.T) {
	ctx := context.Background()
	s := New(types.Sections, Options{UniqueIndex: types.UniqueIndexDeferred})
	fill(t, s, nil, "a", "b")
	assert.True(t, s.Capabilities().DeferredUniqueness)

	// A transient duplicate that is resolved before commit is accepted.
	err := s.WithinTx(ctx, func(tx types.RecordStore) error {
		if err := tx.UpdatePosition(ctx, "a", 2); err != nil {
			return err
		}
		return tx.UpdatePosition(ctx, "b", 1)
	})
	require.NoError(t, err)

	// A duplicate still present at commit is rejected and rolled back.
	err = s.WithinTx(ctx, func(tx types.RecordStore) error {
		return tx.UpdatePosition(ctx, "a", 2)
	})
	assert.ErrorIs(t, err, types.ErrConflict)
	a, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Position)
}

func TestNoTransactions(t *testing.T) {
	ctx := context.Background()
	s := New(types.Sections, Options{NoTransactions: true})
	fill(t, s, nil, "a")
	assert.False(t, s.Capabilities().Transactions)

	err := s.WithinTx(ctx, func(tx types.RecordStore) error {
		if err := tx.UpdatePosition(ctx, "a", 5); err != nil {
			return err
		}
		return errors.New("late failure")
	})
	require.Error(t, err)
	a, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 5, a.Position, "writes are not undone without transactions")
}

func TestUnscopedListDropsParent(t *testing.T) {
	s := New(types.Sections, Options{})
	id, err := s.Create(context.Background(), types.Record{ParentID: strPtr("p"), Position: 1})
	require.NoError(t, err)
	rec, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, rec.ParentID)
}
