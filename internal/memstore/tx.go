package memstore

import (
	"context"
	"fmt"
	"maps"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

// txStore is the store handed to WithinTx callbacks. Nested WithinTx calls
// join the running transaction.
type txStore struct {
	*Store
}

func (t txStore) WithinTx(_ context.Context, fn func(types.RecordStore) error) error {
	return fn(t)
}

// WithinTx runs fn in a transaction. Transactions are serialized; on error
// or panic the rows and index are restored from a snapshot taken at the
// start. With a deferred unique index, duplicates are checked before commit.
func (s *Store) WithinTx(ctx context.Context, fn func(types.RecordStore) error) (err error) {
	if s.noTx {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	rows := maps.Clone(s.rows)
	index := s.index.Clone()
	writes := s.writes
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		s.rows = rows
		s.index = index
		s.writes = writes
		s.mu.Unlock()
	}
	defer func() {
		if p := recover(); p != nil {
			rollback()
			panic(p)
		}
	}()

	if err := fn(txStore{s}); err != nil {
		rollback()
		return err
	}
	if s.unique == types.UniqueIndexDeferred {
		if err := s.checkUnique(); err != nil {
			rollback()
			return err
		}
	}
	return nil
}

// checkUnique reports the first (scope, position) held by two rows.
func (s *Store) checkUnique() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	var prev *slot
	s.index.Ascend(func(sl slot) bool {
		if prev != nil && prev.scope == sl.scope && prev.pos == sl.pos {
			err = fmt.Errorf("%w: %s position %d in scope %s at commit", types.ErrConflict, s.list.Table, sl.pos, sl.scope)
			return false
		}
		cur := sl
		prev = &cur
		return true
	})
	return err
}
