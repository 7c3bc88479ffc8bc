package sqlstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name     string
		numbered bool
		in       string
		want     string
	}{
		{"question marks kept", false, "UPDATE t SET position = ? WHERE id = ?", "UPDATE t SET position = ? WHERE id = ?"},
		{"numbered", true, "UPDATE t SET position = ? WHERE id = ?", "UPDATE t SET position = $1 WHERE id = $2"},
		{"no placeholders", true, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dialect{Numbered: tt.numbered}.Rebind(tt.in))
		})
	}
}

func TestWriteErrMarksConflicts(t *testing.T) {
	dup := errors.New("duplicate key")
	s := &Store{
		list:    types.Sections,
		dialect: Dialect{IsConflict: func(err error) bool { return errors.Is(err, dup) }},
	}

	err := s.writeErr(dup, "updating %s", "x")
	assert.ErrorIs(t, err, types.ErrConflict)
	assert.ErrorIs(t, err, dup)

	other := errors.New("disk full")
	err = s.writeErr(other, "updating %s", "x")
	assert.NotErrorIs(t, err, types.ErrConflict)
	assert.ErrorIs(t, err, other)
}

func TestScopeCond(t *testing.T) {
	items := &Store{list: types.Items}
	cond, args := items.scopeCond(types.ScopeKey{Value: "s1", Valid: true})
	assert.Equal(t, "items.section_id = ?", cond)
	assert.Equal(t, []any{"s1"}, args)

	cond, args = items.scopeCond(types.NullScope)
	assert.Equal(t, "items.section_id IS NULL", cond)
	assert.Empty(t, args)

	sections := &Store{list: types.Sections}
	cond, _ = sections.scopeCond(types.NullScope)
	assert.Equal(t, "1 = 1", cond)
}
