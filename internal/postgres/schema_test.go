package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

func TestSchemaDDL(t *testing.T) {
	deferred := schemaDDL(types.UniqueIndexDeferred)
	assert.Len(t, deferred, 2)
	assert.Contains(t, deferred[1], "UNIQUE (section_id, position) DEFERRABLE INITIALLY DEFERRED")

	eager := schemaDDL(types.UniqueIndexEager)
	assert.Contains(t, eager[0], "CONSTRAINT uq_sections_position UNIQUE (position)")
	assert.NotContains(t, eager[0], "DEFERRABLE")

	none := schemaDDL(types.UniqueIndexNone)
	assert.Len(t, none, 4)
	assert.NotContains(t, none[1], "UNIQUE")
}

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pgconn.PgError{Code: codeUniqueViolation}, true},
		{"wrapped serialization failure", fmt.Errorf("commit: %w", &pgconn.PgError{Code: codeSerializationFailure}), true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isConflict(tt.err))
		})
	}
}

func TestDialect(t *testing.T) {
	d := Dialect(types.UniqueIndexDeferred)
	assert.True(t, d.DeferredUniqueness)
	assert.True(t, d.Numbered)
	assert.False(t, Dialect(types.UniqueIndexEager).DeferredUniqueness)
}
