package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		requested int
		mode      ClampMode
		want      int
	}{
		{name: "insert in range", count: 3, requested: 2, mode: ForInsert, want: 2},
		{name: "insert after last", count: 3, requested: 4, mode: ForInsert, want: 4},
		{name: "insert far past end clamps to append", count: 3, requested: 99, mode: ForInsert, want: 4},
		{name: "insert below one clamps to top", count: 3, requested: -5, mode: ForInsert, want: 1},
		{name: "insert into empty scope", count: 0, requested: 7, mode: ForInsert, want: 1},
		{name: "move in range", count: 3, requested: 3, mode: ForMove, want: 3},
		{name: "move past end clamps to last", count: 3, requested: 4, mode: ForMove, want: 3},
		{name: "move zero clamps to top", count: 3, requested: 0, mode: ForMove, want: 1},
		{name: "move in single member scope", count: 1, requested: 5, mode: ForMove, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.count, tt.requested, tt.mode))
		})
	}
}

func TestAllocatorStrict(t *testing.T) {
	strict := Allocator{Strict: true}

	p, err := strict.Place(3, 4, ForInsert)
	require.NoError(t, err)
	assert.Equal(t, 4, p)

	_, err = strict.Place(3, 4, ForMove)
	assert.ErrorIs(t, err, types.ErrInvalidPosition)

	_, err = strict.Place(3, 0, ForInsert)
	assert.ErrorIs(t, err, types.ErrInvalidPosition)

	lenient := Allocator{}
	p, err = lenient.Place(3, 10, ForMove)
	require.NoError(t, err)
	assert.Equal(t, 3, p)
}
