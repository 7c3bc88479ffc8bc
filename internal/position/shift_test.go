package position

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

func abc() []types.Member {
	return []types.Member{{ID: "a", Position: 1}, {ID: "b", Position: 2}, {ID: "c", Position: 3}}
}

func TestInsertShifts(t *testing.T) {
	tests := []struct {
		name string
		at   int
		want types.ShiftSet
	}{
		{
			name: "insert at top shifts everyone",
			at:   1,
			want: types.ShiftSet{{ID: "a", From: 1, To: 2}, {ID: "b", From: 2, To: 3}, {ID: "c", From: 3, To: 4}},
		},
		{
			name: "insert in the middle leaves higher members alone",
			at:   3,
			want: types.ShiftSet{{ID: "c", From: 3, To: 4}},
		},
		{
			name: "append shifts nothing",
			at:   4,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InsertShifts(abc(), tt.at)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemoveShifts(t *testing.T) {
	got := RemoveShifts(abc(), 2)
	assert.Equal(t, types.ShiftSet{{ID: "c", From: 3, To: 2}}, got)

	assert.Empty(t, RemoveShifts(abc(), 3))
}

func TestMoveShifts(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		from, to int
		want     types.ShiftSet
	}{
		{
			name: "move last to top",
			id:   "c", from: 3, to: 1,
			want: types.ShiftSet{{ID: "a", From: 1, To: 2}, {ID: "b", From: 2, To: 3}, {ID: "c", From: 3, To: 1}},
		},
		{
			name: "move first to bottom",
			id:   "a", from: 1, to: 3,
			want: types.ShiftSet{{ID: "a", From: 1, To: 3}, {ID: "b", From: 2, To: 1}, {ID: "c", From: 3, To: 2}},
		},
		{
			name: "swap neighbours",
			id:   "b", from: 2, to: 3,
			want: types.ShiftSet{{ID: "b", From: 2, To: 3}, {ID: "c", From: 3, To: 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MoveShifts(abc(), tt.id, tt.from, tt.to))
		})
	}
}

func TestMoveShiftsToSamePositionIsEmpty(t *testing.T) {
	assert.Empty(t, MoveShifts(abc(), "b", 2, 2))
}

func TestLeaveShifts(t *testing.T) {
	got := LeaveShifts(abc(), "a", 1)
	assert.Equal(t, types.ShiftSet{
		{ID: "a", From: 1, To: ParkingPosition},
		{ID: "b", From: 2, To: 1},
		{ID: "c", From: 3, To: 2},
	}, got)
}

func TestRenumber(t *testing.T) {
	members := []types.Member{
		{ID: "z", Position: 0},
		{ID: "b", Position: 4},
		{ID: "a", Position: 4},
		{ID: "c", Position: 9},
	}
	got := Renumber(members)
	assert.Equal(t, types.ShiftSet{
		{ID: "z", From: 0, To: 1},
		{ID: "a", From: 4, To: 2},
		{ID: "b", From: 4, To: 3},
		{ID: "c", From: 9, To: 4},
	}, got)

	assert.Empty(t, Renumber(abc()), "contiguous scope needs no writes")
}
