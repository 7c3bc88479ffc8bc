package position

import (
	"cmp"
	"slices"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

// InsertShifts opens position at: every member at or after it moves down one.
func InsertShifts(members []types.Member, at int) types.ShiftSet {
	var set types.ShiftSet
	for _, m := range members {
		if m.Position >= at {
			set = append(set, types.Shift{ID: m.ID, From: m.Position, To: m.Position + 1})
		}
	}
	return normalize(set)
}

// RemoveShifts closes position at: every member after it moves up one.
// The member leaving the slot is not part of the set.
func RemoveShifts(members []types.Member, at int) types.ShiftSet {
	var set types.ShiftSet
	for _, m := range members {
		if m.Position > at {
			set = append(set, types.Shift{ID: m.ID, From: m.Position, To: m.Position - 1})
		}
	}
	return normalize(set)
}

// MoveShifts moves id from one position to another within a scope. Members
// between the two positions slide one step toward the vacated slot. Moving to
// the current position yields an empty set.
func MoveShifts(members []types.Member, id string, from, to int) types.ShiftSet {
	if from == to {
		return nil
	}
	set := types.ShiftSet{{ID: id, From: from, To: to}}
	for _, m := range members {
		if m.ID == id {
			continue
		}
		switch {
		case to < from && m.Position >= to && m.Position < from:
			set = append(set, types.Shift{ID: m.ID, From: m.Position, To: m.Position + 1})
		case to > from && m.Position > from && m.Position <= to:
			set = append(set, types.Shift{ID: m.ID, From: m.Position, To: m.Position - 1})
		}
	}
	return normalize(set)
}

// LeaveShifts takes id out of its scope at position at: the record is sent
// to the parking slot and the members after it close the gap.
func LeaveShifts(members []types.Member, id string, at int) types.ShiftSet {
	set := append(types.ShiftSet{{ID: id, From: at, To: ParkingPosition}}, RemoveShifts(members, at)...)
	return normalize(set)
}

// Renumber assigns 1..N to members in their current order. Members sharing
// a position keep ID order, so the lower current position (then the lower
// ID) always wins the lower target.
func Renumber(members []types.Member) types.ShiftSet {
	sorted := slices.Clone(members)
	slices.SortStableFunc(sorted, compareMembers)
	var set types.ShiftSet
	for i, m := range sorted {
		set = append(set, types.Shift{ID: m.ID, From: m.Position, To: i + 1})
	}
	return normalize(set)
}

func compareMembers(a, b types.Member) int {
	if c := cmp.Compare(a.Position, b.Position); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// normalize drops no-op shifts and orders the rest by current position, then
// ID, so plans are deterministic.
func normalize(set types.ShiftSet) types.ShiftSet {
	out := set[:0:0]
	for _, s := range set {
		if s.From != s.To {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b types.Shift) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
