package position

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/ranks/pkg/types"
)

// ParkingPosition is the slot a record occupies while it is out of the 1..N
// range during an operation. Further parking slots count down from it.
const ParkingPosition = 0

// Mode selects how writes are ordered.
type Mode int

const (
	// Ordered never writes to a slot another row still holds. Required
	// when the store checks uniqueness on every row write.
	Ordered Mode = iota
	// Unordered applies writes in set order. Only valid inside one
	// transaction on a store that checks uniqueness at commit.
	Unordered
)

func (m Mode) String() string {
	if m == Unordered {
		return "unordered"
	}
	return "ordered"
}

// Write is one position update in application order. Park marks a write
// that moves a record to a parking slot to break a cycle; a later write in
// the same plan moves it to its final position.
type Write struct {
	ID   string
	From int
	To   int
	Park bool
}

// Sequence orders the writes of set for mode.
//
// In Ordered mode the sequencer tracks which slots are held and only emits a
// write whose target is free. Among free writes it prefers decreasing moves
// by ascending target, then increasing moves by descending target, which
// drains insert and remove sets starting at the gap. A move forms a cycle
// (the moved record holds the slot at the far end of the chain it must
// join), so when nothing is free the write with the largest displacement is
// parked first.
func Sequence(set types.ShiftSet, mode Mode) []Write {
	if mode == Unordered {
		set = normalize(slices.Clone(set))
		writes := make([]Write, 0, len(set))
		for _, s := range set {
			writes = append(writes, Write{ID: s.ID, From: s.From, To: s.To})
		}
		return writes
	}
	return SequenceAbove(set, ParkingPosition+1)
}

// SequenceAbove is the Ordered sequence for a scope whose lowest slot held
// outside set is floor. Parking slots start below floor and below every
// slot the set reads or writes.
func SequenceAbove(set types.ShiftSet, floor int) []Write {
	pending := normalize(slices.Clone(set))
	slices.SortStableFunc(pending, preferred)

	held := make(map[int]int, len(pending))
	nextPark := min(ParkingPosition, floor-1)
	for _, s := range pending {
		held[s.From]++
		nextPark = min(nextPark, s.From-1, s.To-1)
	}

	writes := make([]Write, 0, len(pending)+1)
	done := make([]bool, len(pending))
	remaining := len(pending)
	for remaining > 0 {
		i := firstFree(pending, done, held)
		if i < 0 {
			i = parkCandidate(pending, done)
			s := &pending[i]
			writes = append(writes, Write{ID: s.ID, From: s.From, To: nextPark, Park: true})
			held[s.From]--
			held[nextPark]++
			s.From = nextPark
			nextPark--
			continue
		}
		s := pending[i]
		writes = append(writes, Write{ID: s.ID, From: s.From, To: s.To})
		held[s.From]--
		held[s.To]++
		done[i] = true
		remaining--
	}
	return writes
}

// preferred orders decreasing moves by ascending target before increasing
// moves by descending target.
func preferred(a, b types.Shift) int {
	ad, bd := a.Delta() < 0, b.Delta() < 0
	switch {
	case ad && !bd:
		return -1
	case !ad && bd:
		return 1
	case ad:
		if c := cmp.Compare(a.To, b.To); c != 0 {
			return c
		}
	default:
		if c := cmp.Compare(b.To, a.To); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}

func firstFree(pending []types.Shift, done []bool, held map[int]int) int {
	for i, s := range pending {
		if !done[i] && held[s.To] == 0 {
			return i
		}
	}
	return -1
}

// parkCandidate picks the pending write with the largest displacement, the
// lower current position winning ties.
func parkCandidate(pending []types.Shift, done []bool) int {
	best := -1
	for i, s := range pending {
		if done[i] {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := pending[best]
		d, bd := abs(s.Delta()), abs(b.Delta())
		if d > bd || (d == bd && (s.From < b.From || (s.From == b.From && s.ID < b.ID))) {
			best = i
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// FormatPlan renders writes one per line for logs and golden files.
func FormatPlan(writes []Write) string {
	var b strings.Builder
	for _, w := range writes {
		fmt.Fprintf(&b, "%s %d -> %d", w.ID, w.From, w.To)
		if w.Park {
			b.WriteString(" park")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
