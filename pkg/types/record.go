package types

// Record is an orderable row. Position is 1-based and unique within the
// record's scope; ParentID holds the scoping column value for scoped lists
// and is nil for rows without a parent.
type Record struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parent_id,omitempty"`
	Position int     `json:"position"`
	Name     string  `json:"name"`
	Visible  bool    `json:"visible"`
}

// ScopeKey identifies the partition a record's position is unique within.
// The zero value is the null key. Two keys are equal when both are null or
// both are valid with the same value, so ScopeKey is safe to compare with ==.
type ScopeKey struct {
	Value string
	Valid bool
}

// NullScope is the key shared by every record of an unscoped list.
var NullScope = ScopeKey{}

// ScopeOf builds a key from a nullable scoping column value.
func ScopeOf(parentID *string) ScopeKey {
	if parentID == nil {
		return NullScope
	}
	return ScopeKey{Value: *parentID, Valid: true}
}

// Ptr returns the nullable column value for the key.
func (k ScopeKey) Ptr() *string {
	if !k.Valid {
		return nil
	}
	v := k.Value
	return &v
}

func (k ScopeKey) String() string {
	if !k.Valid {
		return "<null>"
	}
	return k.Value
}

// Member is an (id, position) pair returned by range reads.
type Member struct {
	ID       string
	Position int
}

// Shift moves one record from one position to another within a scope.
type Shift struct {
	ID   string
	From int
	To   int
}

// Delta is the signed displacement of the shift.
func (s Shift) Delta() int {
	return s.To - s.From
}

// ShiftSet is the full list of updates that restores contiguity after one
// insert, move or remove.
type ShiftSet []Shift
