package types

import "context"

// Capabilities describes what a RecordStore guarantees.
type Capabilities struct {
	// Transactions is true when WithinTx commits or rolls back atomically.
	Transactions bool

	// DeferredUniqueness is true when the (scope, position) uniqueness check
	// runs at commit rather than on each row write, so write order inside a
	// transaction is irrelevant.
	DeferredUniqueness bool
}

// RecordStore is the persistence boundary of the positioning engine. All
// reads are scoped to one list; range reads return members ordered by
// position ascending.
type RecordStore interface {
	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Count returns the number of records in scope.
	Count(ctx context.Context, scope ScopeKey) (int, error)

	// MembersAtOrAfter returns members of scope with position >= position.
	MembersAtOrAfter(ctx context.Context, scope ScopeKey, position int) ([]Member, error)

	// MembersInRange returns members of scope with low <= position <= high.
	MembersInRange(ctx context.Context, scope ScopeKey, low, high int) ([]Member, error)

	// UpdatePosition writes a new position. Returns ErrConflict when the
	// write violates an eagerly checked unique index, ErrNotFound when the
	// record is gone.
	UpdatePosition(ctx context.Context, id string, position int) error

	// UpdateScope moves a record to another scope at position.
	UpdateScope(ctx context.Context, id string, scope ScopeKey, position int) error

	// Create inserts rec and returns its generated ID.
	Create(ctx context.Context, rec Record) (string, error)

	// Destroy deletes the record or returns ErrNotFound.
	Destroy(ctx context.Context, id string) error

	// Capabilities reports transaction and uniqueness enforcement support.
	Capabilities() Capabilities

	// WithinTx runs fn against a transaction-scoped store. The transaction
	// commits when fn returns nil and rolls back on error or panic. Stores
	// without transactions call fn with themselves.
	WithinTx(ctx context.Context, fn func(tx RecordStore) error) error
}

// Direction selects which siblings a SiblingReader returns.
type Direction int

const (
	// Higher selects siblings with a lower position number, nearest first.
	Higher Direction = iota
	// Lower selects siblings with a higher position number, nearest first.
	Lower
)

// SiblingOptions filters sibling reads.
type SiblingOptions struct {
	// VisibleOnly keeps visible siblings whose parent row is also visible.
	// Stores that are not a SiblingReader can only check the sibling itself.
	VisibleOnly bool
	// Limit caps the result; 0 means no limit.
	Limit int
}

// SiblingReader is implemented by stores that can read siblings of a record
// with filters joined against the parent table.
type SiblingReader interface {
	Siblings(ctx context.Context, id string, dir Direction, opts SiblingOptions) ([]Record, error)
}
