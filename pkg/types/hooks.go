package types

import "context"

// Hooks are the lifecycle points at which a persistence layer hands control
// to the positioning engine. Each hook receives the store the final write
// will go through, so shifts land in the same transaction.
type Hooks interface {
	// OnCreate runs before rec is inserted. It assigns rec.Position and
	// opens a slot for it.
	OnCreate(ctx context.Context, store RecordStore, rec *Record) error

	// OnReposition runs before an update that changes the position or the
	// scope of a record. It may clamp next.Position and leaves that slot
	// free for the final write.
	OnReposition(ctx context.Context, store RecordStore, prev Record, next *Record) error

	// OnDestroy runs before rec is deleted and closes the gap it leaves.
	OnDestroy(ctx context.Context, store RecordStore, rec Record) error
}
