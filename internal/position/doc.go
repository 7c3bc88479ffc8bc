// Package position is the positioning engine. It keeps the position column of
// an orderable list gap-free (1..N per scope) as records are created, moved,
// reparented and destroyed.
//
// The engine never writes positions blindly. Every operation first computes a
// shift set (the records that must move and where to), then the sequencer
// orders those writes so that no write ever targets a slot another row still
// holds. Stores with an eagerly checked unique index on (scope, position)
// therefore never see an intermediate duplicate. Stores that check uniqueness
// at commit may receive the writes unordered inside one transaction.
//
// Cross-process safety comes from the store: every operation runs inside
// RecordStore.WithinTx. Without transactions there is a window between
// reading a scope and writing its shifts in which another writer can
// interleave. A colliding write then surfaces as ErrConcurrentModification and
// the caller reconciles with Engine.Repair.
package position
