package types

import "errors"

// Backend attaches to a storage engine and exposes one Table and one
// RecordStore per standard list.
type Backend interface {
	// GetTable returns the Table for the given list name.
	// Returns ErrTableNotFound if the name is not a standard list.
	GetTable(name string) (Table, error)

	// Store returns the RecordStore for the given list name.
	Store(name string) (RecordStore, error)

	// Attach connects the backend to the storage described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error
}

// Backend lifecycle errors.
var (
	ErrBackendDetached = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrTableNotFound   = errors.New("table not found")
)
