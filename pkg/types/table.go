package types

import (
	"context"
	"errors"
)

// Filter narrows Table.Fetch. Recognized keys are "parent_id" (string or
// *string; nil or "" select the null scope), "visible" (bool), "limit" and
// "offset" (int).
type Filter map[string]any

// Table provides uniform CRUD operations over one orderable list. Set and
// Delete run the positioning hooks, so callers never write positions by hand.
type Table interface {
	// Get retrieves the record with the given ID.
	// Returns ErrNotFound if no record exists with that ID.
	Get(ctx context.Context, id string) (Record, error)

	// Set creates or updates a record. When id is empty a new UUID v7 is
	// generated and the record is placed at rec.Position (0 appends).
	// Updating Position or ParentID repositions the record and its siblings.
	// Returns the actual ID used.
	Set(ctx context.Context, id string, rec *Record) (string, error)

	// Delete removes the record and closes the gap it leaves.
	// Returns ErrNotFound if no record exists with that ID.
	Delete(ctx context.Context, id string) error

	// Fetch returns the records matching filter ordered by scope and position.
	Fetch(ctx context.Context, filter Filter) ([]Record, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidID     = errors.New("invalid record ID")
	ErrInvalidData   = errors.New("invalid record data")
	ErrInvalidFilter = errors.New("invalid filter value type")
)
