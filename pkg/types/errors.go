package types

import "errors"

// Positioning errors.
var (
	// ErrInvalidPosition is returned for out-of-range positions in strict
	// mode. Without strict mode requests are clamped instead.
	ErrInvalidPosition = errors.New("invalid position request")

	// ErrConflict is returned by a store when a write violates the
	// (scope, position) uniqueness constraint.
	ErrConflict = errors.New("position uniqueness conflict")

	// ErrConcurrentModification wraps ErrConflict when a sequenced write
	// collides anyway, which means another writer changed the scope.
	ErrConcurrentModification = errors.New("scope modified concurrently")

	// ErrScopeMismatch is returned when a record is moved relative to a
	// sibling that lives in another scope.
	ErrScopeMismatch = errors.New("records are in different scopes")

	// ErrNotContiguous is returned by Check when a scope's positions are not
	// exactly 1..N.
	ErrNotContiguous = errors.New("positions are not contiguous")
)
