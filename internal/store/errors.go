package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness rule.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when the database rejects a row because of a
	// check, foreign key, or not-null constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	ErrProfileNotFound     = fmt.Errorf("%w: profile", ErrNotFound)
	ErrGigNotFound         = fmt.Errorf("%w: gig", ErrNotFound)
	ErrApplicationNotFound = fmt.Errorf("%w: application", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a profile with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrAlreadyApplied indicates a second application by the same applicant to a gig.
	ErrAlreadyApplied = fmt.Errorf("%w: application", ErrDuplicate)
)
