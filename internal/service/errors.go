package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrNotFreelancer is returned by freelancer-only operations for client profiles.
	ErrNotFreelancer = errors.New("profile is not registered as a freelancer")

	// ErrNothingToUpdate is returned for a profile update with no fields set.
	ErrNothingToUpdate = errors.New("no fields to update")
)
