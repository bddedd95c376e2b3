package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials covers an unknown email, a wrong password, and a
	// profile that has no password at all.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrIdentityMismatch means a federated ID token did not vouch for the
	// email the client claimed.
	ErrIdentityMismatch = errors.New("identity token does not match request")

	// ErrFederationDisabled is returned when no federated audience is configured.
	ErrFederationDisabled = errors.New("federated sign-in is not configured")
)
