package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrMissingAPIKey is returned when the configuration has no Gemini key.
	ErrMissingAPIKey = errors.New("gemini API key cannot be empty")
)
