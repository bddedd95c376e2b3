// Package domain contains the marketplace entities (profiles, gigs,
// applications, messages, reviews), their validation rules, and the fixed
// category taxonomy. It has no knowledge of storage or transport.
package domain
