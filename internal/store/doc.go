// Package store defines the persistence interfaces for the marketplace
// entities, the shared error vocabulary of every implementation, and the
// transaction helpers services use to group writes.
package store
