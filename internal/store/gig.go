package store

import (
	"context"
	"database/sql"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/google/uuid"
)

// DefaultListLimit and MaxListLimit bound every paginated listing.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// GigFilter narrows a gig listing. Zero values mean "any".
type GigFilter struct {
	Category string
	// Categories matches gigs whose category is any of the given values.
	Categories []string
	// Location is a case-insensitive substring match.
	Location string
	IsUrgent *bool
	Status   domain.GigStatus
	// UrgentFirst orders by is_urgent desc before created_at desc.
	UrgentFirst bool
	Limit       int
	Offset      int
}

// NormalizeLimit clamps limit into [1, MaxListLimit], defaulting to DefaultListLimit.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// GigStore defines the interface for gig data persistence.
type GigStore interface {
	// Create saves a new gig.
	Create(ctx context.Context, g *domain.Gig) error

	// GetByID returns the gig with its creator summary embedded.
	// Returns ErrGigNotFound if the gig does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Gig, error)

	// List returns gigs matching f, newest first, with creator summaries.
	List(ctx context.Context, f GigFilter) ([]*domain.Gig, error)

	// ListByCreator returns all gigs posted by userID, newest first.
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Gig, error)

	// CountOpen counts gigs with status open.
	CountOpen(ctx context.Context) (int, error)

	// IncrementApplications adds one to applications_count.
	// Returns ErrGigNotFound if the gig does not exist.
	IncrementApplications(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new GigStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) GigStore
}
