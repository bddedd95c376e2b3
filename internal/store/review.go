package store

import (
	"context"
	"database/sql"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/google/uuid"
)

// ReviewStore defines the interface for review persistence.
type ReviewStore interface {
	// Create saves a new review.
	Create(ctx context.Context, r *domain.Review) error

	// ListForUser returns reviews of userID with reviewer summaries, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error)

	// RatingsFor returns every rating userID has received.
	RatingsFor(ctx context.Context, userID uuid.UUID) ([]int, error)

	// WithTx returns a new ReviewStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewStore
}
