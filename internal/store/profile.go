package store

import (
	"context"
	"database/sql"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/google/uuid"
)

// FreelancerFilter narrows a freelancer listing. Zero values mean "any".
type FreelancerFilter struct {
	// Category must be contained in the freelancer's categories.
	Category string
	// Location is a case-insensitive substring match.
	Location string
	Limit    int
	Offset   int
}

// ProfileStore defines the interface for profile data persistence.
type ProfileStore interface {
	// Create saves a new profile.
	// Returns ErrEmailExists if the email (case-insensitive) is already taken.
	Create(ctx context.Context, p *domain.Profile) error

	// GetByID returns ErrProfileNotFound if the profile does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// GetByEmail matches case-insensitively.
	// Returns ErrProfileNotFound if no profile has the email.
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)

	// GetByFirebaseUID returns ErrProfileNotFound if no profile is linked to uid.
	GetByFirebaseUID(ctx context.Context, uid string) (*domain.Profile, error)

	// GetByTelegramChatID returns ErrProfileNotFound if no profile is linked to the chat.
	GetByTelegramChatID(ctx context.Context, chatID int64) (*domain.Profile, error)

	// Update writes every mutable column of p.
	// Returns ErrProfileNotFound if the profile does not exist.
	Update(ctx context.Context, p *domain.Profile) error

	// UpdateRating sets the aggregate rating columns.
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, totalReviews int) error

	// ListFreelancers returns freelancer profiles ordered by rating, best first.
	ListFreelancers(ctx context.Context, f FreelancerFilter) ([]*domain.Profile, error)

	// CountFreelancers counts profiles with is_freelancer set.
	CountFreelancers(ctx context.Context) (int, error)

	// WithTx returns a new ProfileStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProfileStore
}
