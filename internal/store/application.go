package store

import (
	"context"
	"database/sql"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/google/uuid"
)

// ApplicationStore defines the interface for gig application persistence.
type ApplicationStore interface {
	// Create saves a new application.
	// Returns ErrAlreadyApplied if the applicant already applied to the gig.
	Create(ctx context.Context, a *domain.Application) error

	// Exists reports whether applicantID has applied to gigID.
	Exists(ctx context.Context, gigID, applicantID uuid.UUID) (bool, error)

	// GetByID returns ErrApplicationNotFound if the application does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)

	// ListByGig returns the applications to a gig with applicant summaries.
	ListByGig(ctx context.Context, gigID uuid.UUID) ([]*domain.Application, error)

	// ListByApplicant returns the applicant's applications with the gig embedded, newest first.
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]*domain.Application, error)

	// UpdateStatus returns ErrApplicationNotFound if the application does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) error

	// WithTx returns a new ApplicationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ApplicationStore
}
