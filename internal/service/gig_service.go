package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// MatchLimit caps both matching queries.
const MatchLimit = 20

// GigService manages gigs, applications, and matching.
type GigService interface {
	Create(ctx context.Context, createdBy uuid.UUID, draft domain.GigDraft) (*domain.Gig, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Gig, error)

	// List returns gigs matching f. An empty status means open.
	List(ctx context.Context, f store.GigFilter) ([]*domain.Gig, error)

	// Apply records one application per applicant and bumps the gig's
	// applications_count in the same transaction.
	Apply(ctx context.Context, gigID, applicantID uuid.UUID, coverLetter string) (*domain.Application, error)

	// ListApplications is restricted to the gig owner.
	ListApplications(ctx context.Context, ownerID, gigID uuid.UUID) ([]*domain.Application, error)

	// AcceptApplication is restricted to the owner of the application's gig.
	AcceptApplication(ctx context.Context, ownerID, applicationID uuid.UUID) error

	MyGigs(ctx context.Context, userID uuid.UUID) ([]*domain.Gig, error)
	MyApplications(ctx context.Context, userID uuid.UUID) ([]*domain.Application, error)

	// MatchGigs returns open gigs for a freelancer, urgent first. It returns
	// ErrNotFreelancer for client profiles.
	MatchGigs(ctx context.Context, userID uuid.UUID) ([]*domain.Gig, error)

	// MatchFreelancers ranks freelancers for the owner's gig.
	MatchFreelancers(ctx context.Context, ownerID, gigID uuid.UUID) ([]*domain.Profile, error)
}

type gigServiceImpl struct {
	gigs         store.GigStore
	applications store.ApplicationStore
	profiles     store.ProfileStore
	tx           store.Transactor
	logger       *slog.Logger
}

// NewGigService creates a GigService.
func NewGigService(
	gigs store.GigStore,
	applications store.ApplicationStore,
	profiles store.ProfileStore,
	tx store.Transactor,
	logger *slog.Logger,
) GigService {
	if logger == nil {
		logger = slog.Default()
	}
	return &gigServiceImpl{
		gigs:         gigs,
		applications: applications,
		profiles:     profiles,
		tx:           tx,
		logger:       logger.With("component", "gig_service"),
	}
}

// Create implements GigService.
func (s *gigServiceImpl) Create(ctx context.Context, createdBy uuid.UUID, draft domain.GigDraft) (*domain.Gig, error) {
	gig, err := domain.NewGig(createdBy, draft)
	if err != nil {
		return nil, err
	}
	if err := s.gigs.Create(ctx, gig); err != nil {
		return nil, fmt.Errorf("failed to create gig: %w", err)
	}
	return gig, nil
}

// Get implements GigService.
func (s *gigServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Gig, error) {
	return s.gigs.GetByID(ctx, id)
}

// List implements GigService.
func (s *gigServiceImpl) List(ctx context.Context, f store.GigFilter) ([]*domain.Gig, error) {
	if f.Status == "" {
		f.Status = domain.GigStatusOpen
	}
	if !f.Status.Valid() {
		return nil, domain.ErrInvalidGigStatus
	}
	f.Limit = store.NormalizeLimit(f.Limit)
	return s.gigs.List(ctx, f)
}

// Apply implements GigService.
func (s *gigServiceImpl) Apply(
	ctx context.Context,
	gigID, applicantID uuid.UUID,
	coverLetter string,
) (*domain.Application, error) {
	if _, err := s.gigs.GetByID(ctx, gigID); err != nil {
		return nil, err
	}

	exists, err := s.applications.Exists(ctx, gigID, applicantID)
	if err != nil {
		return nil, fmt.Errorf("failed to check application: %w", err)
	}
	if exists {
		return nil, store.ErrAlreadyApplied
	}

	app, err := domain.NewApplication(gigID, applicantID, coverLetter)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.applications.WithTx(tx).Create(ctx, app); err != nil {
			return err
		}
		return s.gigs.WithTx(tx).IncrementApplications(ctx, gigID)
	})
	if err != nil {
		if !errors.Is(err, store.ErrAlreadyApplied) {
			s.logger.Error("failed to apply to gig",
				"error", redact.Error(err),
				"gig_id", gigID,
				"applicant_id", applicantID)
		}
		return nil, fmt.Errorf("failed to apply: %w", err)
	}

	s.logger.Info("application submitted", "gig_id", gigID, "application_id", app.ID)
	return app, nil
}

func (s *gigServiceImpl) ownedGig(ctx context.Context, ownerID, gigID uuid.UUID) (*domain.Gig, error) {
	gig, err := s.gigs.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if !gig.OwnedBy(ownerID) {
		s.logger.Warn("gig access by non-owner",
			"gig_id", gigID,
			"user_id", ownerID)
		return nil, ErrNotOwned
	}
	return gig, nil
}

// ListApplications implements GigService.
func (s *gigServiceImpl) ListApplications(
	ctx context.Context,
	ownerID, gigID uuid.UUID,
) ([]*domain.Application, error) {
	if _, err := s.ownedGig(ctx, ownerID, gigID); err != nil {
		return nil, err
	}
	return s.applications.ListByGig(ctx, gigID)
}

// AcceptApplication implements GigService.
func (s *gigServiceImpl) AcceptApplication(ctx context.Context, ownerID, applicationID uuid.UUID) error {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if _, err := s.ownedGig(ctx, ownerID, app.GigID); err != nil {
		return err
	}
	if err := s.applications.UpdateStatus(ctx, applicationID, domain.ApplicationStatusAccepted); err != nil {
		return fmt.Errorf("failed to accept application: %w", err)
	}
	s.logger.Info("application accepted", "application_id", applicationID, "gig_id", app.GigID)
	return nil
}

// MyGigs implements GigService.
func (s *gigServiceImpl) MyGigs(ctx context.Context, userID uuid.UUID) ([]*domain.Gig, error) {
	return s.gigs.ListByCreator(ctx, userID)
}

// MyApplications implements GigService.
func (s *gigServiceImpl) MyApplications(ctx context.Context, userID uuid.UUID) ([]*domain.Application, error) {
	return s.applications.ListByApplicant(ctx, userID)
}

// MatchGigs implements GigService.
func (s *gigServiceImpl) MatchGigs(ctx context.Context, userID uuid.UUID) ([]*domain.Gig, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsFreelancer {
		return nil, ErrNotFreelancer
	}
	return s.gigs.List(ctx, store.GigFilter{
		Status:      domain.GigStatusOpen,
		Categories:  profile.FreelancerCategories,
		UrgentFirst: true,
		Limit:       MatchLimit,
	})
}

// MatchFreelancers implements GigService.
func (s *gigServiceImpl) MatchFreelancers(ctx context.Context, ownerID, gigID uuid.UUID) ([]*domain.Profile, error) {
	gig, err := s.ownedGig(ctx, ownerID, gigID)
	if err != nil {
		return nil, err
	}
	list, err := s.profiles.ListFreelancers(ctx, store.FreelancerFilter{
		Category: gig.Category,
		Limit:    MatchLimit,
	})
	if err != nil {
		return nil, err
	}
	public := make([]*domain.Profile, 0, len(list))
	for _, p := range list {
		public = append(public, p.Public())
	}
	return public, nil
}
