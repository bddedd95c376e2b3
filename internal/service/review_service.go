package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// ReviewDraft is the caller-supplied part of a review.
type ReviewDraft struct {
	ReviewedUserID uuid.UUID
	GigID          uuid.UUID
	Rating         int
	Comment        string
}

// ReviewService records reviews and keeps profile ratings current.
type ReviewService interface {
	// Create inserts the review and recomputes the subject's rating from all
	// of their reviews within one transaction.
	Create(ctx context.Context, reviewerID uuid.UUID, d ReviewDraft) (*domain.Review, error)

	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error)
}

type reviewServiceImpl struct {
	reviews  store.ReviewStore
	profiles store.ProfileStore
	gigs     store.GigStore
	tx       store.Transactor
	logger   *slog.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(
	reviews store.ReviewStore,
	profiles store.ProfileStore,
	gigs store.GigStore,
	tx store.Transactor,
	logger *slog.Logger,
) ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reviewServiceImpl{
		reviews:  reviews,
		profiles: profiles,
		gigs:     gigs,
		tx:       tx,
		logger:   logger.With("component", "review_service"),
	}
}

// Create implements ReviewService.
func (s *reviewServiceImpl) Create(ctx context.Context, reviewerID uuid.UUID, d ReviewDraft) (*domain.Review, error) {
	review, err := domain.NewReview(reviewerID, d.ReviewedUserID, d.GigID, d.Rating, d.Comment)
	if err != nil {
		return nil, err
	}
	if _, err := s.gigs.GetByID(ctx, d.GigID); err != nil {
		return nil, err
	}

	var rating float64
	var total int
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txReviews := s.reviews.WithTx(tx)
		if err := txReviews.Create(ctx, review); err != nil {
			return err
		}
		ratings, err := txReviews.RatingsFor(ctx, d.ReviewedUserID)
		if err != nil {
			return err
		}
		rating = domain.AverageRating(ratings)
		total = len(ratings)
		return s.profiles.WithTx(tx).UpdateRating(ctx, d.ReviewedUserID, rating, total)
	})
	if err != nil {
		s.logger.Error("failed to record review",
			"error", redact.Error(err),
			"reviewed_user_id", d.ReviewedUserID)
		return nil, fmt.Errorf("failed to record review: %w", err)
	}

	s.logger.Info("review recorded",
		"review_id", review.ID,
		"reviewed_user_id", d.ReviewedUserID,
		"rating", rating,
		"total_reviews", total)
	return review, nil
}

// ListForUser implements ReviewService.
func (s *reviewServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	return s.reviews.ListForUser(ctx, userID)
}
