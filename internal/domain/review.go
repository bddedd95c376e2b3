package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Review validation errors
var (
	ErrRatingRange = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	ErrSelfReview  = fmt.Errorf("%w: users cannot review themselves", ErrValidation)
)

// Review is one user's rating of another for a gig.
type Review struct {
	ID             uuid.UUID       `json:"id"`
	ReviewerID     uuid.UUID       `json:"reviewer_id"`
	ReviewedUserID uuid.UUID       `json:"reviewed_user_id"`
	GigID          uuid.UUID       `json:"gig_id"`
	Rating         int             `json:"rating"`
	Comment        string          `json:"comment,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Reviewer       *ProfileSummary `json:"profiles,omitempty"`
}

// NewReview creates a review after checking the rating range.
func NewReview(reviewerID, reviewedUserID, gigID uuid.UUID, rating int, comment string) (*Review, error) {
	if reviewerID == uuid.Nil || reviewedUserID == uuid.Nil || gigID == uuid.Nil {
		return nil, ErrInvalidID
	}
	if reviewerID == reviewedUserID {
		return nil, ErrSelfReview
	}
	if rating < 1 || rating > 5 {
		return nil, ErrRatingRange
	}
	return &Review{
		ID:             uuid.New(),
		ReviewerID:     reviewerID,
		ReviewedUserID: reviewedUserID,
		GigID:          gigID,
		Rating:         rating,
		Comment:        comment,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// AverageRating is the arithmetic mean of ratings rounded to one decimal.
// Rounding is of the exact binary mean with ties to even, so 2.25 gives 2.2.
// An empty slice averages to 0.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(mean, 'f', 1, 64), 64)
	return rounded
}
