package api

import (
	"log/slog"
	"net/http"

	"github.com/careerplus/careerplus-api/internal/api/shared"
	"github.com/careerplus/careerplus-api/internal/service"
)

// ReviewHandler serves reviews.
type ReviewHandler struct {
	reviews service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// Create handles POST /api/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req CreateReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	review, err := h.reviews.Create(r.Context(), userID, service.ReviewDraft{
		ReviewedUserID: req.ReviewedUserID,
		GigID:          req.GigID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create review")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ReviewResponse{Success: true, Review: review})
}

// ListForUser handles GET /api/reviews/{user_id}.
func (h *ReviewHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathUUID(w, r, "user_id")
	if !ok {
		return
	}
	reviews, err := h.reviews.ListForUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load reviews")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ReviewsResponse{Success: true, Reviews: reviews})
}
