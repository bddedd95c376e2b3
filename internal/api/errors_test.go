package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/careerplus/careerplus-api/internal/api/shared"
	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/service"
	"github.com/careerplus/careerplus-api/internal/service/auth"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"wrapped expired token", fmt.Errorf("validate: %w", auth.ErrExpiredToken), http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"identity mismatch", auth.ErrIdentityMismatch, http.StatusUnauthorized},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"gig not found", store.ErrGigNotFound, http.StatusNotFound},
		{"wrapped profile not found", fmt.Errorf("lookup: %w", store.ErrProfileNotFound), http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusBadRequest},
		{"already applied", fmt.Errorf("failed to apply: %w", store.ErrAlreadyApplied), http.StatusBadRequest},
		{"domain validation", domain.ErrSelfReview, http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"nothing to update", service.ErrNothingToUpdate, http.StatusBadRequest},
		{"federation disabled", auth.ErrFederationDisabled, http.StatusBadRequest},
		{"unknown error", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"invalid credentials", auth.ErrInvalidCredentials, "Invalid credentials"},
		{"expired token", auth.ErrExpiredToken, "Token expired"},
		{"missing token", auth.ErrMissingToken, "Invalid token"},
		{"federation disabled", auth.ErrFederationDisabled, "Google sign-in is not configured"},
		{"not owned", service.ErrNotOwned, "Not authorized"},
		{"profile not found", store.ErrProfileNotFound, "Profile not found"},
		{"gig not found", fmt.Errorf("get: %w", store.ErrGigNotFound), "Gig not found"},
		{"application not found", store.ErrApplicationNotFound, "Application not found"},
		{"other not found", fmt.Errorf("%w: review", store.ErrNotFound), "Not found"},
		{"email exists", fmt.Errorf("failed to create profile: %w", store.ErrEmailExists), "Email already registered"},
		{"already applied", store.ErrAlreadyApplied, "Already applied"},
		{"nothing to update", service.ErrNothingToUpdate, "No fields to update"},
		{"domain validation", domain.ErrRatingRange, "Rating must be between 1 and 5"},
		{"wrapped validation", fmt.Errorf("create gig: %w", domain.ErrEmptyName), "Name cannot be empty"},
		{"bare validation", domain.ErrValidation, "Validation error"},
		{"invalid id", domain.ErrInvalidID, "Invalid ID"},
		{"internal error", errors.New("pq: password authentication failed for user admin"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Run("names the json field", func(t *testing.T) {
		err := shared.ValidateRequest(&CreateReviewRequest{Rating: 9})
		require.Error(t, err)

		msg := SanitizeValidationError(err)
		assert.Contains(t, msg, "Invalid ")
		assert.NotContains(t, msg, "ReviewedUserID")
	})

	t.Run("rating bounds", func(t *testing.T) {
		req := CreateReviewRequest{Rating: 6}
		req.ReviewedUserID[0] = 1
		req.GigID[0] = 1
		err := shared.ValidateRequest(&req)
		require.Error(t, err)
		assert.Equal(t, "Invalid rating: too large", SanitizeValidationError(err))
	})

	t.Run("budget ordering", func(t *testing.T) {
		err := shared.ValidateRequest(&CreateGigRequest{
			Title: "t", Description: "d", Category: "Delivery", Location: "Accra",
			BudgetMin: 50, BudgetMax: 10,
		})
		require.Error(t, err)
		assert.Equal(t, "Invalid budget_max: must not be below the minimum", SanitizeValidationError(err))
	})

	t.Run("domain validation", func(t *testing.T) {
		assert.Equal(t, "Password cannot be empty", SanitizeValidationError(domain.ErrEmptyPassword))
	})

	t.Run("other errors", func(t *testing.T) {
		assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
	})
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		fallback       string
		expectedStatus int
		expectedDetail string
	}{
		{"mapped error ignores fallback", store.ErrGigNotFound, "Failed to load gig", http.StatusNotFound, "Gig not found"},
		{"internal error uses fallback", errors.New("db down"), "Failed to load gig", http.StatusInternalServerError, "Failed to load gig"},
		{"internal error without fallback", errors.New("db down"), "", http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/gigs/x", nil)

			HandleAPIError(rec, req, tt.err, tt.fallback)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			resp := decodeBody[shared.ErrorResponse](t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedDetail, resp.Detail)
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}
