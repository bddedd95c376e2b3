package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/careerplus/careerplus-api/internal/api/shared"
	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/service"
	"github.com/careerplus/careerplus-api/internal/store"
)

// ProfileHandler serves profile and freelancer endpoints.
type ProfileHandler struct {
	profiles service.ProfileService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles service.ProfileService, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger.With(slog.String("component", "profile_handler")),
	}
}

// UpdateProfile handles PUT /api/profile. Only the fields present in the
// body change.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var upd domain.ProfileUpdate
	if err := shared.DecodeJSON(r, &upd); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	profile, err := h.profiles.Update(r.Context(), userID, upd)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ProfileResponse{Success: true, Profile: profile})
}

// GetProfile handles GET /api/profile/{id}. Contact details are hidden
// unless the owner chose to show them.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	profile, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ProfileResponse{Success: true, Profile: profile.Public()})
}

// RegisterFreelancer handles POST /api/freelancer/register.
func (h *ProfileHandler) RegisterFreelancer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req FreelancerRegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.profiles.RegisterFreelancer(r.Context(), userID, domain.FreelancerRegistration{
		Categories:   req.Categories,
		Availability: req.Availability,
		Location:     req.Location,
		Bio:          req.Bio,
		HourlyRate:   req.HourlyRate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register freelancer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ProfileResponse{Success: true, Profile: profile})
}

// ListFreelancers handles GET /api/freelancers.
func (h *ProfileHandler) ListFreelancers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", store.DefaultListLimit)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid offset")
		return
	}

	q := r.URL.Query()
	list, err := h.profiles.ListFreelancers(r.Context(), store.FreelancerFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Location: strings.TrimSpace(q.Get("location")),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list freelancers")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FreelancersResponse{
		Success:     true,
		Freelancers: list,
		Count:       len(list),
	})
}
