package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/careerplus/careerplus-api/internal/api/shared"
	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/service"
	"github.com/careerplus/careerplus-api/internal/store"
)

// NotFreelancerMessage is shown by the match endpoint to client profiles.
const NotFreelancerMessage = "Register as freelancer to see matches"

// GigHandler serves gigs, applications, and matching.
type GigHandler struct {
	gigs   service.GigService
	logger *slog.Logger
}

// NewGigHandler creates a GigHandler.
func NewGigHandler(gigs service.GigService, logger *slog.Logger) *GigHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GigHandler{
		gigs:   gigs,
		logger: logger.With(slog.String("component", "gig_handler")),
	}
}

// CreateGig handles POST /api/gigs.
func (h *GigHandler) CreateGig(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req CreateGigRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	gig, err := h.gigs.Create(r.Context(), userID, req.draft())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create gig")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("gig created",
		slog.String("gig_id", gig.ID.String()),
		slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, GigResponse{Success: true, Gig: gig})
}

// ListGigs handles GET /api/gigs.
func (h *GigHandler) ListGigs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
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
	urgent, err := queryBool(r, "is_urgent")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid is_urgent")
		return
	}

	gigs, err := h.gigs.List(r.Context(), store.GigFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Location: strings.TrimSpace(q.Get("location")),
		IsUrgent: urgent,
		Status:   domain.GigStatus(strings.TrimSpace(q.Get("status"))),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list gigs")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GigsResponse{Success: true, Gigs: gigs, Count: len(gigs)})
}

// GetGig handles GET /api/gigs/{id}.
func (h *GigHandler) GetGig(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	gig, err := h.gigs.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GigResponse{Success: true, Gig: gig})
}

// Apply handles POST /api/gigs/{id}/apply. The body is optional.
func (h *GigHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, gigID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	var req ApplyRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	app, err := h.gigs.Apply(r.Context(), gigID, userID, req.CoverLetter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to apply")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ApplicationResponse{Success: true, Application: app})
}

// ListApplications handles GET /api/gigs/{id}/applications.
func (h *GigHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	userID, gigID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	apps, err := h.gigs.ListApplications(r.Context(), userID, gigID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list applications")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ApplicationsResponse{Success: true, Applications: apps})
}

// AcceptApplication handles PUT /api/applications/{id}/accept.
func (h *GigHandler) AcceptApplication(w http.ResponseWriter, r *http.Request) {
	userID, appID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.gigs.AcceptApplication(r.Context(), userID, appID); err != nil {
		HandleAPIError(w, r, err, "Failed to accept application")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// MyGigs handles GET /api/my-gigs.
func (h *GigHandler) MyGigs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gigs, err := h.gigs.MyGigs(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list gigs")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GigsResponse{Success: true, Gigs: gigs})
}

// MyApplications handles GET /api/my-applications.
func (h *GigHandler) MyApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	apps, err := h.gigs.MyApplications(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list applications")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ApplicationsResponse{Success: true, Applications: apps})
}

// MatchGigs handles GET /api/match/gigs. Client profiles get an empty list
// and a hint rather than an error.
func (h *GigHandler) MatchGigs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	gigs, err := h.gigs.MatchGigs(r.Context(), userID)
	if errors.Is(err, service.ErrNotFreelancer) {
		shared.RespondWithJSON(w, r, http.StatusOK, GigsResponse{
			Success: true,
			Gigs:    []*domain.Gig{},
			Message: NotFreelancerMessage,
		})
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to match gigs")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, GigsResponse{Success: true, Gigs: gigs})
}

// MatchFreelancers handles GET /api/match/freelancers/{gig_id}.
func (h *GigHandler) MatchFreelancers(w http.ResponseWriter, r *http.Request) {
	userID, gigID, ok := handleUserIDAndPathUUID(w, r, "gig_id")
	if !ok {
		return
	}
	list, err := h.gigs.MatchFreelancers(r.Context(), userID, gigID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to match freelancers")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FreelancersResponse{Success: true, Freelancers: list, Count: len(list)})
}
