package api

import (
	"context"
	"net/http"
	"time"

	"github.com/careerplus/careerplus-api/internal/api/shared"
	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/service"
)

// StatsReporter reports marketplace counts. It never fails.
type StatsReporter interface {
	Stats(ctx context.Context) service.Stats
}

// SystemHandler serves the unauthenticated informational endpoints.
type SystemHandler struct {
	stats StatsReporter
	now   func() time.Time
}

// NewSystemHandler creates a SystemHandler.
func NewSystemHandler(stats StatsReporter) *SystemHandler {
	return &SystemHandler{stats: stats, now: time.Now}
}

// Root handles GET /api/.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Career Plus API",
		"status":  "healthy",
	})
}

// Health handles GET /api/health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
	})
}

// Categories handles GET /api/categories.
func (h *SystemHandler) Categories(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, struct {
		Success    bool     `json:"success"`
		Categories []string `json:"categories"`
	}{Success: true, Categories: domain.Categories})
}

// Stats handles GET /api/stats. Store failures surface as zero counts.
func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, struct {
		Success bool          `json:"success"`
		Stats   service.Stats `json:"stats"`
	}{Success: true, Stats: h.stats.Stats(r.Context())})
}
