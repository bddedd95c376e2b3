package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStats service.Stats

func (s fixedStats) Stats(context.Context) service.Stats { return service.Stats(s) }

func TestSystemHandler(t *testing.T) {
	h := NewSystemHandler(fixedStats{OpenGigs: 12, Freelancers: 3})
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("GMT+1", 3600)) }

	t.Run("root", func(t *testing.T) {
		rec := serve(t, h.Root, testRequest{method: http.MethodGet, path: "/api/"})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[map[string]string](t, rec)
		assert.Equal(t, "Career Plus API", resp["message"])
		assert.Equal(t, "healthy", resp["status"])
	})

	t.Run("health", func(t *testing.T) {
		rec := serve(t, h.Health, testRequest{method: http.MethodGet, path: "/api/health"})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[map[string]string](t, rec)
		assert.Equal(t, "healthy", resp["status"])
		assert.Equal(t, "2026-03-01T11:00:00Z", resp["timestamp"])
	})

	t.Run("categories", func(t *testing.T) {
		rec := serve(t, h.Categories, testRequest{method: http.MethodGet, path: "/api/categories"})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[struct {
			Success    bool     `json:"success"`
			Categories []string `json:"categories"`
		}](t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, domain.Categories, resp.Categories)
	})

	t.Run("stats", func(t *testing.T) {
		rec := serve(t, h.Stats, testRequest{method: http.MethodGet, path: "/api/stats"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"stats":{"open_gigs":12,"freelancers":3}}`, rec.Body.String())
	})
}
