package api

import (
	"net/http"
	"testing"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/mocks"
	"github.com/careerplus/careerplus-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture(t *testing.T) (*ProfileHandler, *mocks.MockProfileStore, *domain.Profile) {
	t.Helper()
	p, err := domain.NewProfile("abena@example.com", "Abena")
	require.NoError(t, err)
	p.Phone = "+233 24 111 2222"
	profiles := mocks.NewMockProfileStore(p)
	return NewProfileHandler(service.NewProfileService(profiles, testLogger()), testLogger()), profiles, p
}

func TestProfileHandler_UpdateProfile(t *testing.T) {
	h, profiles, p := newProfileFixture(t)

	t.Run("partial update", func(t *testing.T) {
		rec := serve(t, h.UpdateProfile, testRequest{
			method: http.MethodPut,
			path:   "/api/profile",
			body:   map[string]interface{}{"bio": "Baker", "show_phone": true},
			userID: p.ID,
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		stored := profiles.Profiles[p.ID]
		assert.Equal(t, "Baker", stored.Bio)
		assert.True(t, stored.ShowPhone)
		assert.Equal(t, "Abena", stored.Name)
	})

	t.Run("empty update", func(t *testing.T) {
		rec := serve(t, h.UpdateProfile, testRequest{method: http.MethodPut, path: "/api/profile", body: map[string]string{}, userID: p.ID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No fields to update", errorDetail(t, rec))
	})

	t.Run("blank name", func(t *testing.T) {
		rec := serve(t, h.UpdateProfile, testRequest{method: http.MethodPut, path: "/api/profile", body: map[string]string{"name": " "}, userID: p.ID})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Name cannot be empty", errorDetail(t, rec))
	})
}

func TestProfileHandler_GetProfileHidesContact(t *testing.T) {
	h, _, p := newProfileFixture(t)

	rec := serve(t, h.GetProfile, testRequest{method: http.MethodGet, pattern: "/api/profile/{id}", path: "/api/profile/" + p.ID.String()})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[ProfileResponse](t, rec)
	assert.Equal(t, "Abena", resp.Profile.Name)
	assert.Empty(t, resp.Profile.Phone)
	assert.Empty(t, resp.Profile.Email)

	missing := serve(t, h.GetProfile, testRequest{method: http.MethodGet, pattern: "/api/profile/{id}", path: "/api/profile/" + uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestProfileHandler_RegisterFreelancer(t *testing.T) {
	h, profiles, p := newProfileFixture(t)
	rate := 15.0

	bad := serve(t, h.RegisterFreelancer, testRequest{
		method: http.MethodPost,
		path:   "/api/freelancer/register",
		body:   FreelancerRegisterRequest{Categories: []string{"Knitting"}},
		userID: p.ID,
	})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.False(t, profiles.Profiles[p.ID].IsFreelancer)

	empty := serve(t, h.RegisterFreelancer, testRequest{
		method: http.MethodPost,
		path:   "/api/freelancer/register",
		body:   FreelancerRegisterRequest{Categories: []string{}},
		userID: p.ID,
	})
	assert.Equal(t, http.StatusBadRequest, empty.Code)

	rec := serve(t, h.RegisterFreelancer, testRequest{
		method: http.MethodPost,
		path:   "/api/freelancer/register",
		body: FreelancerRegisterRequest{
			Categories:   []string{"Tutoring"},
			Availability: "weekends",
			Location:     "Tamale",
			HourlyRate:   &rate,
		},
		userID: p.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored := profiles.Profiles[p.ID]
	assert.True(t, stored.IsFreelancer)
	assert.Equal(t, []string{"Tutoring"}, stored.FreelancerCategories)
	assert.Equal(t, "Tamale", stored.Location)
}

func TestProfileHandler_ListFreelancers(t *testing.T) {
	h, profiles, p := newProfileFixture(t)
	domain.FreelancerRegistration{Categories: []string{"Photography"}}.Apply(profiles.Profiles[p.ID])

	rec := serve(t, h.ListFreelancers, testRequest{method: http.MethodGet, pattern: "/api/freelancers", path: "/api/freelancers?category=Photography"})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[FreelancersResponse](t, rec)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Freelancers, 1)
	assert.Empty(t, resp.Freelancers[0].Phone)

	bad := serve(t, h.ListFreelancers, testRequest{method: http.MethodGet, pattern: "/api/freelancers", path: "/api/freelancers?offset=-3"})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}
