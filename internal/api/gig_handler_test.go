package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/mocks"
	"github.com/careerplus/careerplus-api/internal/service"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gigFixture struct {
	handler      *GigHandler
	gigs         *mocks.MockGigStore
	applications *mocks.MockApplicationStore
	profiles     *mocks.MockProfileStore
	saved        map[uuid.UUID]*domain.Gig
}

func newGigFixture(t *testing.T) *gigFixture {
	t.Helper()
	f := &gigFixture{
		applications: &mocks.MockApplicationStore{},
		profiles:     mocks.NewMockProfileStore(),
		saved:        make(map[uuid.UUID]*domain.Gig),
	}
	f.gigs = &mocks.MockGigStore{
		CreateFn: func(_ context.Context, g *domain.Gig) error {
			f.saved[g.ID] = g
			return nil
		},
		GetByIDFn: func(_ context.Context, id uuid.UUID) (*domain.Gig, error) {
			if g, ok := f.saved[id]; ok {
				return g, nil
			}
			return nil, store.ErrGigNotFound
		},
	}
	svc := service.NewGigService(f.gigs, f.applications, f.profiles, &mocks.MockTransactor{}, testLogger())
	f.handler = NewGigHandler(svc, testLogger())
	return f
}

func (f *gigFixture) seedGig(t *testing.T, owner uuid.UUID) *domain.Gig {
	t.Helper()
	g, err := domain.NewGig(owner, domain.GigDraft{
		Title:       "Logo design",
		Description: "Need a logo for a bakery",
		Category:    "Graphic Design",
		Location:    "Accra",
		BudgetMin:   100,
		BudgetMax:   200,
	})
	require.NoError(t, err)
	f.saved[g.ID] = g
	return g
}

func TestGigHandler_CreateGig(t *testing.T) {
	owner := uuid.New()
	valid := CreateGigRequest{
		Title:       "Deliver parcels",
		Description: "Two parcels to Osu",
		Category:    "Delivery",
		Location:    "Accra",
		BudgetMin:   20,
		BudgetMax:   40,
		IsUrgent:    true,
	}

	t.Run("created with defaults", func(t *testing.T) {
		f := newGigFixture(t)
		rec := serve(t, f.handler.CreateGig, testRequest{method: http.MethodPost, path: "/api/gigs", body: valid, userID: owner})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[GigResponse](t, rec)
		assert.Equal(t, owner, resp.Gig.CreatedBy)
		assert.Equal(t, domain.GigStatusOpen, resp.Gig.Status)
		assert.Equal(t, 1, resp.Gig.PeopleNeeded)
		assert.Equal(t, 0, resp.Gig.ApplicationsCount)
		assert.Len(t, f.gigs.Created, 1)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newGigFixture(t)
		bad := valid
		bad.Category = "Astrology"
		rec := serve(t, f.handler.CreateGig, testRequest{method: http.MethodPost, path: "/api/gigs", body: bad, userID: owner})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.gigs.Created)
	})

	t.Run("budget max below min", func(t *testing.T) {
		f := newGigFixture(t)
		bad := valid
		bad.BudgetMax = 5
		rec := serve(t, f.handler.CreateGig, testRequest{method: http.MethodPost, path: "/api/gigs", body: bad, userID: owner})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		f := newGigFixture(t)
		rec := serve(t, f.handler.CreateGig, testRequest{method: http.MethodPost, path: "/api/gigs", body: valid})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGigHandler_ListGigs(t *testing.T) {
	f := newGigFixture(t)

	rec := serve(t, f.handler.ListGigs, testRequest{
		method:  http.MethodGet,
		pattern: "/api/gigs",
		path:    "/api/gigs?category=Tutoring&location=Kumasi&is_urgent=true&limit=500",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tutoring", f.gigs.LastFilter.Category)
	assert.Equal(t, "Kumasi", f.gigs.LastFilter.Location)
	require.NotNil(t, f.gigs.LastFilter.IsUrgent)
	assert.True(t, *f.gigs.LastFilter.IsUrgent)
	assert.Equal(t, domain.GigStatusOpen, f.gigs.LastFilter.Status)
	assert.Equal(t, 100, f.gigs.LastFilter.Limit)

	bad := serve(t, f.handler.ListGigs, testRequest{method: http.MethodGet, pattern: "/api/gigs", path: "/api/gigs?limit=ten"})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestGigHandler_GetGig(t *testing.T) {
	f := newGigFixture(t)
	g := f.seedGig(t, uuid.New())

	rec := serve(t, f.handler.GetGig, testRequest{method: http.MethodGet, pattern: "/api/gigs/{id}", path: "/api/gigs/" + g.ID.String()})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, g.ID, decodeBody[GigResponse](t, rec).Gig.ID)

	missing := serve(t, f.handler.GetGig, testRequest{method: http.MethodGet, pattern: "/api/gigs/{id}", path: "/api/gigs/" + uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "Gig not found", errorDetail(t, missing))

	malformed := serve(t, f.handler.GetGig, testRequest{method: http.MethodGet, pattern: "/api/gigs/{id}", path: "/api/gigs/abc"})
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
}

func TestGigHandler_Apply(t *testing.T) {
	f := newGigFixture(t)
	g := f.seedGig(t, uuid.New())
	applicant := uuid.New()
	route := testRequest{
		method:  http.MethodPost,
		pattern: "/api/gigs/{id}/apply",
		path:    "/api/gigs/" + g.ID.String() + "/apply",
		userID:  applicant,
	}

	first := serve(t, f.handler.Apply, route)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	app := decodeBody[ApplicationResponse](t, first).Application
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)
	assert.Equal(t, []uuid.UUID{g.ID}, f.gigs.Incremented)

	second := serve(t, f.handler.Apply, route)
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Equal(t, "Already applied", errorDetail(t, second))
	assert.Len(t, f.applications.Created, 1)

	withLetter := route
	withLetter.userID = uuid.New()
	withLetter.body = ApplyRequest{CoverLetter: "I have a bike"}
	third := serve(t, f.handler.Apply, withLetter)
	require.Equal(t, http.StatusOK, third.Code)
	assert.Equal(t, "I have a bike", decodeBody[ApplicationResponse](t, third).Application.CoverLetter)

	badJSON := route
	badJSON.userID = uuid.New()
	badJSON.body = `{"cover_letter":`
	assert.Equal(t, http.StatusBadRequest, serve(t, f.handler.Apply, badJSON).Code)
}

func TestGigHandler_ApplicationsOwnership(t *testing.T) {
	f := newGigFixture(t)
	owner := uuid.New()
	g := f.seedGig(t, owner)
	app, err := domain.NewApplication(g.ID, uuid.New(), "")
	require.NoError(t, err)
	f.applications.Created = append(f.applications.Created, app)
	f.applications.ListByGigFn = func(_ context.Context, gigID uuid.UUID) ([]*domain.Application, error) {
		if gigID == g.ID {
			return []*domain.Application{app}, nil
		}
		return []*domain.Application{}, nil
	}

	list := testRequest{
		method:  http.MethodGet,
		pattern: "/api/gigs/{id}/applications",
		path:    "/api/gigs/" + g.ID.String() + "/applications",
	}

	list.userID = uuid.New()
	assert.Equal(t, http.StatusForbidden, serve(t, f.handler.ListApplications, list).Code)

	list.userID = owner
	rec := serve(t, f.handler.ListApplications, list)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[ApplicationsResponse](t, rec).Applications, 1)

	accept := testRequest{
		method:  http.MethodPut,
		pattern: "/api/applications/{id}/accept",
		path:    "/api/applications/" + app.ID.String() + "/accept",
		userID:  uuid.New(),
	}
	assert.Equal(t, http.StatusForbidden, serve(t, f.handler.AcceptApplication, accept).Code)

	accept.userID = owner
	rec = serve(t, f.handler.AcceptApplication, accept)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[SuccessResponse](t, rec).Success)
	assert.Equal(t, domain.ApplicationStatusAccepted, f.applications.StatusUpdates[app.ID])
}

func TestGigHandler_MatchGigs(t *testing.T) {
	f := newGigFixture(t)
	client, err := domain.NewProfile("client@example.com", "Client")
	require.NoError(t, err)
	freelancer, err := domain.NewProfile("free@example.com", "Freelancer")
	require.NoError(t, err)
	domain.FreelancerRegistration{Categories: []string{"Tutoring", "Translation"}}.Apply(freelancer)
	f.profiles.Profiles[client.ID] = client
	f.profiles.Profiles[freelancer.ID] = freelancer

	t.Run("client gets hint", func(t *testing.T) {
		rec := serve(t, f.handler.MatchGigs, testRequest{method: http.MethodGet, path: "/api/match/gigs", userID: client.ID})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[GigsResponse](t, rec)
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Gigs)
		assert.Equal(t, NotFreelancerMessage, resp.Message)
	})

	t.Run("freelancer filtered by categories", func(t *testing.T) {
		rec := serve(t, f.handler.MatchGigs, testRequest{method: http.MethodGet, path: "/api/match/gigs", userID: freelancer.ID})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"Tutoring", "Translation"}, f.gigs.LastFilter.Categories)
		assert.True(t, f.gigs.LastFilter.UrgentFirst)
		assert.Equal(t, service.MatchLimit, f.gigs.LastFilter.Limit)
	})
}

func TestGigHandler_MatchFreelancers(t *testing.T) {
	f := newGigFixture(t)
	owner := uuid.New()
	g := f.seedGig(t, owner)
	hidden := "+233 20 000 0000"
	freelancer, err := domain.NewProfile("free@example.com", "Freelancer")
	require.NoError(t, err)
	freelancer.Phone = hidden
	domain.FreelancerRegistration{Categories: []string{g.Category}}.Apply(freelancer)
	f.profiles.Profiles[freelancer.ID] = freelancer

	req := testRequest{
		method:  http.MethodGet,
		pattern: "/api/match/freelancers/{gig_id}",
		path:    "/api/match/freelancers/" + g.ID.String(),
		userID:  owner,
	}
	rec := serve(t, f.handler.MatchFreelancers, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[FreelancersResponse](t, rec)
	require.Len(t, resp.Freelancers, 1)
	assert.NotContains(t, rec.Body.String(), hidden)
	assert.NotContains(t, rec.Body.String(), "free@example.com")

	req.userID = uuid.New()
	assert.Equal(t, http.StatusForbidden, serve(t, f.handler.MatchFreelancers, req).Code)
}
