package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errLeakyStore = errors.New("dial postgres://careerplus:hunter2@db:5432/app: connection refused")

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func TestServiceLogsRedactStoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("register freelancer", func(t *testing.T) {
		p, err := domain.NewProfile("ama@example.com", "Ama")
		require.NoError(t, err)
		profiles := mocks.NewMockProfileStore(p)
		profiles.UpdateFn = func(context.Context, *domain.Profile) error { return errLeakyStore }
		log, buf := bufferLogger()

		_, err = NewProfileService(profiles, log).RegisterFreelancer(ctx, p.ID, domain.FreelancerRegistration{
			Categories: []string{"Tutoring"},
		})

		require.ErrorIs(t, err, errLeakyStore)
		assert.Contains(t, buf.String(), "failed to register freelancer")
		assert.NotContains(t, buf.String(), "hunter2")
	})

	t.Run("stats", func(t *testing.T) {
		gigs := &mocks.MockGigStore{CountOpenFn: func(context.Context) (int, error) { return 0, errLeakyStore }}
		log, buf := bufferLogger()

		st := NewStatsService(gigs, mocks.NewMockProfileStore(), log).Stats(ctx)

		assert.Zero(t, st.OpenGigs)
		assert.Contains(t, buf.String(), "failed to count open gigs")
		assert.NotContains(t, buf.String(), "hunter2")
	})
}
