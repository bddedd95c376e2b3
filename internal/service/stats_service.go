package service

import (
	"context"
	"log/slog"

	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
)

// Stats is the public marketplace summary.
type Stats struct {
	OpenGigs    int `json:"open_gigs"`
	Freelancers int `json:"freelancers"`
}

// StatsService reports marketplace counts.
type StatsService struct {
	gigs     store.GigStore
	profiles store.ProfileStore
	logger   *slog.Logger
}

// NewStatsService creates a StatsService.
func NewStatsService(gigs store.GigStore, profiles store.ProfileStore, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{gigs: gigs, profiles: profiles, logger: logger.With("component", "stats_service")}
}

// Stats never fails: a count that cannot be read is reported as zero.
func (s *StatsService) Stats(ctx context.Context) Stats {
	var st Stats
	var err error
	if st.OpenGigs, err = s.gigs.CountOpen(ctx); err != nil {
		s.logger.Warn("failed to count open gigs", "error", redact.Error(err))
		st.OpenGigs = 0
	}
	if st.Freelancers, err = s.profiles.CountFreelancers(ctx); err != nil {
		s.logger.Warn("failed to count freelancers", "error", redact.Error(err))
		st.Freelancers = 0
	}
	return st
}
