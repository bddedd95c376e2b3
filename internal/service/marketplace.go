package service

import (
	"context"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// ChatMarketplace exposes the operations the chat assistant performs on a
// user's behalf.
type ChatMarketplace struct {
	profiles ProfileService
	gigs     GigService
}

// NewChatMarketplace creates a ChatMarketplace.
func NewChatMarketplace(profiles ProfileService, gigs GigService) *ChatMarketplace {
	return &ChatMarketplace{profiles: profiles, gigs: gigs}
}

// ProfileForChat returns or creates the profile bound to a chat.
func (m *ChatMarketplace) ProfileForChat(ctx context.Context, chatID int64, displayName string) (*domain.Profile, error) {
	return m.profiles.ForChat(ctx, chatID, displayName)
}

// PostGig creates a gig owned by createdBy.
func (m *ChatMarketplace) PostGig(ctx context.Context, createdBy uuid.UUID, d domain.GigDraft) (*domain.Gig, error) {
	return m.gigs.Create(ctx, createdBy, d)
}

// RegisterFreelancer marks the profile as a freelancer.
func (m *ChatMarketplace) RegisterFreelancer(
	ctx context.Context,
	profileID uuid.UUID,
	reg domain.FreelancerRegistration,
) (*domain.Profile, error) {
	return m.profiles.RegisterFreelancer(ctx, profileID, reg)
}

// SearchGigs lists gigs matching f.
func (m *ChatMarketplace) SearchGigs(ctx context.Context, f store.GigFilter) ([]*domain.Gig, error) {
	return m.gigs.List(ctx, f)
}
