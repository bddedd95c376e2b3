package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// DefaultChatDisplayName names chat profiles whose user has no display name.
const DefaultChatDisplayName = "Telegram User"

// ProfileService manages profiles and freelancer registration.
type ProfileService interface {
	// Get returns the full profile. Callers showing it to other users use Public().
	Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	Update(ctx context.Context, id uuid.UUID, upd domain.ProfileUpdate) (*domain.Profile, error)

	RegisterFreelancer(ctx context.Context, id uuid.UUID, reg domain.FreelancerRegistration) (*domain.Profile, error)

	ListFreelancers(ctx context.Context, f store.FreelancerFilter) ([]*domain.Profile, error)

	// ForChat returns the profile bound to a Telegram chat, creating it on
	// first use.
	ForChat(ctx context.Context, chatID int64, displayName string) (*domain.Profile, error)
}

type profileServiceImpl struct {
	profiles store.ProfileStore
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(profiles store.ProfileStore, logger *slog.Logger) ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &profileServiceImpl{
		profiles: profiles,
		logger:   logger.With("component", "profile_service"),
	}
}

// Get implements ProfileService.
func (s *profileServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// Update implements ProfileService.
func (s *profileServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	upd domain.ProfileUpdate,
) (*domain.Profile, error) {
	if upd.Empty() {
		return nil, ErrNothingToUpdate
	}
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := upd.Apply(profile); err != nil {
		return nil, err
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		s.logger.Error("failed to update profile", "error", redact.Error(err), "user_id", id)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// RegisterFreelancer implements ProfileService.
func (s *profileServiceImpl) RegisterFreelancer(
	ctx context.Context,
	id uuid.UUID,
	reg domain.FreelancerRegistration,
) (*domain.Profile, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reg.Apply(profile)
	if err := s.profiles.Update(ctx, profile); err != nil {
		s.logger.Error("failed to register freelancer", "error", redact.Error(err), "user_id", id)
		return nil, fmt.Errorf("failed to register freelancer: %w", err)
	}
	s.logger.Info("freelancer registered",
		"user_id", id,
		"categories", strings.Join(reg.Categories, ","))
	return profile, nil
}

// ListFreelancers implements ProfileService.
func (s *profileServiceImpl) ListFreelancers(
	ctx context.Context,
	f store.FreelancerFilter,
) ([]*domain.Profile, error) {
	f.Limit = store.NormalizeLimit(f.Limit)
	list, err := s.profiles.ListFreelancers(ctx, f)
	if err != nil {
		return nil, err
	}
	public := make([]*domain.Profile, 0, len(list))
	for _, p := range list {
		public = append(public, p.Public())
	}
	return public, nil
}

// ForChat implements ProfileService.
func (s *profileServiceImpl) ForChat(ctx context.Context, chatID int64, displayName string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByTelegramChatID(ctx, chatID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = DefaultChatDisplayName
	}
	profile, err = domain.NewProfile("", name)
	if err != nil {
		return nil, err
	}
	profile.TelegramChatID = &chatID

	if err := s.profiles.Create(ctx, profile); err != nil {
		// Two messages from a new chat can race to create the row.
		if errors.Is(err, store.ErrDuplicate) {
			return s.profiles.GetByTelegramChatID(ctx, chatID)
		}
		return nil, fmt.Errorf("failed to create chat profile: %w", err)
	}
	s.logger.Info("chat profile created", "user_id", profile.ID)
	return profile, nil
}
