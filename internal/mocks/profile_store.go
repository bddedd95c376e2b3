package mocks

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// MockProfileStore implements store.ProfileStore for testing. Without
// function overrides it behaves like a small in-memory table.
type MockProfileStore struct {
	CreateFn              func(ctx context.Context, p *domain.Profile) error
	GetByIDFn             func(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByEmailFn          func(ctx context.Context, email string) (*domain.Profile, error)
	GetByFirebaseUIDFn    func(ctx context.Context, uid string) (*domain.Profile, error)
	GetByTelegramChatIDFn func(ctx context.Context, chatID int64) (*domain.Profile, error)
	UpdateFn              func(ctx context.Context, p *domain.Profile) error
	UpdateRatingFn        func(ctx context.Context, id uuid.UUID, rating float64, totalReviews int) error
	ListFreelancersFn     func(ctx context.Context, f store.FreelancerFilter) ([]*domain.Profile, error)
	CountFreelancersFn    func(ctx context.Context) (int, error)

	mu       sync.Mutex
	Profiles map[uuid.UUID]*domain.Profile

	// WithTxCalls counts WithTx invocations
	WithTxCalls int
}

// NewMockProfileStore creates a new mock store with initialized defaults
func NewMockProfileStore(profiles ...*domain.Profile) *MockProfileStore {
	m := &MockProfileStore{Profiles: make(map[uuid.UUID]*domain.Profile)}
	for _, p := range profiles {
		m.Profiles[p.ID] = p
	}
	return m
}

var _ store.ProfileStore = (*MockProfileStore)(nil)

func (m *MockProfileStore) find(match func(*domain.Profile) bool) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Profiles {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrProfileNotFound
}

// Create implements store.ProfileStore
func (m *MockProfileStore) Create(ctx context.Context, p *domain.Profile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	if p.Email != "" {
		if _, err := m.GetByEmail(ctx, p.Email); err == nil {
			return store.ErrEmailExists
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Profiles == nil {
		m.Profiles = make(map[uuid.UUID]*domain.Profile)
	}
	cp := *p
	m.Profiles[p.ID] = &cp
	return nil
}

// GetByID implements store.ProfileStore
func (m *MockProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.find(func(p *domain.Profile) bool { return p.ID == id })
}

// GetByEmail implements store.ProfileStore
func (m *MockProfileStore) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	email = strings.TrimSpace(email)
	return m.find(func(p *domain.Profile) bool { return p.Email != "" && strings.EqualFold(p.Email, email) })
}

// GetByFirebaseUID implements store.ProfileStore
func (m *MockProfileStore) GetByFirebaseUID(ctx context.Context, uid string) (*domain.Profile, error) {
	if m.GetByFirebaseUIDFn != nil {
		return m.GetByFirebaseUIDFn(ctx, uid)
	}
	return m.find(func(p *domain.Profile) bool { return p.FirebaseUID != "" && p.FirebaseUID == uid })
}

// GetByTelegramChatID implements store.ProfileStore
func (m *MockProfileStore) GetByTelegramChatID(ctx context.Context, chatID int64) (*domain.Profile, error) {
	if m.GetByTelegramChatIDFn != nil {
		return m.GetByTelegramChatIDFn(ctx, chatID)
	}
	return m.find(func(p *domain.Profile) bool { return p.TelegramChatID != nil && *p.TelegramChatID == chatID })
}

// Update implements store.ProfileStore
func (m *MockProfileStore) Update(ctx context.Context, p *domain.Profile) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Profiles[p.ID]; !ok {
		return store.ErrProfileNotFound
	}
	cp := *p
	m.Profiles[p.ID] = &cp
	return nil
}

// UpdateRating implements store.ProfileStore
func (m *MockProfileStore) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, totalReviews int) error {
	if m.UpdateRatingFn != nil {
		return m.UpdateRatingFn(ctx, id, rating, totalReviews)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Profiles[id]
	if !ok {
		return store.ErrProfileNotFound
	}
	p.Rating = rating
	p.TotalReviews = totalReviews
	return nil
}

// ListFreelancers implements store.ProfileStore
func (m *MockProfileStore) ListFreelancers(ctx context.Context, f store.FreelancerFilter) ([]*domain.Profile, error) {
	if m.ListFreelancersFn != nil {
		return m.ListFreelancersFn(ctx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Profile{}
	for _, p := range m.Profiles {
		if p.IsFreelancer {
			out = append(out, p)
		}
	}
	return out, nil
}

// CountFreelancers implements store.ProfileStore
func (m *MockProfileStore) CountFreelancers(ctx context.Context) (int, error) {
	if m.CountFreelancersFn != nil {
		return m.CountFreelancersFn(ctx)
	}
	list, err := m.ListFreelancers(ctx, store.FreelancerFilter{})
	return len(list), err
}

// WithTx implements store.ProfileStore
func (m *MockProfileStore) WithTx(_ *sql.Tx) store.ProfileStore {
	m.WithTxCalls++
	return m
}
