package mocks

import (
	"context"
	"database/sql"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// MockGigStore implements store.GigStore for testing
type MockGigStore struct {
	CreateFn                func(ctx context.Context, g *domain.Gig) error
	GetByIDFn               func(ctx context.Context, id uuid.UUID) (*domain.Gig, error)
	ListFn                  func(ctx context.Context, f store.GigFilter) ([]*domain.Gig, error)
	ListByCreatorFn         func(ctx context.Context, userID uuid.UUID) ([]*domain.Gig, error)
	CountOpenFn             func(ctx context.Context) (int, error)
	IncrementApplicationsFn func(ctx context.Context, id uuid.UUID) error

	// Call tracking for verification
	Created     []*domain.Gig
	LastFilter  store.GigFilter
	Incremented []uuid.UUID
	WithTxCalls int
}

var _ store.GigStore = (*MockGigStore)(nil)

// Create implements store.GigStore
func (m *MockGigStore) Create(ctx context.Context, g *domain.Gig) error {
	m.Created = append(m.Created, g)
	if m.CreateFn != nil {
		return m.CreateFn(ctx, g)
	}
	return nil
}

// GetByID implements store.GigStore
func (m *MockGigStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Gig, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrGigNotFound
}

// List implements store.GigStore
func (m *MockGigStore) List(ctx context.Context, f store.GigFilter) ([]*domain.Gig, error) {
	m.LastFilter = f
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return []*domain.Gig{}, nil
}

// ListByCreator implements store.GigStore
func (m *MockGigStore) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Gig, error) {
	if m.ListByCreatorFn != nil {
		return m.ListByCreatorFn(ctx, userID)
	}
	return []*domain.Gig{}, nil
}

// CountOpen implements store.GigStore
func (m *MockGigStore) CountOpen(ctx context.Context) (int, error) {
	if m.CountOpenFn != nil {
		return m.CountOpenFn(ctx)
	}
	return 0, nil
}

// IncrementApplications implements store.GigStore
func (m *MockGigStore) IncrementApplications(ctx context.Context, id uuid.UUID) error {
	m.Incremented = append(m.Incremented, id)
	if m.IncrementApplicationsFn != nil {
		return m.IncrementApplicationsFn(ctx, id)
	}
	return nil
}

// WithTx implements store.GigStore
func (m *MockGigStore) WithTx(_ *sql.Tx) store.GigStore {
	m.WithTxCalls++
	return m
}
