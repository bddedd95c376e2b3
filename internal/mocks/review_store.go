package mocks

import (
	"context"
	"database/sql"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// MockReviewStore implements store.ReviewStore for testing. Created reviews
// feed the default RatingsFor.
type MockReviewStore struct {
	CreateFn      func(ctx context.Context, r *domain.Review) error
	ListForUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error)
	RatingsForFn  func(ctx context.Context, userID uuid.UUID) ([]int, error)

	Created     []*domain.Review
	WithTxCalls int
}

var _ store.ReviewStore = (*MockReviewStore)(nil)

// Create implements store.ReviewStore
func (m *MockReviewStore) Create(ctx context.Context, r *domain.Review) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, r); err != nil {
			return err
		}
	}
	m.Created = append(m.Created, r)
	return nil
}

// ListForUser implements store.ReviewStore
func (m *MockReviewStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Review, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID)
	}
	out := []*domain.Review{}
	for _, r := range m.Created {
		if r.ReviewedUserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// RatingsFor implements store.ReviewStore
func (m *MockReviewStore) RatingsFor(ctx context.Context, userID uuid.UUID) ([]int, error) {
	if m.RatingsForFn != nil {
		return m.RatingsForFn(ctx, userID)
	}
	ratings := []int{}
	for _, r := range m.Created {
		if r.ReviewedUserID == userID {
			ratings = append(ratings, r.Rating)
		}
	}
	return ratings, nil
}

// WithTx implements store.ReviewStore
func (m *MockReviewStore) WithTx(_ *sql.Tx) store.ReviewStore {
	m.WithTxCalls++
	return m
}
