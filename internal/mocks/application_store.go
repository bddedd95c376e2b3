package mocks

import (
	"context"
	"database/sql"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// MockApplicationStore implements store.ApplicationStore for testing
type MockApplicationStore struct {
	CreateFn          func(ctx context.Context, a *domain.Application) error
	ExistsFn          func(ctx context.Context, gigID, applicantID uuid.UUID) (bool, error)
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	ListByGigFn       func(ctx context.Context, gigID uuid.UUID) ([]*domain.Application, error)
	ListByApplicantFn func(ctx context.Context, applicantID uuid.UUID) ([]*domain.Application, error)
	UpdateStatusFn    func(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) error

	// Call tracking for verification
	Created       []*domain.Application
	StatusUpdates map[uuid.UUID]domain.ApplicationStatus
	WithTxCalls   int
}

var _ store.ApplicationStore = (*MockApplicationStore)(nil)

// Create implements store.ApplicationStore
func (m *MockApplicationStore) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, a); err != nil {
			return err
		}
	}
	m.Created = append(m.Created, a)
	return nil
}

// Exists implements store.ApplicationStore
func (m *MockApplicationStore) Exists(ctx context.Context, gigID, applicantID uuid.UUID) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, gigID, applicantID)
	}
	for _, a := range m.Created {
		if a.GigID == gigID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

// GetByID implements store.ApplicationStore
func (m *MockApplicationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	for _, a := range m.Created {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, store.ErrApplicationNotFound
}

// ListByGig implements store.ApplicationStore
func (m *MockApplicationStore) ListByGig(ctx context.Context, gigID uuid.UUID) ([]*domain.Application, error) {
	if m.ListByGigFn != nil {
		return m.ListByGigFn(ctx, gigID)
	}
	return []*domain.Application{}, nil
}

// ListByApplicant implements store.ApplicationStore
func (m *MockApplicationStore) ListByApplicant(
	ctx context.Context,
	applicantID uuid.UUID,
) ([]*domain.Application, error) {
	if m.ListByApplicantFn != nil {
		return m.ListByApplicantFn(ctx, applicantID)
	}
	return []*domain.Application{}, nil
}

// UpdateStatus implements store.ApplicationStore
func (m *MockApplicationStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.ApplicationStatus,
) error {
	if m.UpdateStatusFn != nil {
		if err := m.UpdateStatusFn(ctx, id, status); err != nil {
			return err
		}
	}
	if m.StatusUpdates == nil {
		m.StatusUpdates = make(map[uuid.UUID]domain.ApplicationStatus)
	}
	m.StatusUpdates[id] = status
	return nil
}

// WithTx implements store.ApplicationStore
func (m *MockApplicationStore) WithTx(_ *sql.Tx) store.ApplicationStore {
	m.WithTxCalls++
	return m
}
