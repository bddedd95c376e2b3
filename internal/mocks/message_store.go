package mocks

import (
	"context"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// MockMessageStore implements store.MessageStore for testing
type MockMessageStore struct {
	CreateFn        func(ctx context.Context, m *domain.Message) error
	ListBetweenFn   func(ctx context.Context, a, b uuid.UUID) ([]*domain.Message, error)
	MarkReadFn      func(ctx context.Context, receiverID, senderID uuid.UUID) (int64, error)
	ConversationsFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Conversation, error)

	// Call tracking for verification
	Created      []*domain.Message
	MarkReadArgs [][2]uuid.UUID
}

var _ store.MessageStore = (*MockMessageStore)(nil)

// Create implements store.MessageStore
func (m *MockMessageStore) Create(ctx context.Context, msg *domain.Message) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, msg); err != nil {
			return err
		}
	}
	m.Created = append(m.Created, msg)
	return nil
}

// ListBetween implements store.MessageStore
func (m *MockMessageStore) ListBetween(ctx context.Context, a, b uuid.UUID) ([]*domain.Message, error) {
	if m.ListBetweenFn != nil {
		return m.ListBetweenFn(ctx, a, b)
	}
	return []*domain.Message{}, nil
}

// MarkRead implements store.MessageStore
func (m *MockMessageStore) MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) (int64, error) {
	m.MarkReadArgs = append(m.MarkReadArgs, [2]uuid.UUID{receiverID, senderID})
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, receiverID, senderID)
	}
	return 0, nil
}

// Conversations implements store.MessageStore
func (m *MockMessageStore) Conversations(ctx context.Context, userID uuid.UUID) ([]*domain.Conversation, error) {
	if m.ConversationsFn != nil {
		return m.ConversationsFn(ctx, userID)
	}
	return []*domain.Conversation{}, nil
}
