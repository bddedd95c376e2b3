package store

import (
	"context"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/google/uuid"
)

// MessageStore defines the interface for direct message persistence.
type MessageStore interface {
	// Create saves a new message.
	Create(ctx context.Context, m *domain.Message) error

	// ListBetween returns the messages exchanged by a and b, oldest first.
	ListBetween(ctx context.Context, a, b uuid.UUID) ([]*domain.Message, error)

	// MarkRead marks the messages sent by senderID to receiverID as read and
	// returns how many changed.
	MarkRead(ctx context.Context, receiverID, senderID uuid.UUID) (int64, error)

	// Conversations returns one entry per counterpart of userID, most recent first.
	Conversations(ctx context.Context, userID uuid.UUID) ([]*domain.Conversation, error)
}
