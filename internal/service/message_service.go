package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/careerplus/careerplus-api/internal/domain"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/store"
	"github.com/google/uuid"
)

// MessageService handles direct messages.
type MessageService interface {
	Send(ctx context.Context, senderID, receiverID uuid.UUID, content string, gigID *uuid.UUID) (*domain.Message, error)

	// Thread returns the messages between userID and otherID, oldest first,
	// and marks the ones otherID sent to userID as read.
	Thread(ctx context.Context, userID, otherID uuid.UUID) ([]*domain.Message, error)

	Conversations(ctx context.Context, userID uuid.UUID) ([]*domain.Conversation, error)
}

type messageServiceImpl struct {
	messages store.MessageStore
	profiles store.ProfileStore
	logger   *slog.Logger
}

// NewMessageService creates a MessageService.
func NewMessageService(messages store.MessageStore, profiles store.ProfileStore, logger *slog.Logger) MessageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &messageServiceImpl{
		messages: messages,
		profiles: profiles,
		logger:   logger.With("component", "message_service"),
	}
}

// Send implements MessageService.
func (s *messageServiceImpl) Send(
	ctx context.Context,
	senderID, receiverID uuid.UUID,
	content string,
	gigID *uuid.UUID,
) (*domain.Message, error) {
	msg, err := domain.NewMessage(senderID, receiverID, content, gigID)
	if err != nil {
		return nil, err
	}
	if _, err := s.profiles.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}

// Thread implements MessageService.
func (s *messageServiceImpl) Thread(ctx context.Context, userID, otherID uuid.UUID) ([]*domain.Message, error) {
	msgs, err := s.messages.ListBetween(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	// A failed read receipt does not fail the fetch.
	if n, err := s.messages.MarkRead(ctx, userID, otherID); err != nil {
		s.logger.Warn("failed to mark messages read", "error", redact.Error(err), "user_id", userID)
	} else if n > 0 {
		s.logger.Debug("marked messages read", "count", n, "user_id", userID)
	}
	return msgs, nil
}

// Conversations implements MessageService.
func (s *messageServiceImpl) Conversations(ctx context.Context, userID uuid.UUID) ([]*domain.Conversation, error) {
	return s.messages.Conversations(ctx, userID)
}
