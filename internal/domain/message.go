package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyMessage is returned for a message with no content.
var ErrEmptyMessage = fmt.Errorf("%w: message content cannot be empty", ErrValidation)

// Message is a direct message between two users, optionally about a gig.
type Message struct {
	ID         uuid.UUID  `json:"id"`
	SenderID   uuid.UUID  `json:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id"`
	GigID      *uuid.UUID `json:"gig_id,omitempty"`
	Content    string     `json:"content"`
	IsRead     bool       `json:"is_read"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewMessage creates an unread message.
func NewMessage(senderID, receiverID uuid.UUID, content string, gigID *uuid.UUID) (*Message, error) {
	if senderID == uuid.Nil || receiverID == uuid.Nil {
		return nil, ErrInvalidID
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}
	return &Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		GigID:      gigID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Conversation summarizes the thread with one counterpart.
type Conversation struct {
	OtherUserID     uuid.UUID `json:"other_user_id"`
	OtherUserName   string    `json:"other_user_name"`
	OtherUserAvatar string    `json:"other_user_avatar,omitempty"`
	LastMessage     string    `json:"last_message"`
	LastMessageAt   time.Time `json:"last_message_at"`
	UnreadCount     int       `json:"unread_count"`
}
