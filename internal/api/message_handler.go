package api

import (
	"log/slog"
	"net/http"

	"github.com/careerplus/careerplus-api/internal/api/shared"
	"github.com/careerplus/careerplus-api/internal/service"
)

// MessageHandler serves direct messages.
type MessageHandler struct {
	messages service.MessageService
	logger   *slog.Logger
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(messages service.MessageService, logger *slog.Logger) *MessageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageHandler{
		messages: messages,
		logger:   logger.With(slog.String("component", "message_handler")),
	}
}

// Send handles POST /api/messages.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req SendMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.messages.Send(r.Context(), userID, req.ReceiverID, req.Content, req.GigID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to send message")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Success: true, Message: msg})
}

// Thread handles GET /api/messages/{other_user_id}. Fetching the thread
// marks the caller's unread messages from the other user as read.
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	userID, otherID, ok := handleUserIDAndPathUUID(w, r, "other_user_id")
	if !ok {
		return
	}
	msgs, err := h.messages.Thread(r.Context(), userID, otherID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load messages")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MessagesResponse{Success: true, Messages: msgs})
}

// Conversations handles GET /api/conversations.
func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	convs, err := h.messages.Conversations(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load conversations")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ConversationsResponse{Success: true, Conversations: convs})
}
