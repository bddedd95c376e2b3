package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/careerplus/careerplus-api/internal/api/shared"
	"github.com/careerplus/careerplus-api/internal/assistant"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/task"
	tele "gopkg.in/telebot.v4"
)

// TelegramSecretHeader carries the secret registered with setWebhook.
const TelegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebChatter answers web assistant messages.
type WebChatter interface {
	Chat(ctx context.Context, message string, cc *assistant.ChatContext, authenticated bool) assistant.WebReply
}

// BotHandler answers one bot conversation turn.
type BotHandler interface {
	Handle(ctx context.Context, chatID int64, userName, text string) (assistant.BotReply, error)
}

// UpdateTasker turns a Telegram update into background work.
type UpdateTasker interface {
	Task(u tele.Update) (task.Task, bool)
}

// TaskSubmitter accepts background work without blocking.
type TaskSubmitter interface {
	Submit(t task.Task) error
}

// AssistantHandler serves the web assistant and the Telegram bot endpoints.
type AssistantHandler struct {
	web        WebChatter
	bot        BotHandler
	updates    UpdateTasker
	runner     TaskSubmitter
	secret     string
	chatSecret string
	logger     *slog.Logger
}

// AssistantOption configures an AssistantHandler.
type AssistantOption func(*AssistantHandler)

// WithTelegramWebhook enables POST /api/telegram/webhook. Updates are
// queued on runner; secret, when set, must match TelegramSecretHeader.
func WithTelegramWebhook(updates UpdateTasker, runner TaskSubmitter, secret string) AssistantOption {
	return func(h *AssistantHandler) {
		h.updates = updates
		h.runner = runner
		h.secret = secret
	}
}

// WithChatSecret requires TelegramSecretHeader to equal secret on
// POST /api/telegram/chat. An empty secret leaves the endpoint open.
func WithChatSecret(secret string) AssistantOption {
	return func(h *AssistantHandler) {
		h.chatSecret = secret
	}
}

// secretMatches reports whether r carries want in TelegramSecretHeader.
// An empty want matches every request.
func secretMatches(r *http.Request, want string) bool {
	if want == "" {
		return true
	}
	got := r.Header.Get(TelegramSecretHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// NewAssistantHandler creates an AssistantHandler.
func NewAssistantHandler(web WebChatter, bot BotHandler, logger *slog.Logger, opts ...AssistantOption) *AssistantHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &AssistantHandler{
		web:    web,
		bot:    bot,
		logger: logger.With(slog.String("component", "assistant_handler")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Chat handles POST /api/ai/chat. Page context is only trusted from signed
// in callers. Proposed actions are returned, never executed.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	_, authenticated := getUserIDFromContext(r)

	reply := h.web.Chat(r.Context(), req.Message, req.Context, authenticated)
	shared.RespondWithJSON(w, r, http.StatusOK, reply)
}

// TelegramChat handles POST /api/telegram/chat, which drives the bot
// conversation directly.
func (h *AssistantHandler) TelegramChat(w http.ResponseWriter, r *http.Request) {
	if h.bot == nil {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Telegram bot is not configured")
		return
	}
	if !secretMatches(r, h.chatSecret) {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("telegram chat with bad secret token")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid secret token")
		return
	}
	var req TelegramChatRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	reply, err := h.bot.Handle(r.Context(), req.ChatID, req.UserName, req.Message)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("bot turn failed",
			slog.Int64("chat_id", req.ChatID),
			slog.String("error", redact.Error(err)))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, reply)
}

// TelegramWebhook handles POST /api/telegram/webhook. The update is queued
// and acknowledged at once. A full queue answers 503 so Telegram redelivers.
func (h *AssistantHandler) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	if h.updates == nil || h.runner == nil {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Telegram bot is not configured")
		return
	}
	if !secretMatches(r, h.secret) {
		log.Warn("telegram webhook with bad secret token")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid secret token")
		return
	}

	var update tele.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, shared.MaxBodyBytes)).Decode(&update); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid update", err)
		return
	}

	t, ok := h.updates.Task(update)
	if !ok {
		log.Debug("ignoring telegram update without text", slog.Int("update_id", update.ID))
		shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
		return
	}

	if err := h.runner.Submit(t); err != nil {
		status := http.StatusServiceUnavailable
		if !errors.Is(err, task.ErrQueueFull) && !errors.Is(err, task.ErrQueueClosed) {
			status = http.StatusInternalServerError
		}
		shared.RespondWithErrorAndLog(w, r, status, "Update could not be queued", err,
			shared.WithElevatedLogLevel())
		return
	}

	log.Debug("telegram update queued",
		slog.Int("update_id", update.ID),
		slog.String("task_id", t.ID().String()))
	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}
