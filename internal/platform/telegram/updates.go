package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/careerplus/careerplus-api/internal/assistant"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/careerplus/careerplus-api/internal/task"
	tele "gopkg.in/telebot.v4"
)

// Handler answers one chat message. *assistant.Bot implements it.
type Handler interface {
	Handle(ctx context.Context, chatID int64, userName, text string) (assistant.BotReply, error)
}

// Incoming is the part of an update the bot acts on.
type Incoming struct {
	UpdateID int
	ChatID   int64
	UserName string
	Text     string
}

// FromUpdate extracts the text message carried by u. Updates without a text
// message (edits, callbacks, stickers) report false.
func FromUpdate(u tele.Update) (Incoming, bool) {
	m := u.Message
	if m == nil || m.Chat == nil || strings.TrimSpace(m.Text) == "" {
		return Incoming{}, false
	}
	return Incoming{
		UpdateID: u.ID,
		ChatID:   m.Chat.ID,
		UserName: displayName(m.Sender),
		Text:     m.Text,
	}, true
}

func displayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	return u.Username
}

// UpdateProcessor runs webhook updates through the bot and sends the replies.
type UpdateProcessor struct {
	handler Handler
	sender  Sender
	logger  *slog.Logger
}

// NewUpdateProcessor creates an UpdateProcessor.
func NewUpdateProcessor(handler Handler, sender Sender, log *slog.Logger) (*UpdateProcessor, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}
	if sender == nil {
		return nil, fmt.Errorf("sender cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UpdateProcessor{
		handler: handler,
		sender:  sender,
		logger:  log.With(slog.String("component", "telegram_updates")),
	}, nil
}

// Process handles one message and delivers the reply. A reply is sent even
// when the handler also reports an error, since it carries the apology.
func (p *UpdateProcessor) Process(ctx context.Context, in Incoming) error {
	log := logger.FromContextOrDefault(ctx, p.logger).With(
		slog.Int("update_id", in.UpdateID),
		slog.Int64("chat_id", in.ChatID))
	ctx = logger.WithLogger(ctx, log)

	reply, handleErr := p.handler.Handle(ctx, in.ChatID, in.UserName, in.Text)
	if handleErr != nil {
		log.Error("bot failed to handle update", slog.String("error", redact.Error(handleErr)))
	}

	if strings.TrimSpace(reply.Text) != "" {
		if err := p.sender.Send(ctx, in.ChatID, reply.Text); err != nil {
			return err
		}
	}

	log.Debug("telegram update processed",
		slog.String("mode", string(reply.Mode)),
		slog.Int("step", reply.Step))
	return handleErr
}

// Task wraps Process for the worker pool. It reports false for updates that
// carry nothing to answer.
func (p *UpdateProcessor) Task(u tele.Update) (task.Task, bool) {
	in, ok := FromUpdate(u)
	if !ok {
		return nil, false
	}
	return task.NewFuncTask(task.TaskTypeTelegramUpdate, func(ctx context.Context) error {
		return p.Process(ctx, in)
	}), true
}
