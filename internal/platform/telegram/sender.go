package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
	tele "gopkg.in/telebot.v4"
)

// MaxMessageLength is the Bot API limit for one text message, in characters.
const MaxMessageLength = 4096

// ErrNoToken is returned when a sender is built without a bot token.
var ErrNoToken = errors.New("telegram: bot token is required")

// Sender delivers text to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// SenderOption configures a BotSender.
type SenderOption func(*tele.Settings)

// WithAPIURL points the sender at a different Bot API server.
func WithAPIURL(url string) SenderOption {
	return func(s *tele.Settings) { s.URL = url }
}

// WithHTTPClient replaces the client built by BuildHTTPClient.
func WithHTTPClient(c *http.Client) SenderOption {
	return func(s *tele.Settings) { s.Client = c }
}

// BotSender sends messages with telebot. The bot runs offline: it never
// polls and never calls getMe, since updates come in through the webhook.
type BotSender struct {
	bot    *tele.Bot
	logger *slog.Logger
}

// NewBotSender creates a BotSender for token.
func NewBotSender(token string, log *slog.Logger, opts ...SenderOption) (*BotSender, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoToken
	}
	if log == nil {
		log = slog.Default()
	}

	settings := tele.Settings{
		Token:   token,
		Client:  BuildHTTPClient(),
		Offline: true,
	}
	for _, opt := range opts {
		opt(&settings)
	}

	bot, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %s", redact.Error(err))
	}

	return &BotSender{
		bot:    bot,
		logger: log.With(slog.String("component", "telegram_sender")),
	}, nil
}

var _ Sender = (*BotSender)(nil)

// Send implements Sender. Text longer than MaxMessageLength goes out as
// several messages, in order. It stops at the first failure.
func (s *BotSender) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i, part := range SplitMessage(text, MaxMessageLength) {
		if _, err := s.bot.Send(tele.ChatID(chatID), part); err != nil {
			log.Error("failed to send telegram message",
				slog.Int64("chat_id", chatID),
				slog.Int("part", i),
				slog.String("error", redact.Error(err)))
			return fmt.Errorf("telegram: send message: %s", redact.Error(err))
		}
	}
	return nil
}

// SplitMessage breaks text into chunks of at most limit runes, preferring to
// cut at the last newline inside each chunk. Blank text yields no chunks.
func SplitMessage(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > limit {
		runes = []rune(strings.TrimLeftFunc(string(runes), unicode.IsSpace))
		if len(runes) <= limit {
			break
		}
		cut := limit
		for i := limit - 1; i > limit/2; i-- {
			if runes[i] == '\n' {
				cut = i
				break
			}
		}
		if part := strings.TrimSpace(string(runes[:cut])); part != "" {
			parts = append(parts, part)
		}
		runes = runes[cut:]
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
