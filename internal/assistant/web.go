package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/careerplus/careerplus-api/internal/llm"
	"github.com/careerplus/careerplus-api/internal/platform/logger"
	"github.com/careerplus/careerplus-api/internal/redact"
)

// WebHistoryLimit bounds the client-supplied conversation history.
const WebHistoryLimit = 30

// ChatContext is the optional page context sent by the web client.
type ChatContext struct {
	CurrentPage         string        `json:"current_page"`
	GigID               string        `json:"gig_id"`
	ConversationHistory []HistoryTurn `json:"conversation_history"`
}

// HistoryTurn is one client-side chat turn. Role is free-form.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// WebReply is the web channel's answer. Action is only a proposal; nothing
// is executed on the user's behalf.
type WebReply struct {
	Success  bool    `json:"success"`
	Response string  `json:"response"`
	Action   *Action `json:"action"`
}

// WebAssistant relays web chat to the completer.
type WebAssistant struct {
	catalog   *Catalog
	completer llm.Completer
	logger    *slog.Logger
}

// NewWebAssistant creates a WebAssistant.
func NewWebAssistant(catalog *Catalog, completer llm.Completer, logger *slog.Logger) (*WebAssistant, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if completer == nil {
		return nil, fmt.Errorf("completer cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebAssistant{
		catalog:   catalog,
		completer: completer,
		logger:    logger.With(slog.String("component", "web_assistant")),
	}, nil
}

// Chat answers message. Page context reaches the prompt only for
// authenticated callers. A completion failure yields the apology with
// Success false.
func (w *WebAssistant) Chat(ctx context.Context, message string, cc *ChatContext, authenticated bool) WebReply {
	system := w.catalog.WebPrompt
	history := []llm.Message{}
	if cc != nil {
		if authenticated {
			system += pageContext(cc)
		}
		for _, t := range llm.Tail(cc.ConversationHistory, WebHistoryLimit) {
			if strings.TrimSpace(t.Content) == "" {
				continue
			}
			history = append(history, llm.Message{Role: llm.NormalizeRole(t.Role), Content: t.Content})
		}
	}
	history = append(history, llm.Message{Role: llm.RoleUser, Content: message})

	out, err := w.completer.Complete(ctx, system, history)
	if err != nil {
		logger.FromContextOrDefault(ctx, w.logger).Error("web chat completion failed",
			slog.String("error", redact.Error(err)))
		return WebReply{Response: w.catalog.Messages.Apology}
	}

	parsed := ParseWebReply(out)
	return WebReply{Success: true, Response: parsed.Text, Action: parsed.Action}
}

func pageContext(cc *ChatContext) string {
	var sb strings.Builder
	if cc.CurrentPage != "" {
		sb.WriteString("\nUser is on: " + cc.CurrentPage)
	}
	if cc.GigID != "" {
		sb.WriteString("\nViewing gig: " + cc.GigID)
	}
	return sb.String()
}
