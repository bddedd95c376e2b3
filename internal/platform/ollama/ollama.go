// Package ollama adapts a self-hosted Ollama server to llm.Completer.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/careerplus/careerplus-api/internal/config"
	"github.com/careerplus/careerplus-api/internal/llm"
	"github.com/careerplus/careerplus-api/internal/redact"
	"github.com/ollama/ollama/api"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "llama3.2"

// ErrMissingURL is returned by NewCompleter without a server URL.
var ErrMissingURL = errors.New("ollama url cannot be empty")

// Completer implements llm.Completer over the Ollama chat endpoint.
type Completer struct {
	api         *api.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *slog.Logger
}

var _ llm.Completer = (*Completer)(nil)

// NewCompleter creates a Completer. httpClient may be nil.
func NewCompleter(cfg config.LLMConfig, httpClient *http.Client, logger *slog.Logger) (*Completer, error) {
	if cfg.OllamaURL == "" {
		return nil, ErrMissingURL
	}
	u, err := url.ParseRequestURI(cfg.OllamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Completer{
		api:         api.NewClient(u, httpClient),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger.With("component", "ollama_completer", "model", model),
	}, nil
}

// Complete implements llm.Completer.
func (c *Completer) Complete(ctx context.Context, system string, history []llm.Message) (string, error) {
	msgs := make([]api.Message, 0, len(history)+1)
	if system != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: system})
	}
	for _, m := range history {
		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "assistant"
		}
		msgs = append(msgs, api.Message{Role: role, Content: m.Content})
	}

	stream := false
	options := map[string]any{}
	if c.temperature > 0 {
		options["temperature"] = c.temperature
	}
	if c.maxTokens > 0 {
		options["num_predict"] = c.maxTokens
	}

	var out strings.Builder
	err := c.api.Chat(ctx, &api.ChatRequest{
		Model:    c.model,
		Messages: msgs,
		Stream:   &stream,
		Options:  options,
	}, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "chat request failed", "error", redact.Error(err))
		return "", fmt.Errorf("ollama chat: %w", err)
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", llm.ErrEmptyCompletion
	}
	return text, nil
}
