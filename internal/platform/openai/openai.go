// Package openai adapts the OpenAI chat-completions API to llm.Completer.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/careerplus/careerplus-api/internal/config"
	"github.com/careerplus/careerplus-api/internal/llm"
	"github.com/careerplus/careerplus-api/internal/redact"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = goopenai.GPT4oMini

// ErrMissingAPIKey is returned by NewCompleter without an API key.
var ErrMissingAPIKey = errors.New("openai API key cannot be empty")

// Completer implements llm.Completer over go-openai.
type Completer struct {
	client      *goopenai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *slog.Logger
}

var _ llm.Completer = (*Completer)(nil)

// NewCompleter creates a Completer. OpenAIBaseURL points it at any
// OpenAI-compatible endpoint.
func NewCompleter(cfg config.LLMConfig, logger *slog.Logger) (*Completer, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientCfg := goopenai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Completer{
		client:      goopenai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger.With("component", "openai_completer", "model", model),
	}, nil
}

func toMessages(system string, history []llm.Message) []goopenai.ChatCompletionMessage {
	msgs := make([]goopenai.ChatCompletionMessage, 0, len(history)+1)
	if system != "" {
		msgs = append(msgs, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range history {
		role := goopenai.ChatMessageRoleUser
		if m.Role == llm.RoleAssistant {
			role = goopenai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, goopenai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return msgs
}

// Complete implements llm.Completer.
func (c *Completer) Complete(ctx context.Context, system string, history []llm.Message) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toMessages(system, history),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "chat completion failed", "error", redact.Error(err))
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", llm.ErrEmptyCompletion
	}

	choice := resp.Choices[0]
	if choice.FinishReason == goopenai.FinishReasonContentFilter {
		return "", llm.ErrContentBlocked
	}
	text := strings.TrimSpace(choice.Message.Content)
	if text == "" {
		return "", llm.ErrEmptyCompletion
	}

	c.logger.DebugContext(ctx, "chat completion succeeded",
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)
	return text, nil
}
