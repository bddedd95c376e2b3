package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/careerplus/careerplus-api/internal/config"
	"github.com/careerplus/careerplus-api/internal/llm"
	"github.com/careerplus/careerplus-api/internal/redact"
	"google.golang.org/genai"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "gemini-2.0-flash"

// contentGenerator is the slice of *genai.Models the completer uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiCompleter implements llm.Completer using the Gemini API.
type GeminiCompleter struct {
	// models issues the generateContent calls
	models contentGenerator

	// model is the name of the Gemini model to use
	model string

	temperature float32
	maxTokens   int32
	logger      *slog.Logger
}

var _ llm.Completer = (*GeminiCompleter)(nil)

// NewGeminiCompleter creates a GeminiCompleter for the Gemini API backend.
func NewGeminiCompleter(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiCompleter, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newGeminiCompleter(client.Models, logger, cfg), nil
}

func newGeminiCompleter(models contentGenerator, logger *slog.Logger, cfg config.LLMConfig) *GeminiCompleter {
	if logger == nil {
		logger = slog.Default()
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiCompleter{
		models:      models,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   int32(cfg.MaxTokens),
		logger:      logger.With("component", "gemini_completer", "model", model),
	}
}

// toContents maps history onto genai's user/model roles.
func toContents(history []llm.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

// Complete implements llm.Completer.
func (g *GeminiCompleter) Complete(ctx context.Context, system string, history []llm.Message) (string, error) {
	cfg := &genai.GenerateContentConfig{MaxOutputTokens: g.maxTokens}
	if g.temperature > 0 {
		temp := g.temperature
		cfg.Temperature = &temp
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.models.GenerateContent(ctx, g.model, toContents(history), cfg)
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call error", "error", redact.Error(err))
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return extractText(resp)
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", llm.ErrEmptyCompletion
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", llm.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", llm.ErrEmptyCompletion
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: safety filters", llm.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", llm.ErrEmptyCompletion
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", llm.ErrEmptyCompletion
	}
	return text, nil
}
