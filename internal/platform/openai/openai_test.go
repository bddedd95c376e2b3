package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/careerplus/careerplus-api/internal/config"
	"github.com/careerplus/careerplus-api/internal/llm"
	"github.com/careerplus/careerplus-api/internal/platform/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens int `json:"max_tokens"`
}

func newServer(t *testing.T, reply string, got *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleter_Complete(t *testing.T) {
	var got chatRequest
	srv := newServer(t, `{"choices":[{"index":0,"message":{"role":"assistant","content":" Hello! "},"finish_reason":"stop"}]}`, &got)

	c, err := openai.NewCompleter(config.LLMConfig{
		OpenAIAPIKey:  "sk-test",
		OpenAIBaseURL: srv.URL + "/",
		MaxTokens:     500,
	}, nil)
	require.NoError(t, err)

	text, err := c.Complete(context.Background(), "be helpful", []llm.Message{
		{Role: llm.RoleUser, Content: "hi"},
		{Role: llm.RoleAssistant, Content: "hello"},
		{Role: llm.RoleUser, Content: "find gigs"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello!", text)
	assert.Equal(t, openai.DefaultModel, got.Model)
	assert.Equal(t, 500, got.MaxTokens)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
	assert.Equal(t, "find gigs", got.Messages[3].Content)
}

func TestCompleter_EmptyAndBlocked(t *testing.T) {
	var got chatRequest
	srv := newServer(t, `{"choices":[]}`, &got)
	c, err := openai.NewCompleter(config.LLMConfig{OpenAIAPIKey: "sk-test", OpenAIBaseURL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "", []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, llm.ErrEmptyCompletion)

	srv2 := newServer(t, `{"choices":[{"message":{"role":"assistant","content":""},"finish_reason":"content_filter"}]}`, &got)
	c2, err := openai.NewCompleter(config.LLMConfig{OpenAIAPIKey: "sk-test", OpenAIBaseURL: srv2.URL}, nil)
	require.NoError(t, err)

	_, err = c2.Complete(context.Background(), "", []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	assert.ErrorIs(t, err, llm.ErrContentBlocked)
}

func TestCompleter_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	t.Cleanup(srv.Close)

	c, err := openai.NewCompleter(config.LLMConfig{OpenAIAPIKey: "sk-test", OpenAIBaseURL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), "", []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	assert.Error(t, err)
}

func TestNewCompleter_RequiresKey(t *testing.T) {
	_, err := openai.NewCompleter(config.LLMConfig{}, nil)
	assert.ErrorIs(t, err, openai.ErrMissingAPIKey)
}
