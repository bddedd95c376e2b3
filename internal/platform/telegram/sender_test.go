package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:test-token"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBotAPI records sendMessage calls made against it.
type fakeBotAPI struct {
	mu     sync.Mutex
	texts  []string
	chats  []string
	status int
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/bot"+testToken+"/sendMessage") {
		http.NotFound(w, r)
		return
	}
	var params map[string]any
	_ = json.NewDecoder(r.Body).Decode(&params)

	f.mu.Lock()
	f.texts = append(f.texts, toString(params["text"]))
	f.chats = append(f.chats, toString(params["chat_id"]))
	status := f.status
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
		return
	}
	_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"chat":{"id":42,"type":"private"},"text":"ok"}}`)
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func newTestSender(t *testing.T, api *fakeBotAPI) *BotSender {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	s, err := NewBotSender(testToken, testLogger(), WithAPIURL(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return s
}

func TestNewBotSender_RequiresToken(t *testing.T) {
	_, err := NewBotSender("  ", testLogger())
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestBotSender_Send(t *testing.T) {
	api := &fakeBotAPI{}
	s := newTestSender(t, api)

	require.NoError(t, s.Send(context.Background(), 42, "hello there"))

	require.Equal(t, []string{"hello there"}, api.texts)
	assert.Equal(t, []string{"42"}, api.chats)
}

func TestBotSender_SendSplitsLongText(t *testing.T) {
	api := &fakeBotAPI{}
	s := newTestSender(t, api)

	long := strings.Repeat("a", MaxMessageLength) + "\n" + "tail"
	require.NoError(t, s.Send(context.Background(), 42, long))

	require.Len(t, api.texts, 2)
	assert.Equal(t, "tail", api.texts[1])
}

func TestBotSender_SendAPIError(t *testing.T) {
	api := &fakeBotAPI{status: http.StatusBadRequest}
	s := newTestSender(t, api)

	err := s.Send(context.Background(), 42, "hello")

	require.Error(t, err)
	assert.NotContains(t, err.Error(), testToken)
}

func TestBotSender_SendCancelledContext(t *testing.T) {
	api := &fakeBotAPI{}
	s := newTestSender(t, api)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Send(ctx, 42, "hello"), context.Canceled)
	assert.Empty(t, api.texts)
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "blank", text: "   ", limit: 10, want: nil},
		{name: "fits", text: "short", limit: 10, want: []string{"short"}},
		{name: "hard cut", text: "abcdefghij", limit: 4, want: []string{"abcd", "efgh", "ij"}},
		{name: "prefers newline", text: "abc\ndefgh", limit: 5, want: []string{"abc", "defgh"}},
		{name: "counts runes", text: "ééééé", limit: 5, want: []string{"ééééé"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitMessage(tt.text, tt.limit))
		})
	}
}
