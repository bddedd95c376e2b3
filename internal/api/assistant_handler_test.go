package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/careerplus/careerplus-api/internal/assistant"
	"github.com/careerplus/careerplus-api/internal/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type fakeWeb struct {
	authenticated []bool
	contexts      []*assistant.ChatContext
}

func (f *fakeWeb) Chat(_ context.Context, message string, cc *assistant.ChatContext, authenticated bool) assistant.WebReply {
	f.authenticated = append(f.authenticated, authenticated)
	f.contexts = append(f.contexts, cc)
	return assistant.WebReply{Success: true, Response: "echo: " + message}
}

type fakeBot struct {
	reply assistant.BotReply
	err   error
	calls []int64
}

func (f *fakeBot) Handle(_ context.Context, chatID int64, _, _ string) (assistant.BotReply, error) {
	f.calls = append(f.calls, chatID)
	return f.reply, f.err
}

type fakeTasker struct{}

func (fakeTasker) Task(u tele.Update) (task.Task, bool) {
	if u.Message == nil || u.Message.Text == "" {
		return nil, false
	}
	return task.NewFuncTask("telegram_update", func(context.Context) error { return nil }), true
}

type recordingSubmitter struct {
	err       error
	submitted []task.Task
}

func (s *recordingSubmitter) Submit(t task.Task) error {
	if s.err != nil {
		return s.err
	}
	s.submitted = append(s.submitted, t)
	return nil
}

func textUpdate(id int, text string) map[string]interface{} {
	return map[string]interface{}{
		"update_id": id,
		"message": map[string]interface{}{
			"message_id": 1,
			"date":       1700000000,
			"chat":       map[string]interface{}{"id": 777, "type": "private"},
			"from":       map[string]interface{}{"id": 777, "first_name": "Ama"},
			"text":       text,
		},
	}
}

func TestAssistantHandler_Chat(t *testing.T) {
	web := &fakeWeb{}
	h := NewAssistantHandler(web, nil, testLogger())
	body := ChatRequest{Message: "find gigs", Context: &assistant.ChatContext{CurrentPage: "/gigs"}}

	anon := serve(t, h.Chat, testRequest{method: http.MethodPost, path: "/api/ai/chat", body: body})
	require.Equal(t, http.StatusOK, anon.Code)
	resp := decodeBody[assistant.WebReply](t, anon)
	assert.True(t, resp.Success)
	assert.Equal(t, "echo: find gigs", resp.Response)

	signedIn := serve(t, h.Chat, testRequest{method: http.MethodPost, path: "/api/ai/chat", body: body, userID: uuid.New()})
	require.Equal(t, http.StatusOK, signedIn.Code)

	assert.Equal(t, []bool{false, true}, web.authenticated)
	require.NotNil(t, web.contexts[1])
	assert.Equal(t, "/gigs", web.contexts[1].CurrentPage)

	empty := serve(t, h.Chat, testRequest{method: http.MethodPost, path: "/api/ai/chat", body: ChatRequest{}})
	assert.Equal(t, http.StatusBadRequest, empty.Code)
}

func TestAssistantHandler_TelegramChat(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		h := NewAssistantHandler(&fakeWeb{}, nil, testLogger())
		rec := serve(t, h.TelegramChat, testRequest{
			method: http.MethodPost,
			path:   "/api/telegram/chat",
			body:   TelegramChatRequest{ChatID: 1, Message: "hi"},
		})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("returns bot reply", func(t *testing.T) {
		bot := &fakeBot{reply: assistant.BotReply{Success: true, Text: "What is the gig title?", Mode: assistant.ModePostGig, Step: 1}}
		h := NewAssistantHandler(&fakeWeb{}, bot, testLogger())

		rec := serve(t, h.TelegramChat, testRequest{
			method: http.MethodPost,
			path:   "/api/telegram/chat",
			body:   TelegramChatRequest{ChatID: 42, Message: "post a gig", UserName: "Ama"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"response":"What is the gig title?","mode":"post_gig","step":1}`, rec.Body.String())
		assert.Equal(t, []int64{42}, bot.calls)
	})

	t.Run("failed turn still answers", func(t *testing.T) {
		bot := &fakeBot{reply: assistant.BotReply{Success: false, Text: "Sorry"}, err: errors.New("session store down")}
		h := NewAssistantHandler(&fakeWeb{}, bot, testLogger())

		rec := serve(t, h.TelegramChat, testRequest{
			method: http.MethodPost,
			path:   "/api/telegram/chat",
			body:   TelegramChatRequest{ChatID: 42, Message: "hello"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[assistant.BotReply](t, rec)
		assert.False(t, resp.Success)
		assert.NotContains(t, rec.Body.String(), "session store down")
	})

	t.Run("secret required when configured", func(t *testing.T) {
		bot := &fakeBot{reply: assistant.BotReply{Success: true, Text: "ok"}}
		h := NewAssistantHandler(&fakeWeb{}, bot, testLogger(), WithChatSecret("s3cret"))
		chat := func(headers map[string]string) testRequest {
			return testRequest{
				method:  http.MethodPost,
				path:    "/api/telegram/chat",
				body:    TelegramChatRequest{ChatID: 1001, Message: "register as freelancer"},
				headers: headers,
			}
		}

		missing := serve(t, h.TelegramChat, chat(nil))
		assert.Equal(t, http.StatusUnauthorized, missing.Code)
		assert.Equal(t, "Invalid secret token", errorDetail(t, missing))

		wrong := serve(t, h.TelegramChat, chat(map[string]string{TelegramSecretHeader: "guess"}))
		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Empty(t, bot.calls, "bot must not act for an unauthenticated caller")

		right := serve(t, h.TelegramChat, chat(map[string]string{TelegramSecretHeader: "s3cret"}))
		assert.Equal(t, http.StatusOK, right.Code)
		assert.Equal(t, []int64{1001}, bot.calls)
	})

	t.Run("chat id required", func(t *testing.T) {
		h := NewAssistantHandler(&fakeWeb{}, &fakeBot{}, testLogger())
		rec := serve(t, h.TelegramChat, testRequest{
			method: http.MethodPost,
			path:   "/api/telegram/chat",
			body:   TelegramChatRequest{Message: "hello"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAssistantHandler_TelegramWebhook(t *testing.T) {
	webhook := func(body interface{}, headers map[string]string) testRequest {
		return testRequest{method: http.MethodPost, path: "/api/telegram/webhook", body: body, headers: headers}
	}

	t.Run("not configured", func(t *testing.T) {
		h := NewAssistantHandler(&fakeWeb{}, nil, testLogger())
		rec := serve(t, h.TelegramWebhook, webhook(textUpdate(1, "hi"), nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("queues text updates", func(t *testing.T) {
		runner := &recordingSubmitter{}
		h := NewAssistantHandler(&fakeWeb{}, nil, testLogger(), WithTelegramWebhook(fakeTasker{}, runner, ""))

		rec := serve(t, h.TelegramWebhook, webhook(textUpdate(1, "hi"), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, runner.submitted, 1)
	})

	t.Run("acknowledges updates without text", func(t *testing.T) {
		runner := &recordingSubmitter{}
		h := NewAssistantHandler(&fakeWeb{}, nil, testLogger(), WithTelegramWebhook(fakeTasker{}, runner, ""))

		rec := serve(t, h.TelegramWebhook, webhook(map[string]interface{}{"update_id": 2}, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, runner.submitted)
	})

	t.Run("rejects bad secret", func(t *testing.T) {
		runner := &recordingSubmitter{}
		h := NewAssistantHandler(&fakeWeb{}, nil, testLogger(), WithTelegramWebhook(fakeTasker{}, runner, "s3cret"))

		missing := serve(t, h.TelegramWebhook, webhook(textUpdate(3, "hi"), nil))
		wrong := serve(t, h.TelegramWebhook, webhook(textUpdate(3, "hi"), map[string]string{TelegramSecretHeader: "guess"}))
		right := serve(t, h.TelegramWebhook, webhook(textUpdate(3, "hi"), map[string]string{TelegramSecretHeader: "s3cret"}))

		assert.Equal(t, http.StatusUnauthorized, missing.Code)
		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusOK, right.Code)
		assert.Len(t, runner.submitted, 1)
	})

	t.Run("malformed update", func(t *testing.T) {
		h := NewAssistantHandler(&fakeWeb{}, nil, testLogger(), WithTelegramWebhook(fakeTasker{}, &recordingSubmitter{}, ""))
		rec := serve(t, h.TelegramWebhook, webhook(`{"update_id":`, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("full queue asks for redelivery", func(t *testing.T) {
		// Not started, so nothing drains the single slot.
		runner := task.NewTaskRunner(task.TaskRunnerConfig{WorkerCount: 1, QueueSize: 1}, testLogger())
		h := NewAssistantHandler(&fakeWeb{}, nil, testLogger(), WithTelegramWebhook(fakeTasker{}, runner, ""))

		first := serve(t, h.TelegramWebhook, webhook(textUpdate(4, "one"), nil))
		second := serve(t, h.TelegramWebhook, webhook(textUpdate(5, "two"), nil))

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusServiceUnavailable, second.Code)
		assert.Equal(t, 1, runner.Pending())
	})

	t.Run("closed queue", func(t *testing.T) {
		runner := &recordingSubmitter{err: task.ErrQueueClosed}
		h := NewAssistantHandler(&fakeWeb{}, nil, testLogger(), WithTelegramWebhook(fakeTasker{}, runner, ""))
		rec := serve(t, h.TelegramWebhook, webhook(textUpdate(6, "hi"), nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
