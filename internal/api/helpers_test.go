package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/careerplus/careerplus-api/internal/api/shared"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testRequest describes one call routed through chi so path parameters resolve.
type testRequest struct {
	method  string
	pattern string
	path    string
	body    interface{}
	userID  uuid.UUID
	headers map[string]string
}

func serve(t *testing.T, h http.HandlerFunc, tr testRequest) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader = http.NoBody
	switch b := tr.body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	pattern := tr.pattern
	if pattern == "" {
		pattern = tr.path
	}
	router := chi.NewRouter()
	router.MethodFunc(tr.method, pattern, h)

	req := httptest.NewRequest(tr.method, tr.path, body)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range tr.headers {
		req.Header.Set(k, v)
	}
	if tr.userID != uuid.Nil {
		req = req.WithContext(shared.WithIdentity(req.Context(), tr.userID, "user@example.com"))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func errorDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeBody[shared.ErrorResponse](t, rec)
	return resp.Detail
}
