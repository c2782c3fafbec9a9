package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/chatprompt/internal/llm"
	"github.com/wolfman30/chatprompt/internal/observability/metrics"
	"github.com/wolfman30/chatprompt/internal/prompt"
	"github.com/wolfman30/chatprompt/pkg/logging"
)

func TestHealth(t *testing.T) {
	h := New(&Config{Logger: logging.Discard()})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsAndSessionRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	client := llm.ClientFunc(func(context.Context, string) (llm.Completion, error) {
		return llm.Completion{Text: "pong", Usage: &llm.TokenUsage{InputTokens: 3, OutputTokens: 1, TotalTokens: 4}}, nil
	})
	s, err := prompt.NewSession(client,
		prompt.WithLogger(logging.Discard()),
		prompt.WithMetrics(metrics.NewChatMetrics(reg)),
	)
	require.NoError(t, err)
	_, err = s.SubmitPrompt(context.Background(), "ping")
	require.NoError(t, err)

	h := New(&Config{
		Logger:         logging.Discard(),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Session:        s,
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `chatprompt_session_turns_total{status="ok"} 1`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status sessionStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, s.ID(), status.SessionID)
	assert.Equal(t, 1, status.HistoryItems)
	assert.Equal(t, prompt.TokenUsage{InputTokens: 3, OutputTokens: 1, TotalTokens: 4}, status.TokenUsage)
	assert.Equal(t, prompt.DefaultOptions(), status.Options)
}

func TestOptionalRoutesAbsent(t *testing.T) {
	h := New(&Config{})
	for _, path := range []string{"/metrics", "/session"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
