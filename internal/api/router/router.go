package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/chatprompt/internal/prompt"
	"github.com/wolfman30/chatprompt/pkg/logging"
)

// SessionInspector is the read-only view of a chat session exposed over HTTP.
type SessionInspector interface {
	ID() string
	Options() prompt.Options
	History() []prompt.HistoryItem
	TokenUsage() prompt.TokenUsage
}

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	MetricsHandler http.Handler
	Session        SessionInspector
}

type sessionStatus struct {
	SessionID    string            `json:"session_id"`
	HistoryItems int               `json:"history_items"`
	TokenUsage   prompt.TokenUsage `json:"token_usage"`
	Options      prompt.Options    `json:"options"`
}

// New creates the ops router: health, metrics and a session snapshot.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.Session != nil {
		r.Get("/session", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, sessionStatus{
				SessionID:    cfg.Session.ID(),
				HistoryItems: len(cfg.Session.History()),
				TokenUsage:   cfg.Session.TokenUsage(),
				Options:      cfg.Session.Options(),
			})
		})
	}
	return r
}

func requestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
