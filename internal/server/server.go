// Package server exposes the analyzer over a small REST API.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/papersift/papersift/internal/common"
	"github.com/papersift/papersift/internal/export"
	"github.com/papersift/papersift/internal/llm"
	"github.com/papersift/papersift/internal/store"
)

type Server struct {
	analyzer llm.DocumentAnalyzer
	history  store.HistoryStore
	exporter *export.Service
	model    string
	logger   *slog.Logger
}

func New(analyzer llm.DocumentAnalyzer, history store.HistoryStore, exporter *export.Service, model string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		analyzer: analyzer,
		history:  history,
		exporter: exporter,
		model:    model,
		logger:   logger,
	}
}

// Routes builds the chi router with all endpoints mounted.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/history", s.handleHistory)
	r.Get("/api/history/export", s.handleExport)

	return r
}

// requestID tags every request with a UUID for log correlation.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r.WithContext(common.WithRequestID(r.Context(), rid)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func elapsedMS(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
