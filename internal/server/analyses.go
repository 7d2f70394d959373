package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/papersift/papersift/internal/common"
	"github.com/papersift/papersift/internal/llm"
	"github.com/papersift/papersift/internal/store"
)

// analyzeRequest is the wire shape for POST /api/analyze. Tags and
// correspondents accept either bare strings or objects with a "name" field.
type analyzeRequest struct {
	DocumentID     int    `json:"document_id"`
	Content        string `json:"content"`
	Tags           any    `json:"tags"`
	Correspondents any    `json:"correspondents"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rid := common.RequestIDFromContext(r.Context())

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	res := s.analyzer.Analyze(r.Context(), llm.AnalyzeRequest{
		DocumentID:          req.DocumentID,
		Content:             req.Content,
		KnownTags:           llm.CoerceNames(req.Tags),
		KnownCorrespondents: llm.CoerceNames(req.Correspondents),
	})

	if s.history != nil {
		rec := store.Record{
			DocumentID:    req.DocumentID,
			Title:         res.Title,
			Correspondent: res.Correspondent,
			Tags:          res.Tags,
			DocumentDate:  res.DocumentDate,
			Language:      res.Language,
			Model:         s.model,
			ElapsedMS:     elapsedMS(start),
			Error:         res.Error,
		}
		if err := s.history.SaveAnalysis(r.Context(), rec); err != nil {
			s.logger.Warn("server.analyze.save_error", "req_id", rid, "doc_id", req.DocumentID, "error", err)
		}
	}

	s.logger.Info("server.analyze.done",
		"req_id", rid,
		"doc_id", req.DocumentID,
		"tags", len(res.Tags),
		"degraded", res.Error != "",
		"elapsed_ms", elapsedMS(start),
	)
	writeJSON(w, http.StatusOK, res)
}

type historyEntry struct {
	ID            string   `json:"id"`
	DocumentID    int      `json:"document_id"`
	Title         string   `json:"title,omitempty"`
	Correspondent string   `json:"correspondent,omitempty"`
	Tags          []string `json:"tags"`
	DocumentDate  string   `json:"document_date,omitempty"`
	Language      string   `json:"language,omitempty"`
	Model         string   `json:"model,omitempty"`
	ElapsedMS     int64    `json:"elapsed_ms"`
	Error         string   `json:"error,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	recs, err := s.history.ListAnalyses(r.Context(), limit)
	if err != nil {
		s.logger.Error("server.history.list_error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}

	out := make([]historyEntry, 0, len(recs))
	for _, rec := range recs {
		tags := rec.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, historyEntry{
			ID:            rec.ID.String(),
			DocumentID:    rec.DocumentID,
			Title:         rec.Title,
			Correspondent: rec.Correspondent,
			Tags:          tags,
			DocumentDate:  rec.DocumentDate,
			Language:      rec.Language,
			Model:         rec.Model,
			ElapsedMS:     rec.ElapsedMS,
			Error:         rec.Error,
			CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	limit := 0 // store default
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	data, err := s.exporter.ExportHistoryXLSX(r.Context(), limit)
	if err != nil {
		s.logger.Error("server.export.error", "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="analyses.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
