package ollama

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/papersift/papersift/internal/llm"
)

// Config for the Ollama client.
type Config struct {
	BaseURL    string        // default http://127.0.0.1:11434
	Model      string        // e.g. "llama3.1"
	Timeout    time.Duration // single long bound for the whole call
	NumCtx     int           // context window
	NumPredict int           // output length cap
	Prompt     llm.PromptConfig
}

// Thumbnailer caches a preview image for the document being analyzed.
type Thumbnailer interface {
	EnsureThumbnail(ctx context.Context, documentID int) error
}

type Client struct {
	cfg       Config
	http      *http.Client
	logger    *slog.Logger
	promptLog *llm.PromptLog
	thumbs    Thumbnailer
}

// NewClient builds an Ollama-backed analyzer. promptLog and thumbs may be
// nil; both side effects are then skipped.
func NewClient(cfg Config, thumbs Thumbnailer, promptLog *llm.PromptLog, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://127.0.0.1:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if cfg.NumCtx <= 0 {
		cfg.NumCtx = 8192
	}
	if cfg.NumPredict <= 0 {
		cfg.NumPredict = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
		promptLog: promptLog,
		thumbs:    thumbs,
	}
}
