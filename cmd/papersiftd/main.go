package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/papersift/papersift/internal/common"
	"github.com/papersift/papersift/internal/dms"
	"github.com/papersift/papersift/internal/export"
	"github.com/papersift/papersift/internal/llm"
	"github.com/papersift/papersift/internal/llm/ollama"
	"github.com/papersift/papersift/internal/server"
	"github.com/papersift/papersift/internal/store"
	"github.com/papersift/papersift/internal/thumbcache"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	history, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open history store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := history.Close(); err != nil {
			logger.Error("close history store", "error", err)
		}
	}()

	// Thumbnail caching needs the document repository; without DMS_URL the
	// analyzer runs without that side effect.
	var thumbs ollama.Thumbnailer
	if cfg.DMS.BaseURL != "" {
		repo := dms.NewClient(cfg.DMS.BaseURL, cfg.DMS.Token, cfg.DMS.Timeout, logger)
		thumbs = thumbcache.New(cfg.Cache.ThumbnailDir, repo, logger)
	} else {
		logger.Warn("DMS_URL not set; thumbnail caching disabled")
	}

	promptLog := llm.NewPromptLog(cfg.Cache.PromptLogPath, cfg.Cache.PromptLogMaxBytes, logger)

	analyzer := ollama.NewClient(ollama.Config{
		BaseURL:    cfg.Ollama.BaseURL,
		Model:      cfg.Ollama.Model,
		Timeout:    cfg.Ollama.Timeout,
		NumCtx:     cfg.Ollama.NumCtx,
		NumPredict: cfg.Ollama.NumPredict,
		Prompt: llm.PromptConfig{
			UsePredefinedTags: cfg.Prompt.UsePredefinedTags,
			PredefinedTags:    cfg.Prompt.PredefinedTags,
			UseExistingData:   cfg.Prompt.UseExistingData,
			SystemPrompt:      cfg.Prompt.SystemPrompt,
		},
	}, thumbs, promptLog, logger)

	exporter := export.NewService(history, logger)
	srv := server.New(analyzer, history, exporter, cfg.Ollama.Model, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.Server.HTTPAddr, "model", cfg.Ollama.Model)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}

func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (store.HistoryStore, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return store.OpenPostgres(ctx, cfg.Storage.PostgresDSN, logger)
	default:
		return store.OpenSQLite(ctx, cfg.Storage.SQLitePath, logger)
	}
}
