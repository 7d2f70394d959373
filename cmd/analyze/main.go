// Command analyze runs a single document through the analyzer and prints the
// resulting JSON record to stdout. Document text comes from the file named as
// the first argument, or stdin when no argument is given.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/papersift/papersift/internal/common"
	"github.com/papersift/papersift/internal/dms"
	"github.com/papersift/papersift/internal/llm"
	"github.com/papersift/papersift/internal/llm/ollama"
	"github.com/papersift/papersift/internal/thumbcache"
)

func main() {
	// Logs to stderr; stdout carries only the JSON record.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	content, err := readContent()
	if err != nil {
		logger.Error("read document", "error", err)
		os.Exit(1)
	}

	docID := 0
	if v := os.Getenv("DOCUMENT_ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			docID = n
		}
	}

	var thumbs ollama.Thumbnailer
	var knownTags, knownCorrs []string
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Ollama.Timeout)
	defer cancel()

	if cfg.DMS.BaseURL != "" {
		repo := dms.NewClient(cfg.DMS.BaseURL, cfg.DMS.Token, cfg.DMS.Timeout, logger)
		thumbs = thumbcache.New(cfg.Cache.ThumbnailDir, repo, logger)

		if cfg.Prompt.UseExistingData {
			if tags, err := repo.ListTags(ctx); err == nil {
				for _, t := range tags {
					knownTags = append(knownTags, t.Name)
				}
			} else {
				logger.Warn("list tags", "error", err)
			}
			if corrs, err := repo.ListCorrespondents(ctx); err == nil {
				for _, c := range corrs {
					knownCorrs = append(knownCorrs, c.Name)
				}
			} else {
				logger.Warn("list correspondents", "error", err)
			}
		}
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

	res := analyzer.Analyze(ctx, llm.AnalyzeRequest{
		DocumentID:          docID,
		Content:             content,
		KnownTags:           knownTags,
		KnownCorrespondents: knownCorrs,
	})

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func readContent() (string, error) {
	if len(os.Args) > 1 {
		b, err := os.ReadFile(os.Args[1])
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
