// Command export-history writes the analysis history as an XLSX workbook.
// Usage: export-history <output.xlsx> [limit]
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/papersift/papersift/internal/common"
	"github.com/papersift/papersift/internal/export"
	"github.com/papersift/papersift/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: export-history <output.xlsx> [limit]")
		os.Exit(2)
	}
	outPath := os.Args[1]
	limit := 0
	if len(os.Args) >= 3 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
			limit = n
		}
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var history store.HistoryStore
	var err error
	switch cfg.Storage.Driver {
	case "postgres":
		history, err = store.OpenPostgres(ctx, cfg.Storage.PostgresDSN, logger)
	default:
		history, err = store.OpenSQLite(ctx, cfg.Storage.SQLitePath, logger)
	}
	if err != nil {
		logger.Error("open history store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := history.Close(); err != nil {
			logger.Error("close history store", "error", err)
		}
	}()

	svc := export.NewService(history, logger)
	data, err := svc.ExportHistoryXLSX(ctx, limit)
	if err != nil {
		logger.Error("export history", "error", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		logger.Error("write workbook", "path", outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("export.done", "path", outPath, "bytes", len(data))
}
