package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/papersift/papersift/internal/store"
)

// Service turns history records into XLSX bytes.
type Service struct {
	history store.HistoryStore
	logger  *slog.Logger
}

func NewService(history store.HistoryStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{history: history, logger: logger}
}

// ExportHistoryXLSX returns an XLSX workbook (as bytes) with the most recent
// analysis records, newest first.
func (s *Service) ExportHistoryXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	recs, err := s.history.ListAnalyses(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Analyses"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Analyzed At",
		"Document ID",
		"Title",
		"Correspondent",
		"Tags",
		"Document Date",
		"Language",
		"Model",
		"Elapsed (ms)",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.CreatedAt.Format("2006-01-02 15:04:05"))
		write(2, r.DocumentID)
		write(3, r.Title)
		write(4, r.Correspondent)
		write(5, strings.Join(r.Tags, ", "))
		write(6, r.DocumentDate)
		write(7, r.Language)
		write(8, r.Model)
		write(9, r.ElapsedMS)
		write(10, r.Error)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 20) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 12) // document id
	_ = f.SetColWidth(sheet, "C", "C", 40) // title
	_ = f.SetColWidth(sheet, "D", "D", 24) // correspondent
	_ = f.SetColWidth(sheet, "E", "E", 36) // tags
	_ = f.SetColWidth(sheet, "F", "H", 14)
	_ = f.SetColWidth(sheet, "J", "J", 48) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
