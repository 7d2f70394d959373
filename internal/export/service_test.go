package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/papersift/papersift/internal/store"
)

type fakeHistory struct {
	recs []store.Record
	err  error
}

func (f *fakeHistory) SaveAnalysis(context.Context, store.Record) error { return nil }
func (f *fakeHistory) ListAnalyses(context.Context, int) ([]store.Record, error) {
	return f.recs, f.err
}
func (f *fakeHistory) Close() error { return nil }

func TestExportHistoryXLSX(t *testing.T) {
	history := &fakeHistory{recs: []store.Record{
		{
			DocumentID:    7,
			Title:         "Electricity Bill",
			Correspondent: "City Power",
			Tags:          []string{"Utility", "Invoice"},
			DocumentDate:  "2024-03-02",
			Language:      "en",
			Model:         "llama3.1",
			ElapsedMS:     812,
			CreatedAt:     time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC),
		},
	}}
	svc := NewService(history, nil)

	data, err := svc.ExportHistoryXLSX(context.Background(), 0)
	if err != nil {
		t.Fatalf("ExportHistoryXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	const sheet = "Analyses"
	check := func(cell, want string) {
		t.Helper()
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("get %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("cell %s = %q, want %q", cell, got, want)
		}
	}

	check("A1", "Analyzed At")
	check("E1", "Tags")
	check("B2", "7")
	check("C2", "Electricity Bill")
	check("D2", "City Power")
	check("E2", "Utility, Invoice")
	check("F2", "2024-03-02")
	check("H2", "llama3.1")
}

func TestExportHistoryXLSX_StoreError(t *testing.T) {
	svc := NewService(&fakeHistory{err: errors.New("db down")}, nil)
	if _, err := svc.ExportHistoryXLSX(context.Background(), 0); err == nil {
		t.Error("expected store error to propagate")
	}
}

func TestExportHistoryXLSX_EmptyHistory(t *testing.T) {
	svc := NewService(&fakeHistory{}, nil)
	data, err := svc.ExportHistoryXLSX(context.Background(), 0)
	if err != nil {
		t.Fatalf("ExportHistoryXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue("Analyses", "A1"); got != "Analyzed At" {
		t.Errorf("header missing in empty export: %q", got)
	}
}
