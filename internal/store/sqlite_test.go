package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "history.db"), nil)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

func TestSQLiteStore_SaveAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := Record{
		DocumentID:    7,
		Title:         "Electricity Bill",
		Correspondent: "City Power",
		Tags:          []string{"Utility", "Invoice"},
		DocumentDate:  "2024-03-02",
		Language:      "en",
		Model:         "llama3.1",
		ElapsedMS:     812,
		CreatedAt:     time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}
	second := Record{
		DocumentID: 8,
		Error:      "inference request failed: connection refused",
		Tags:       []string{},
		CreatedAt:  time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC),
	}
	if err := s.SaveAnalysis(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := s.SaveAnalysis(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	recs, err := s.ListAnalyses(ctx, 0)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	// Newest first.
	if recs[0].DocumentID != 8 || recs[1].DocumentID != 7 {
		t.Errorf("unexpected order: %d, %d", recs[0].DocumentID, recs[1].DocumentID)
	}
	if recs[0].Error == "" {
		t.Error("degraded record lost its error text")
	}
	if !reflect.DeepEqual(recs[1].Tags, []string{"Utility", "Invoice"}) {
		t.Errorf("tags did not round-trip: %v", recs[1].Tags)
	}
	if recs[1].Title != "Electricity Bill" || recs[1].Model != "llama3.1" || recs[1].ElapsedMS != 812 {
		t.Errorf("fields did not round-trip: %+v", recs[1])
	}
	if recs[1].ID == uuid.Nil {
		t.Error("expected a generated id")
	}
}

func TestSQLiteStore_ListLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := Record{
			DocumentID: i + 1,
			Tags:       []string{},
			CreatedAt:  time.Date(2024, 1, 1, i, 0, 0, 0, time.UTC),
		}
		if err := s.SaveAnalysis(ctx, rec); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	recs, err := s.ListAnalyses(ctx, 2)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].DocumentID != 5 {
		t.Errorf("expected newest record first, got document %d", recs[0].DocumentID)
	}
}

func TestSQLiteStore_EmptyList(t *testing.T) {
	s := openTestStore(t)
	recs, err := s.ListAnalyses(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListAnalyses: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no records, got %d", len(recs))
	}
}
