package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one persisted analysis outcome, successful or degraded.
type Record struct {
	ID            uuid.UUID
	DocumentID    int
	Title         string
	Correspondent string
	Tags          []string
	DocumentDate  string
	Language      string
	Model         string
	ElapsedMS     int64
	Error         string
	CreatedAt     time.Time
}

// HistoryStore persists and lists analysis records.
type HistoryStore interface {
	SaveAnalysis(ctx context.Context, rec Record) error
	ListAnalyses(ctx context.Context, limit int) ([]Record, error)
	Close() error
}
