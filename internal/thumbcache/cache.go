// Package thumbcache keeps one preview image per document on local disk so
// repeat analyses never refetch from the document repository.
package thumbcache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Fetcher supplies thumbnail bytes on a cache miss.
type Fetcher interface {
	FetchThumbnail(ctx context.Context, documentID int) ([]byte, error)
}

type Cache struct {
	dir     string
	fetcher Fetcher
	logger  *slog.Logger
}

func New(dir string, fetcher Fetcher, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{dir: dir, fetcher: fetcher, logger: logger}
}

// Path returns the cache file for a document ID.
func (c *Cache) Path(documentID int) string {
	return filepath.Join(c.dir, fmt.Sprintf("document-%d.png", documentID))
}

// EnsureThumbnail makes sure the thumbnail for documentID exists on disk,
// fetching it on a miss. Concurrent misses for the same ID may double-write;
// the overwrite is idempotent so no locking is taken.
func (c *Cache) EnsureThumbnail(ctx context.Context, documentID int) error {
	p := c.Path(documentID)
	if st, err := os.Stat(p); err == nil && st.Size() > 0 {
		return nil
	}

	b, err := c.fetcher.FetchThumbnail(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch thumbnail: %w", err)
	}
	if len(b) == 0 {
		c.logger.Debug("thumbcache.empty_response", "doc_id", documentID)
		return nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}

	c.logger.Info("thumbcache.stored", "doc_id", documentID, "bytes", len(b), "path", p)
	return nil
}
