// Package dms is a minimal client for a paperless-ngx style document
// management API: thumbnail bytes per document, plus the tag and
// correspondent vocabularies used to steer analysis.
package dms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// NamedResource is a tag or correspondent entry.
type NamedResource struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type listEnvelope struct {
	Count   int             `json:"count"`
	Next    *string         `json:"next"`
	Results []NamedResource `json:"results"`
}

// FetchThumbnail returns the raw preview image bytes for a document. An
// empty body with a 2xx status yields an empty slice, not an error.
func (c *Client) FetchThumbnail(ctx context.Context, documentID int) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("%s/api/documents/%d/thumb/", c.baseURL, documentID))
}

// ListTags returns every tag, following pagination.
func (c *Client) ListTags(ctx context.Context) ([]NamedResource, error) {
	return c.listAll(ctx, c.baseURL+"/api/tags/")
}

// ListCorrespondents returns every correspondent, following pagination.
func (c *Client) ListCorrespondents(ctx context.Context) ([]NamedResource, error) {
	return c.listAll(ctx, c.baseURL+"/api/correspondents/")
}

func (c *Client) listAll(ctx context.Context, url string) ([]NamedResource, error) {
	var out []NamedResource
	for url != "" {
		raw, err := c.get(ctx, url)
		if err != nil {
			return nil, err
		}
		var page listEnvelope
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, fmt.Errorf("decode list page: %w", err)
		}
		out = append(out, page.Results...)
		if page.Next == nil {
			break
		}
		url = *page.Next
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dms request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("dms.body_close_error", "url", url, "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("dms.response",
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("dms status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
