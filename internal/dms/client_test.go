package dms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchThumbnail(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second, nil)
	b, err := c.FetchThumbnail(context.Background(), 12)
	if err != nil {
		t.Fatalf("FetchThumbnail: %v", err)
	}
	if string(b) != "png-bytes" {
		t.Errorf("unexpected body: %q", b)
	}
	if gotPath != "/api/documents/12/thumb/" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Token secret" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
}

func TestFetchThumbnail_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such document", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second, nil)
	if _, err := c.FetchThumbnail(context.Background(), 99); err == nil {
		t.Error("expected error for 404")
	}
}

func TestListTags_FollowsPagination(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags/":
			next := srv.URL + "/api/tags/page2/"
			_ = json.NewEncoder(w).Encode(map[string]any{
				"count":   3,
				"next":    next,
				"results": []map[string]any{{"id": 1, "name": "Invoice"}, {"id": 2, "name": "Tax"}},
			})
		case "/api/tags/page2/":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"count":   3,
				"next":    nil,
				"results": []map[string]any{{"id": 3, "name": "Contract"}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second, nil)
	tags, err := c.ListTags(context.Background())
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d: %+v", len(tags), tags)
	}
	if tags[0].Name != "Invoice" || tags[2].Name != "Contract" {
		t.Errorf("unexpected tag order: %+v", tags)
	}
}

func TestListCorrespondents_SinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/correspondents/" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count":   1,
			"next":    nil,
			"results": []map[string]any{{"id": 1, "name": "Acme"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second, nil)
	corrs, err := c.ListCorrespondents(context.Background())
	if err != nil {
		t.Fatalf("ListCorrespondents: %v", err)
	}
	if len(corrs) != 1 || corrs[0].Name != "Acme" {
		t.Errorf("unexpected correspondents: %+v", corrs)
	}
}
