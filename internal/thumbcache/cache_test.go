package thumbcache

import (
	"context"
	"errors"
	"os"
	"testing"
)

type fetcherSpy struct {
	calls int
	bytes []byte
	err   error
}

func (f *fetcherSpy) FetchThumbnail(_ context.Context, _ int) ([]byte, error) {
	f.calls++
	return f.bytes, f.err
}

func TestEnsureThumbnail_MissFetchesAndStores(t *testing.T) {
	spy := &fetcherSpy{bytes: []byte("png")}
	c := New(t.TempDir(), spy, nil)

	if err := c.EnsureThumbnail(context.Background(), 5); err != nil {
		t.Fatalf("EnsureThumbnail: %v", err)
	}
	if spy.calls != 1 {
		t.Errorf("expected one fetch, got %d", spy.calls)
	}
	b, err := os.ReadFile(c.Path(5))
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(b) != "png" {
		t.Errorf("unexpected cached bytes: %q", b)
	}
}

func TestEnsureThumbnail_HitSkipsFetch(t *testing.T) {
	spy := &fetcherSpy{bytes: []byte("png")}
	c := New(t.TempDir(), spy, nil)

	for i := 0; i < 3; i++ {
		if err := c.EnsureThumbnail(context.Background(), 5); err != nil {
			t.Fatalf("EnsureThumbnail: %v", err)
		}
	}
	if spy.calls != 1 {
		t.Errorf("cache hit refetched: %d calls", spy.calls)
	}
}

func TestEnsureThumbnail_EmptyResponseNotCached(t *testing.T) {
	spy := &fetcherSpy{bytes: nil}
	c := New(t.TempDir(), spy, nil)

	if err := c.EnsureThumbnail(context.Background(), 5); err != nil {
		t.Fatalf("EnsureThumbnail: %v", err)
	}
	if _, err := os.Stat(c.Path(5)); !os.IsNotExist(err) {
		t.Error("empty response must not create a cache file")
	}
}

func TestEnsureThumbnail_FetchErrorPropagates(t *testing.T) {
	spy := &fetcherSpy{err: errors.New("boom")}
	c := New(t.TempDir(), spy, nil)

	if err := c.EnsureThumbnail(context.Background(), 5); err == nil {
		t.Error("expected fetch error")
	}
}
