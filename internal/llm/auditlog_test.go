package llm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPromptLog_AppendWritesEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.log")
	log := NewPromptLog(path, 0, nil)

	log.Append("first prompt")
	log.Append("second prompt")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "first prompt") || !strings.Contains(got, "second prompt") {
		t.Errorf("log missing entries:\n%s", got)
	}
	if strings.Count(got, "--- ") != 2 {
		t.Errorf("expected 2 entry headers, got %d:\n%s", strings.Count(got, "--- "), got)
	}
}

func TestPromptLog_TruncatesWhenOverCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.log")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 200)), 0o644); err != nil {
		t.Fatal(err)
	}

	log := NewPromptLog(path, 100, nil)
	log.Append("fresh entry")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "xxx") {
		t.Errorf("old content survived truncation:\n%s", got)
	}
	if !strings.Contains(got, "fresh entry") {
		t.Errorf("new entry missing after truncation:\n%s", got)
	}
}

func TestPromptLog_KeepsFileUnderCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.log")
	log := NewPromptLog(path, 10_000, nil)

	log.Append("one")
	log.Append("two")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "one") || !strings.Contains(string(data), "two") {
		t.Errorf("entries lost below cap:\n%s", data)
	}
}

func TestPromptLog_DisabledAndNilAreSafe(t *testing.T) {
	var nilLog *PromptLog
	nilLog.Append("ignored")

	disabled := NewPromptLog("", 100, nil)
	disabled.Append("ignored")
}
