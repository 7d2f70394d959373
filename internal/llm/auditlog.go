package llm

import (
	"log/slog"
	"os"
	"time"
)

// PromptLog appends every outbound prompt to a single audit file. The file
// size is checked on each write; once it exceeds MaxBytes the file is
// deleted and the log starts over. Filesystem failures are logged as
// warnings and never abort the analysis.
type PromptLog struct {
	path     string
	maxBytes int64
	logger   *slog.Logger
}

// NewPromptLog returns a log writing to path, capped at maxBytes (0 means
// uncapped). An empty path disables the log.
func NewPromptLog(path string, maxBytes int64, logger *slog.Logger) *PromptLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &PromptLog{path: path, maxBytes: maxBytes, logger: logger}
}

// Append records one prompt. Safe to call on a nil or disabled log.
func (l *PromptLog) Append(prompt string) {
	if l == nil || l.path == "" {
		return
	}

	if l.maxBytes > 0 {
		if st, err := os.Stat(l.path); err == nil && st.Size() > l.maxBytes {
			if err := os.Remove(l.path); err != nil {
				l.logger.Warn("llm.promptlog.truncate_error", "path", l.path, "error", err)
			} else {
				l.logger.Info("llm.promptlog.truncated", "path", l.path, "size", st.Size())
			}
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Warn("llm.promptlog.open_error", "path", l.path, "error", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.Warn("llm.promptlog.close_error", "path", l.path, "error", err)
		}
	}()

	entry := "--- " + time.Now().UTC().Format(time.RFC3339) + "\n" + prompt + "\n\n"
	if _, err := f.WriteString(entry); err != nil {
		l.logger.Warn("llm.promptlog.write_error", "path", l.path, "error", err)
	}
}
