package llm

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

var (
	reTrailingComma = regexp.MustCompile(`,\s*([}\]])`)
	reLooseKey      = regexp.MustCompile(`([{,]\s*)'?([A-Za-z_][A-Za-z0-9_]*)'?\s*:`)
)

// Interpret extracts the metadata record embedded in raw model output.
// It locates the greedy brace span (first '{' to last '}'), tries a strict
// parse, then a repaired parse, and falls back to EmptyResult. It never
// returns an error; parse failures are logged only.
func Interpret(text string, logger *slog.Logger) AnalysisResult {
	if logger == nil {
		logger = slog.Default()
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		logger.Debug("llm.interpret.no_json", "text_len", len(text))
		return EmptyResult()
	}
	span := text[start : end+1]

	m, err := parseObject(span)
	if err != nil {
		repaired := RepairJSON(span)
		m, err = parseObject(repaired)
		if err != nil {
			logger.Warn("llm.interpret.parse_failed", "error", err, "span_len", len(span))
			return EmptyResult()
		}
		logger.Debug("llm.interpret.repaired", "span_len", len(span))
	}
	return coerceFields(m)
}

// RepairJSON applies best-effort syntactic fixes to near-JSON text:
// trailing commas before closing braces/brackets are stripped, and unquoted
// or single-quoted property names are forced into double-quoted form. It
// does not validate the semantics of recovered values.
func RepairJSON(s string) string {
	s = reTrailingComma.ReplaceAllString(s, "$1")
	s = reLooseKey.ReplaceAllString(s, `$1"$2":`)
	return s
}

func parseObject(s string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func coerceFields(m map[string]any) AnalysisResult {
	out := EmptyResult()
	if raw, ok := m["tags"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				out.Tags = append(out.Tags, s)
			}
		}
	}
	out.Correspondent = stringField(m, "correspondent")
	out.Title = stringField(m, "title")
	out.DocumentDate = stringField(m, "document_date")
	out.Language = stringField(m, "language")
	return out
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
