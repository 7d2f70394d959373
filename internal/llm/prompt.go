package llm

import (
	"strings"
)

// PromptConfig selects between the predefined-tag template and the generic
// template, and controls whether known tags/correspondents are included.
type PromptConfig struct {
	UsePredefinedTags bool
	PredefinedTags    string // comma-separated vocabulary for predefined mode
	UseExistingData   bool
	SystemPrompt      string // generic-mode instructions
}

const defaultSystemPrompt = "You are a document analysis assistant. " +
	"Read the document below and extract its metadata. " +
	"Return a single JSON object with exactly these keys: " +
	`"title" (string), "correspondent" (string), "tags" (array of strings), ` +
	`"document_date" (string, YYYY-MM-DD) and "language" (string, ISO 639-1). ` +
	"If a value cannot be determined, use an empty string (or an empty array for tags)."

// BuildPrompt composes the full user prompt: template instructions, optional
// known-data lists, then the document content.
func BuildPrompt(cfg PromptConfig, req AnalyzeRequest) string {
	var b strings.Builder

	if cfg.UsePredefinedTags {
		b.WriteString(defaultSystemPrompt)
		b.WriteString("\nChoose tags ONLY from this list: ")
		b.WriteString(strings.TrimSpace(cfg.PredefinedTags))
		b.WriteString(".")
	} else if sp := strings.TrimSpace(cfg.SystemPrompt); sp != "" {
		b.WriteString(sp)
	} else {
		b.WriteString(defaultSystemPrompt)
	}
	b.WriteString("\n")

	if cfg.UseExistingData {
		if tags := joinNames(req.KnownTags); tags != "" {
			b.WriteString("\nExisting tags: ")
			b.WriteString(tags)
		}
		if corrs := joinNames(req.KnownCorrespondents); corrs != "" {
			b.WriteString("\nExisting correspondents: ")
			b.WriteString(corrs)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nDocument:\n")
	b.WriteString(req.Content)
	return b.String()
}

func joinNames(names []string) string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, ", ")
}

// CoerceNames extracts non-empty names from a loosely typed list whose
// entries may be bare strings or objects with a "name" field. Anything that
// is not a list yields an empty result.
func CoerceNames(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			if name, ok := t["name"].(string); ok {
				if s := strings.TrimSpace(name); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
