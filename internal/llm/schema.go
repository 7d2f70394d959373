package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildMetadataJSONSchema returns a JSON-Schema (draft 2020-12 subset) for
// the analysis record as a generic map. Tags must be a string array;
// document_date must be an ISO date.
func BuildMetadataJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties": map[string]any{
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"correspondent": map[string]any{"type": "string"},
			"title":         map[string]any{"type": "string"},
			"document_date": map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"language":      map[string]any{"type": "string"},
		},
		"required": []string{"tags"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// SanitizeResult checks the interpreted record against the metadata schema
// and downgrades offending optional fields instead of erroring. Only
// document_date carries a pattern, so that is the field dropped on mismatch.
func SanitizeResult(res AnalysisResult, logger *slog.Logger) AnalysisResult {
	if logger == nil {
		logger = slog.Default()
	}

	record := map[string]any{"tags": res.Tags}
	if res.Correspondent != "" {
		record["correspondent"] = res.Correspondent
	}
	if res.Title != "" {
		record["title"] = res.Title
	}
	if res.DocumentDate != "" {
		record["document_date"] = res.DocumentDate
	}
	if res.Language != "" {
		record["language"] = res.Language
	}

	b, err := json.Marshal(record)
	if err != nil {
		return res
	}
	if err := ValidateJSONAgainstSchema(BuildMetadataJSONSchema(), b); err == nil {
		return res
	}

	if res.DocumentDate != "" {
		logger.Warn("llm.sanitize.dropped_field", "field", "document_date", "value", res.DocumentDate)
		res.DocumentDate = ""
	}
	return res
}
