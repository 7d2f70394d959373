package llm

import "context"

// Metrics carries token accounting from the inference envelope.
type Metrics struct {
	PromptEvalCount int   `json:"prompt_eval_count"`
	EvalCount       int   `json:"eval_count"`
	TotalDurationNS int64 `json:"total_duration_ns"`
}

// AnalyzeRequest is one document to analyze, plus the candidate vocabulary
// the model may pick from. KnownTags and KnownCorrespondents hold bare names;
// use CoerceNames to build them from loosely typed input.
type AnalyzeRequest struct {
	DocumentID          int
	Content             string
	KnownTags           []string
	KnownCorrespondents []string
}

// AnalysisResult is the normalized record extracted from the model reply.
// Tags is always a non-nil slice, even when extraction fails; the remaining
// string fields default to empty rather than failing. Error is set only for
// transport/envelope failures, never for parse failures.
type AnalysisResult struct {
	Tags          []string `json:"tags"`
	Correspondent string   `json:"correspondent,omitempty"`
	Title         string   `json:"title,omitempty"`
	DocumentDate  string   `json:"document_date,omitempty"` // YYYY-MM-DD
	Language      string   `json:"language,omitempty"`
	Metrics       *Metrics `json:"metrics,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// EmptyResult is the degraded default: empty tags, everything else absent.
func EmptyResult() AnalysisResult {
	return AnalysisResult{Tags: []string{}}
}

// DocumentAnalyzer is the interface the server and CLI depend on.
// Analyze never fails from the caller's perspective; failures surface as a
// degraded AnalysisResult.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) AnalysisResult
}
