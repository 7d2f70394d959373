package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papersift/papersift/internal/llm"
)

// System instruction sent with every generation request.
const jsonOnlySystem = "You are a document analysis assistant. " +
	"Respond with a single JSON object and nothing else: no markdown fences, no explanations."

type generateOptions struct {
	Temperature   float32 `json:"temperature"`
	TopP          float32 `json:"top_p"`
	TopK          int     `json:"top_k"`
	RepeatPenalty float32 `json:"repeat_penalty"`
	NumPredict    int     `json:"num_predict"`
	NumCtx        int     `json:"num_ctx"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	TotalDuration   int64  `json:"total_duration"`
}

// Analyze implements llm.DocumentAnalyzer against an Ollama /api/generate
// endpoint. Transport and envelope failures produce a degraded result with
// Error set; parse failures of the model text fall back inside Interpret.
func (c *Client) Analyze(ctx context.Context, req llm.AnalyzeRequest) llm.AnalysisResult {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.analyze.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"doc_id", req.DocumentID,
		"text_len", len(req.Content),
		"known_tags", len(req.KnownTags),
		"known_correspondents", len(req.KnownCorrespondents),
	)

	prompt := llm.BuildPrompt(c.cfg.Prompt, req)
	c.promptLog.Append(prompt)

	if c.thumbs != nil && req.DocumentID > 0 {
		if err := c.thumbs.EnsureThumbnail(ctx, req.DocumentID); err != nil {
			c.logger.Warn("llm.analyze.thumbnail_error", "req_id", rid, "doc_id", req.DocumentID, "error", err)
		}
	}

	body := generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		System: jsonOnlySystem,
		Stream: false,
		Options: generateOptions{
			Temperature:   0.7,
			TopP:          0.9,
			TopK:          30,
			RepeatPenalty: 1.1,
			NumPredict:    c.cfg.NumPredict,
			NumCtx:        c.cfg.NumCtx,
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"
	raw, status, err := llm.PostJSON(ctx, c.http, endpoint, body, c.logger)
	if err != nil {
		c.logger.Error("llm.analyze.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return degraded(fmt.Sprintf("inference request failed: %v", err))
	}

	var env generateResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Error("llm.analyze.envelope_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return degraded(fmt.Sprintf("decode inference envelope: %v", err))
	}

	res := llm.Interpret(env.Response, c.logger)
	res = llm.SanitizeResult(res, c.logger)
	res.Metrics = &llm.Metrics{
		PromptEvalCount: env.PromptEvalCount,
		EvalCount:       env.EvalCount,
		TotalDurationNS: env.TotalDuration,
	}

	c.logger.Info("llm.analyze.ok",
		"req_id", rid,
		"doc_id", req.DocumentID,
		"tags", len(res.Tags),
		"title", res.Title,
		"correspondent", res.Correspondent,
		"eval_count", env.EvalCount,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}

func degraded(msg string) llm.AnalysisResult {
	res := llm.EmptyResult()
	res.Error = msg
	return res
}
