// Package extraction turns an article's full text into structured metadata
// by prompting the generation model and decoding its JSON answer. The model
// supplies facts only; all scoring happens downstream.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/llm"
	"go.uber.org/zap"
)

// Request carries everything needed to extract one article's metadata.
type Request struct {
	PMID           string
	FullText       string
	Disease        string
	Events         []string
	JournalImpact  map[string]float64
	PromptTemplate string
}

// Extractor prompts the model and decodes the response permissively:
// missing booleans default to false, unparseable SJR defaults to 0. Only a
// response with no recoverable JSON object is an error.
type Extractor struct {
	client llm.Client
}

func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

type analysisEnvelope struct {
	ArticleMetadata *api.ArticleMetadata `json:"article_metadata"`
}

func (e *Extractor) Extract(ctx context.Context, req Request) (api.ArticleMetadata, error) {
	raw, err := e.client.Generate(ctx, buildPrompt(req))
	if err != nil {
		return api.ArticleMetadata{}, fmt.Errorf("extract article %s: %w", req.PMID, err)
	}

	meta, err := DecodeMetadata(raw)
	if err != nil {
		zap.S().Named("extraction").Errorw("unusable model response",
			"pmid", req.PMID, "error", err)
		return api.ArticleMetadata{}, fmt.Errorf("extract article %s: %w", req.PMID, err)
	}

	return meta, nil
}

// DecodeMetadata recovers the metadata object from a raw model response.
// Models wrap JSON in code fences or surround it with prose often enough
// that cleanup is part of the contract.
func DecodeMetadata(raw string) (api.ArticleMetadata, error) {
	text := extractJSON(raw)
	if text == "" {
		return api.ArticleMetadata{}, fmt.Errorf("no JSON object in model response")
	}

	var envelope analysisEnvelope
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return api.ArticleMetadata{}, fmt.Errorf("parse model response: %w", err)
	}

	if envelope.ArticleMetadata == nil {
		// some responses skip the envelope and return the metadata directly
		var meta api.ArticleMetadata
		if err := json.Unmarshal([]byte(text), &meta); err != nil {
			return api.ArticleMetadata{}, fmt.Errorf("parse model response: %w", err)
		}
		if meta.Title == "" && meta.PaperType == "" && len(meta.ActionableEvents) == 0 {
			return api.ArticleMetadata{}, fmt.Errorf("model response carries no article metadata")
		}
		return meta, nil
	}

	return *envelope.ArticleMetadata, nil
}

// extractJSON strips code fences and surrounding prose, returning the
// outermost JSON object or "" when none is found.
func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		return strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}
