// Package service wires the pipeline stages into the operations the
// handlers expose: streaming retrieval, case-notes extraction, narrative
// composition and feedback capture.
package service

import (
	"context"
	"fmt"
	"strings"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/llm"
	"go.uber.org/zap"
)

const (
	ExtractionTypeDisease = "disease"
	ExtractionTypeEvents  = "events"
)

// ExtractionService pulls the disease label or the actionable events out of
// free-text case notes by prompting the generation model.
type ExtractionService struct {
	log    *zap.SugaredLogger
	client llm.Client
}

func NewExtractionService(client llm.Client) *ExtractionService {
	return &ExtractionService{
		log:    zap.S().Named("extraction_service"),
		client: client,
	}
}

func (s *ExtractionService) Extract(ctx context.Context, form api.ExtractionRequest) (api.ExtractionResult, error) {
	prompt := fmt.Sprintf("%s\n\nCase notes:\n%s", strings.TrimSpace(form.Prompt), form.Text)

	raw, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return api.ExtractionResult{}, fmt.Errorf("case extraction: %w", err)
	}

	switch form.ExtractionType {
	case ExtractionTypeEvents:
		events := ParseQuotedEvents(raw)
		s.log.Infow("extracted actionable events", "count", len(events))
		return api.ExtractionResult{Events: events}, nil
	default:
		return api.ExtractionResult{Disease: strings.TrimSpace(raw)}, nil
	}
}

// ParseQuotedEvents splits a model response into events. The prompt asks
// for double-quoted terms, so everything between quote pairs is an event;
// separators and prose outside the quotes are discarded.
func ParseQuotedEvents(raw string) []string {
	parts := strings.Split(raw, `"`)
	events := make([]string, 0, len(parts)/2)
	// odd indexes sit between quote pairs
	for i := 1; i < len(parts); i += 2 {
		event := strings.TrimSpace(parts[i])
		if event == "" {
			continue
		}
		events = append(events, event)
	}
	return events
}
