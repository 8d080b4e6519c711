package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/llm"
	"go.uber.org/zap"
)

const analysisPrompt = `You are a pediatric oncologist reviewing literature retrieved for a specific patient case.

Patient disease: {disease}
Patient actionable events: {events}

Case notes:
{case_notes}

The articles below were scored against this case, highest first. For each
article the score and the extracted findings are given.

{articles}

Write a concise clinical narrative for the treating physician: summarize
which findings are most relevant to this patient's actionable events, which
treatment options the literature supports, and where the evidence is thin.
Cite articles by PMID.`

// AnalysisService composes the final narrative over the scored articles of
// a finished retrieval session. A failure here leaves the streamed scores
// untouched; the caller can simply retry.
type AnalysisService struct {
	log    *zap.SugaredLogger
	client llm.Client
}

func NewAnalysisService(client llm.Client) *AnalysisService {
	return &AnalysisService{
		log:    zap.S().Named("analysis_service"),
		client: client,
	}
}

func (s *AnalysisService) Compose(ctx context.Context, form api.AnalysisRequest) (api.AnalysisResult, error) {
	prompt := buildAnalysisPrompt(form)

	raw, err := s.client.Generate(ctx, prompt)
	if err != nil {
		return api.AnalysisResult{}, NewErrCompositionFailed(err)
	}

	s.log.Infow("composed final analysis",
		"disease", form.Disease, "articles", len(form.Articles))
	return api.AnalysisResult{Content: strings.TrimSpace(raw)}, nil
}

func buildAnalysisPrompt(form api.AnalysisRequest) string {
	// the prompt promises highest-scored first; callers send stream order
	articles := make([]api.ScoredArticle, len(form.Articles))
	copy(articles, form.Articles)
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].OverallPoints > articles[j].OverallPoints
	})

	var sb strings.Builder
	for i, article := range articles {
		fmt.Fprintf(&sb, "%d. PMID %s (%d points) %s\n", i+1, article.PMID, article.OverallPoints, article.Title)
		fmt.Fprintf(&sb, "   Journal: %s (%s)\n", article.JournalTitle, article.Year)
		fmt.Fprintf(&sb, "   Paper type: %s\n", article.PaperType)
		if events := matchingEvents(article.ActionableEvents); len(events) > 0 {
			fmt.Fprintf(&sb, "   Matching events: %s\n", strings.Join(events, "; "))
		}
		if len(article.DrugResults) > 0 {
			fmt.Fprintf(&sb, "   Drug results: %s\n", strings.Join(article.DrugResults, "; "))
		}
	}

	prompt := analysisPrompt
	prompt = strings.ReplaceAll(prompt, "{disease}", form.Disease)
	prompt = strings.ReplaceAll(prompt, "{events}", strings.Join(form.Events, ", "))
	prompt = strings.ReplaceAll(prompt, "{case_notes}", form.CaseNotes)
	prompt = strings.ReplaceAll(prompt, "{articles}", strings.TrimRight(sb.String(), "\n"))
	return prompt
}

func matchingEvents(events []api.ActionableEvent) []string {
	var out []string
	for _, e := range events {
		if e.MatchesQuery {
			out = append(out, e.Event)
		}
	}
	return out
}
