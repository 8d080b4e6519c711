package extraction

import (
	"fmt"
	"sort"
	"strings"
)

// Placeholders recognized in caller-supplied prompt templates.
const (
	placeholderArticleText    = "{article_text}"
	placeholderDisease        = "{disease}"
	placeholderEvents         = "{events}"
	placeholderJournalContext = "{journal_context}"
)

const defaultTemplate = `You are an expert oncologist evaluating full research articles to identify potential advancements in treatment and understanding of the disease.

The patient's disease is: {disease}
The patient's actionable events are:
{events}

Journal Impact Data (SJR scores):
When extracting the journal title from the article, find the best matching title from this list and use its SJR score. If no match is found, use 0 as the SJR score.

{journal_context}

<Article>
{article_text}
</Article>

<Instructions>
Read the provided full article, extract key information and assess the article's relevance.
1. Evaluate if the article's disease focus matches the patient's disease.
2. Analyze treatment outcomes. Set treatment_shown to true only if the article demonstrates positive treatment results.
3. For each actionable event found in the article, determine if it matches any of the patient's actionable events. For genetic mutations, report both the general mutation and the specific variant as separate events.

Provide a JSON response with the following structure:

{
  "article_metadata": {
    "title": "...",
    "year": "...",
    "journal_title": "...",
    "journal_sjr": 0,
    "disease_focus": true,
    "pediatric_focus": true,
    "type_of_cancer": "...",
    "disease_match": true,
    "paper_type": "...",
    "actionable_events": [{"event": "...", "matches_query": true}],
    "drugs_tested": true,
    "drug_results": ["..."],
    "treatment_shown": true,
    "cell_studies": true,
    "mice_studies": true,
    "case_report": true,
    "series_of_case_reports": true,
    "clinical_study": true,
    "clinical_study_on_children": true,
    "novelty": true
  }
}
</Instructions>

IMPORTANT: Return ONLY the raw JSON object. Do not include any explanatory text, markdown formatting, or code blocks. The response should start with '{' and end with '}' with no other characters before or after.`

// buildPrompt renders the extraction prompt for one article. When the
// caller supplied a template it is used verbatim with the placeholders
// replaced; otherwise the default methodology applies.
func buildPrompt(req Request) string {
	template := req.PromptTemplate
	if strings.TrimSpace(template) == "" {
		template = defaultTemplate
	}

	prompt := template
	prompt = strings.ReplaceAll(prompt, placeholderArticleText, req.FullText)
	prompt = strings.ReplaceAll(prompt, placeholderDisease, req.Disease)
	prompt = strings.ReplaceAll(prompt, placeholderEvents, strings.Join(req.Events, "\n"))
	prompt = strings.ReplaceAll(prompt, placeholderJournalContext, journalContext(req.JournalImpact))
	return prompt
}

// journalContext renders the journal impact table in a stable order so the
// prompt, and with it the extraction, stays reproducible across runs.
func journalContext(impact map[string]float64) string {
	if len(impact) == 0 {
		return ""
	}

	titles := make([]string, 0, len(impact))
	for title := range impact {
		titles = append(titles, title)
	}
	sort.Slice(titles, func(i, j int) bool {
		if impact[titles[i]] != impact[titles[j]] {
			return impact[titles[i]] > impact[titles[j]]
		}
		return titles[i] < titles[j]
	})

	var b strings.Builder
	for _, title := range titles {
		fmt.Fprintf(&b, "- %s: %g\n", title, impact[title])
	}
	return b.String()
}
