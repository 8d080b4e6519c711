// Package v1alpha1 defines the wire types exchanged between the litreview
// service and its clients.
package v1alpha1

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ActionableEvent is a clinically significant fact extracted from an
// article, flagged when it corresponds to one of the patient's events.
// The matches_query decision is made upstream by the extraction model and
// passed through unchanged.
type ActionableEvent struct {
	Event        string `json:"event"`
	MatchesQuery bool   `json:"matches_query"`
}

// SJRScore is a journal impact score as returned by the extraction model,
// which emits it inconsistently as a number, a numeric string, or null.
// Anything unparseable decodes to 0.
type SJRScore float64

func (s *SJRScore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			*s = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			*s = 0
			return nil
		}
		*s = SJRScore(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*s = 0
		return nil
	}
	*s = SJRScore(v)
	return nil
}

// ArticleMetadata holds the per-article facts produced by the extraction
// model. It is a value object: created once per article and never mutated.
// Boolean fields missing from the model output simply decode to false so a
// malformed article scores low instead of aborting the session.
type ArticleMetadata struct {
	Title                   string            `json:"title"`
	Year                    string            `json:"year"`
	JournalTitle            string            `json:"journal_title"`
	JournalSJR              SJRScore          `json:"journal_sjr"`
	DiseaseFocus            bool              `json:"disease_focus"`
	PediatricFocus          bool              `json:"pediatric_focus"`
	TypeOfCancer            string            `json:"type_of_cancer"`
	TypeOfDisease           string            `json:"type_of_disease,omitempty"`
	DiseaseMatch            bool              `json:"disease_match"`
	PaperType               string            `json:"paper_type"`
	ActionableEvents        []ActionableEvent `json:"actionable_events"`
	DrugsTested             bool              `json:"drugs_tested"`
	DrugResults             []string          `json:"drug_results"`
	TreatmentShown          bool              `json:"treatment_shown"`
	CellStudies             bool              `json:"cell_studies"`
	MiceStudies             bool              `json:"mice_studies"`
	CaseReport              bool              `json:"case_report"`
	SeriesOfCaseReports     bool              `json:"series_of_case_reports"`
	ClinicalStudy           bool              `json:"clinical_study"`
	ClinicalStudyOnChildren bool              `json:"clinical_study_on_children"`
	Novelty                 bool              `json:"novelty"`
}

// Disease returns the article's disease label, tolerating both field names
// the extraction model is known to produce.
func (m ArticleMetadata) Disease() string {
	if m.TypeOfCancer != "" {
		return m.TypeOfCancer
	}
	return m.TypeOfDisease
}

// ScoredArticle is an ArticleMetadata enriched with its identity and the
// rubric result. OverallPoints and PointBreakdown are derived once and
// cached for the lifetime of the retrieval session.
type ScoredArticle struct {
	ArticleMetadata
	PMID           string         `json:"pmid"`
	Link           string         `json:"link"`
	OverallPoints  int            `json:"overall_points"`
	PointBreakdown map[string]int `json:"point_breakdown"`
	FullText       string         `json:"full_text"`
}

// RetrievalRequest starts a retrieval session.
type RetrievalRequest struct {
	Disease               string   `json:"disease" validate:"required,disease"`
	Events                []string `json:"events" validate:"required,min=1,dive,required"`
	NumArticles           int      `json:"num_articles" validate:"num_articles"`
	ScoringPromptTemplate string   `json:"scoring_prompt_template,omitempty"`
}

// ExtractionRequest asks the case extractor for either the disease label or
// the list of actionable events found in free-text case notes.
type ExtractionRequest struct {
	Text           string `json:"text" validate:"required"`
	ExtractionType string `json:"extraction_type" validate:"required,oneof=disease events"`
	Prompt         string `json:"prompt" validate:"required"`
}

// ExtractionResult mirrors the extractor contract: exactly one of Disease
// or Events is populated depending on the requested extraction type.
type ExtractionResult struct {
	Disease string   `json:"disease"`
	Events  []string `json:"events"`
}

// AnalysisRequest asks for the final narrative over the already-streamed
// scored articles. It is a caller-driven follow-up, not part of the stream.
type AnalysisRequest struct {
	CaseNotes string          `json:"case_notes" validate:"required"`
	Disease   string          `json:"disease" validate:"required"`
	Events    []string        `json:"events"`
	Articles  []ScoredArticle `json:"articles" validate:"required,min=1"`
}

// AnalysisResult carries the composed narrative.
type AnalysisResult struct {
	Content string `json:"content"`
}

// FeedbackRequest captures clinician feedback about a retrieval run.
type FeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Message string `json:"message" validate:"required"`
}

// Error is the JSON body returned by non-stream endpoints on failure.
type Error struct {
	Message string `json:"message"`
}
