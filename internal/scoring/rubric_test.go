package scoring

import (
	"reflect"
	"testing"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
)

func TestScore_PediatricClinicalTrial(t *testing.T) {
	t.Parallel()
	meta := api.ArticleMetadata{
		PediatricFocus: true,
		TypeOfCancer:   "Leukemia (AML)",
		PaperType:      "clinical trial",
		ActionableEvents: []api.ActionableEvent{
			{Event: "NRAS", MatchesQuery: true},
		},
		DrugsTested:    true,
		DrugResults:    []string{"CR achieved"},
		TreatmentShown: true,
	}

	result := Score(meta, "Leukemia (AML)")

	if result.OverallPoints != 180 {
		t.Errorf("expected 180 points, got %d", result.OverallPoints)
	}

	expected := map[string]int{
		CriterionPediatricFocus:   20,
		CriterionDiseaseMatch:     50,
		CriterionPaperType:        40,
		CriterionActionableEvents: 15,
		CriterionDrugsTested:      5,
		CriterionTreatmentShown:   50,
	}
	for criterion, points := range expected {
		if result.PointBreakdown[criterion] != points {
			t.Errorf("criterion %s: expected %d, got %d", criterion, points, result.PointBreakdown[criterion])
		}
	}
}

func TestScore_ReviewScoresNegative(t *testing.T) {
	t.Parallel()
	meta := api.ArticleMetadata{PaperType: "review"}

	result := Score(meta, "Leukemia (AML)")

	if result.OverallPoints != -5 {
		t.Errorf("expected -5 points, got %d", result.OverallPoints)
	}
	if result.PointBreakdown[CriterionPaperType] != -5 {
		t.Errorf("expected paper_type -5, got %d", result.PointBreakdown[CriterionPaperType])
	}
	for _, criterion := range Criteria {
		if criterion == CriterionPaperType {
			continue
		}
		if result.PointBreakdown[criterion] != 0 {
			t.Errorf("criterion %s: expected 0, got %d", criterion, result.PointBreakdown[criterion])
		}
	}
}

func TestScore_BreakdownSumsToOverall(t *testing.T) {
	t.Parallel()
	metas := []api.ArticleMetadata{
		{},
		{PaperType: "review", MiceStudies: true},
		{
			PediatricFocus: true,
			TypeOfCancer:   "neuroblastoma",
			PaperType:      "Prospective Clinical Trial",
			ActionableEvents: []api.ActionableEvent{
				{Event: "MYCN amplification", MatchesQuery: true},
				{Event: "ALK F1174L", MatchesQuery: true},
				{Event: "1p deletion", MatchesQuery: false},
			},
			DrugsTested:             true,
			DrugResults:             []string{"partial response"},
			TreatmentShown:          true,
			CellStudies:             true,
			MiceStudies:             true,
			CaseReport:              true,
			SeriesOfCaseReports:     true,
			ClinicalStudy:           true,
			ClinicalStudyOnChildren: true,
			Novelty:                 true,
		},
	}

	for _, meta := range metas {
		result := Score(meta, "Neuroblastoma")
		sum := 0
		for _, points := range result.PointBreakdown {
			sum += points
		}
		if sum != result.OverallPoints {
			t.Errorf("breakdown sum %d does not match overall %d", sum, result.OverallPoints)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	t.Parallel()
	meta := api.ArticleMetadata{
		PediatricFocus: true,
		TypeOfCancer:   "Medulloblastoma",
		PaperType:      "clinical trial review", // clinical trial wins
		ActionableEvents: []api.ActionableEvent{
			{Event: "SHH activation", MatchesQuery: true},
		},
		ClinicalStudy: true,
	}

	first := Score(meta, "medulloblastoma")
	second := Score(meta, "medulloblastoma")

	if first.OverallPoints != second.OverallPoints {
		t.Errorf("points differ between runs: %d vs %d", first.OverallPoints, second.OverallPoints)
	}
	if !reflect.DeepEqual(first.PointBreakdown, second.PointBreakdown) {
		t.Errorf("breakdowns differ between runs: %v vs %v", first.PointBreakdown, second.PointBreakdown)
	}
	if first.PointBreakdown[CriterionPaperType] != 40 {
		t.Errorf("expected clinical trial to take precedence over review, got %d", first.PointBreakdown[CriterionPaperType])
	}
}

func TestScore_EveryCriterionAlwaysPresent(t *testing.T) {
	t.Parallel()
	result := Score(api.ArticleMetadata{}, "")

	if len(result.PointBreakdown) != len(Criteria) {
		t.Fatalf("expected %d breakdown entries, got %d", len(Criteria), len(result.PointBreakdown))
	}
	for _, criterion := range Criteria {
		if _, ok := result.PointBreakdown[criterion]; !ok {
			t.Errorf("criterion %s missing from breakdown", criterion)
		}
	}
	if result.OverallPoints != 0 {
		t.Errorf("empty metadata should score 0, got %d", result.OverallPoints)
	}
}

func TestScore_TreatmentShownRequiresDrugResults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		meta     api.ArticleMetadata
		expected int
	}{
		{
			name:     "flag without results",
			meta:     api.ArticleMetadata{TreatmentShown: true},
			expected: 0,
		},
		{
			name:     "results without flag",
			meta:     api.ArticleMetadata{DrugResults: []string{"CR"}},
			expected: 0,
		},
		{
			name:     "flag and results",
			meta:     api.ArticleMetadata{TreatmentShown: true, DrugResults: []string{"CR"}},
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Score(tt.meta, "")
			if result.PointBreakdown[CriterionTreatmentShown] != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result.PointBreakdown[CriterionTreatmentShown])
			}
		})
	}
}

func TestScore_DiseaseMatch(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		articleDisease string
		patientDisease string
		expected       int
	}{
		{"exact", "Leukemia (AML)", "Leukemia (AML)", 50},
		{"case insensitive", "leukemia (aml)", "Leukemia (AML)", 50},
		{"whitespace trimmed", " Leukemia (AML) ", "Leukemia (AML)", 50},
		{"different disease", "Neuroblastoma", "Leukemia (AML)", 0},
		{"empty article disease", "", "Leukemia (AML)", 0},
		{"empty patient disease", "Leukemia (AML)", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := api.ArticleMetadata{TypeOfCancer: tt.articleDisease}
			result := Score(meta, tt.patientDisease)
			if result.PointBreakdown[CriterionDiseaseMatch] != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result.PointBreakdown[CriterionDiseaseMatch])
			}
		})
	}
}
