package scoring

import (
	"strings"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
)

// Breakdown keys. Every key is present in every result, zero when the
// criterion did not trigger, so callers can render a bit-exact audit trail.
const (
	CriterionPediatricFocus          = "pediatric_focus"
	CriterionDiseaseMatch            = "disease_match"
	CriterionPaperType               = "paper_type"
	CriterionActionableEvents        = "actionable_events"
	CriterionDrugsTested             = "drugs_tested"
	CriterionTreatmentShown          = "treatment_shown"
	CriterionCellStudies             = "cell_studies"
	CriterionMiceStudies             = "mice_studies"
	CriterionCaseReport              = "case_report"
	CriterionSeriesOfCaseReports     = "series_of_case_reports"
	CriterionClinicalStudy           = "clinical_study"
	CriterionClinicalStudyOnChildren = "clinical_study_on_children"
	CriterionNovelty                 = "novelty"
)

// Point values are fixed constants, not configurable at call time.
const (
	pointsPediatricFocus          = 20
	pointsDiseaseMatch            = 50
	pointsClinicalTrial           = 40
	pointsReview                  = -5
	pointsPerMatchedEvent         = 15
	pointsDrugsTested             = 5
	pointsTreatmentShown          = 50
	pointsCellStudies             = 5
	pointsMiceStudies             = 10
	pointsCaseReport              = 5
	pointsSeriesOfCaseReports     = 10
	pointsClinicalStudy           = 15
	pointsClinicalStudyOnChildren = 20
	pointsNovelty                 = 10
)

// Criteria lists every breakdown key in rubric order.
var Criteria = []string{
	CriterionPediatricFocus,
	CriterionDiseaseMatch,
	CriterionPaperType,
	CriterionActionableEvents,
	CriterionDrugsTested,
	CriterionTreatmentShown,
	CriterionCellStudies,
	CriterionMiceStudies,
	CriterionCaseReport,
	CriterionSeriesOfCaseReports,
	CriterionClinicalStudy,
	CriterionClinicalStudyOnChildren,
	CriterionNovelty,
}

// Result is the outcome of applying the rubric to one article.
type Result struct {
	OverallPoints  int
	PointBreakdown map[string]int
}

// Score applies the rubric to one article's metadata. It is a pure
// function: same metadata and disease in, same score out, every time.
// Missing fields have already decoded to their zero values, so a malformed
// article scores low rather than failing.
//
// The total is not floored at zero: a review with nothing else going for it
// scores negative, and that ordering is preserved.
func Score(meta api.ArticleMetadata, patientDisease string) Result {
	breakdown := make(map[string]int, len(Criteria))
	for _, c := range Criteria {
		breakdown[c] = 0
	}

	if meta.PediatricFocus {
		breakdown[CriterionPediatricFocus] = pointsPediatricFocus
	}

	if diseaseMatches(meta.Disease(), patientDisease) {
		breakdown[CriterionDiseaseMatch] = pointsDiseaseMatch
	}

	paperType := strings.ToLower(meta.PaperType)
	switch {
	case strings.Contains(paperType, "clinical trial"):
		breakdown[CriterionPaperType] = pointsClinicalTrial
	case strings.Contains(paperType, "review"):
		breakdown[CriterionPaperType] = pointsReview
	}

	matched := 0
	for _, event := range meta.ActionableEvents {
		if event.MatchesQuery {
			matched++
		}
	}
	breakdown[CriterionActionableEvents] = matched * pointsPerMatchedEvent

	if meta.DrugsTested {
		breakdown[CriterionDrugsTested] = pointsDrugsTested
	}

	// A positive result needs both the flag and at least one reported
	// outcome; the flag alone has proven unreliable in model output.
	if meta.TreatmentShown && len(meta.DrugResults) > 0 {
		breakdown[CriterionTreatmentShown] = pointsTreatmentShown
	}

	if meta.CellStudies {
		breakdown[CriterionCellStudies] = pointsCellStudies
	}
	if meta.MiceStudies {
		breakdown[CriterionMiceStudies] = pointsMiceStudies
	}
	if meta.CaseReport {
		breakdown[CriterionCaseReport] = pointsCaseReport
	}
	if meta.SeriesOfCaseReports {
		breakdown[CriterionSeriesOfCaseReports] = pointsSeriesOfCaseReports
	}
	if meta.ClinicalStudy {
		breakdown[CriterionClinicalStudy] = pointsClinicalStudy
	}
	if meta.ClinicalStudyOnChildren {
		breakdown[CriterionClinicalStudyOnChildren] = pointsClinicalStudyOnChildren
	}
	if meta.Novelty {
		breakdown[CriterionNovelty] = pointsNovelty
	}

	total := 0
	for _, points := range breakdown {
		total += points
	}

	return Result{
		OverallPoints:  total,
		PointBreakdown: breakdown,
	}
}

func diseaseMatches(articleDisease, patientDisease string) bool {
	articleDisease = strings.TrimSpace(articleDisease)
	patientDisease = strings.TrimSpace(patientDisease)
	if articleDisease == "" || patientDisease == "" {
		return false
	}
	return strings.EqualFold(articleDisease, patientDisease)
}
