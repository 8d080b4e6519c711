// Package stream implements the progress stream protocol: a sequence of
// newline-delimited JSON records written to an open connection as a
// retrieval session advances. The contract is the record shapes and the
// ordering guarantees, not the transport.
package stream

import (
	"encoding/json"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
)

// Record types.
const (
	TypeMetadata        = "metadata"
	TypePMIDs           = "pmids"
	TypeArticleAnalysis = "article_analysis"
	TypeError           = "error"
)

// Session statuses carried by metadata records.
const (
	StatusProcessing = "processing"
	StatusComplete   = "complete"
)

// Record is the envelope every stream line decodes to. Data stays raw until
// the consumer knows the type.
type Record struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MetadataPayload announces session progress. TotalArticles is only set on
// the initial "processing" record.
type MetadataPayload struct {
	Status        string `json:"status"`
	TotalArticles *int   `json:"total_articles,omitempty"`
}

// PMIDsPayload carries the full candidate list in source order, emitted
// before any per-article record.
type PMIDsPayload struct {
	PMIDs []string `json:"pmids"`
}

// Progress counts emitted analyses. ArticleNumber is an emission-order
// counter: concurrent scoring finishes in unpredictable order, so it does
// not correspond to the candidate's original rank. Key results by pmid.
type Progress struct {
	ArticleNumber int `json:"article_number"`
	TotalArticles int `json:"total_articles"`
}

// Analysis wraps the scored article under the key the consumer renders.
type Analysis struct {
	ArticleMetadata api.ScoredArticle `json:"article_metadata"`
}

// ArticleAnalysisPayload is one completed article.
type ArticleAnalysisPayload struct {
	Analysis Analysis `json:"analysis"`
	Progress Progress `json:"progress"`
}

// ErrorPayload is a terminal session failure. Per-article failures are
// skipped silently; only errors that stop the whole session appear here.
type ErrorPayload struct {
	Message string `json:"message"`
}

func newRecord(recordType string, payload any) (Record, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Record{}, err
	}
	return Record{Type: recordType, Data: data}, nil
}

// Metadata decodes the record's payload as a MetadataPayload.
func (r Record) Metadata() (MetadataPayload, error) {
	var p MetadataPayload
	err := json.Unmarshal(r.Data, &p)
	return p, err
}

// PMIDs decodes the record's payload as a PMIDsPayload.
func (r Record) PMIDs() (PMIDsPayload, error) {
	var p PMIDsPayload
	err := json.Unmarshal(r.Data, &p)
	return p, err
}

// ArticleAnalysis decodes the record's payload as an ArticleAnalysisPayload.
func (r Record) ArticleAnalysis() (ArticleAnalysisPayload, error) {
	var p ArticleAnalysisPayload
	err := json.Unmarshal(r.Data, &p)
	return p, err
}

// Error decodes the record's payload as an ErrorPayload.
func (r Record) Error() (ErrorPayload, error) {
	var p ErrorPayload
	err := json.Unmarshal(r.Data, &p)
	return p, err
}
