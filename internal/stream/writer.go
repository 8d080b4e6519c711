package stream

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
)

// Writer emits progress records as newline-delimited JSON. Each record is
// written and flushed immediately; buffering records into one final payload
// would defeat the protocol, since per-article scoring can take many
// seconds and the caller renders live progress.
//
// Writer is safe for concurrent use: each worker's append-and-emit is a
// single atomic operation under the lock.
type Writer struct {
	mu      sync.Mutex
	w       io.Writer
	flusher http.Flusher
}

// NewWriter wraps w. If w also implements http.Flusher, every record is
// flushed to the client as it is written.
func NewWriter(w io.Writer) *Writer {
	sw := &Writer{w: w}
	if f, ok := w.(http.Flusher); ok {
		sw.flusher = f
	}
	return sw
}

func (w *Writer) write(recordType string, payload any) error {
	rec, err := newRecord(recordType, payload)
	if err != nil {
		return err
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(line); err != nil {
		return err
	}
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}

// WritePMIDs emits the candidate list in source order.
func (w *Writer) WritePMIDs(pmids []string) error {
	if pmids == nil {
		pmids = []string{}
	}
	return w.write(TypePMIDs, PMIDsPayload{PMIDs: pmids})
}

// WriteProcessing announces that total articles are about to be scored.
func (w *Writer) WriteProcessing(total int) error {
	return w.write(TypeMetadata, MetadataPayload{Status: StatusProcessing, TotalArticles: &total})
}

// WriteComplete marks the end of a successful session.
func (w *Writer) WriteComplete() error {
	return w.write(TypeMetadata, MetadataPayload{Status: StatusComplete})
}

// WriteAnalysis emits one scored article with its progress counters.
func (w *Writer) WriteAnalysis(article api.ScoredArticle, articleNumber, total int) error {
	return w.write(TypeArticleAnalysis, ArticleAnalysisPayload{
		Analysis: Analysis{ArticleMetadata: article},
		Progress: Progress{ArticleNumber: articleNumber, TotalArticles: total},
	})
}

// WriteError emits a terminal error record. The stream ends after this.
func (w *Writer) WriteError(message string) error {
	return w.write(TypeError, ErrorPayload{Message: message})
}
