package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/config"
	"github.com/capricorn-med/litreview/internal/events"
	"github.com/capricorn-med/litreview/internal/extraction"
	"github.com/capricorn-med/litreview/internal/scoring"
	"github.com/capricorn-med/litreview/internal/source"
	"github.com/capricorn-med/litreview/internal/store"
	"github.com/capricorn-med/litreview/internal/store/model"
	"github.com/capricorn-med/litreview/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultNumArticles = 15

// ProgressWriter receives pipeline progress in emission order. stream.Writer
// is the production implementation.
type ProgressWriter interface {
	WritePMIDs(pmids []string) error
	WriteProcessing(total int) error
	WriteComplete() error
	WriteAnalysis(article api.ScoredArticle, articleNumber, total int) error
	WriteError(message string) error
}

// MetadataExtractor is the per-article extraction contract.
type MetadataExtractor interface {
	Extract(ctx context.Context, req extraction.Request) (api.ArticleMetadata, error)
}

// RetrievalService drives one retrieval session end to end: search, fan the
// candidates out to a bounded worker pool, score each article and emit it on
// the progress stream as soon as it is ready.
type RetrievalService struct {
	log           *zap.SugaredLogger
	source        source.Client
	extractor     MetadataExtractor
	store         store.Store
	producer      *events.Producer
	journalImpact map[string]float64
	cfg           *config.Config
}

func NewRetrievalService(
	cfg *config.Config,
	src source.Client,
	extractor MetadataExtractor,
	st store.Store,
	producer *events.Producer,
	journalImpact map[string]float64,
) *RetrievalService {
	return &RetrievalService{
		log:           zap.S().Named("retrieval_service"),
		source:        src,
		extractor:     extractor,
		store:         st,
		producer:      producer,
		journalImpact: journalImpact,
		cfg:           cfg,
	}
}

// Run executes a retrieval session and writes every progress record to out.
// The pmids record always precedes any article analysis. Per-article
// failures are skipped; only search-stage failures terminate the stream
// with an error record.
func (s *RetrievalService) Run(ctx context.Context, form api.RetrievalRequest, out ProgressWriter) error {
	sess := NewSession(form.Disease, form.Events)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Pipeline.SessionTimeout)
	defer cancel()

	num := s.clampNumArticles(form.NumArticles)
	s.log.Infow("retrieval session started",
		"session_id", sess.ID, "disease", form.Disease,
		"events", len(form.Events), "num_articles", num)
	s.publish(sess, "started")

	candidates, err := s.source.Search(ctx, source.Query{
		Disease:     form.Disease,
		Events:      form.Events,
		NumArticles: num,
	})
	if err != nil {
		return s.fail(sess, out, start, NewErrSourceUnavailable(err))
	}
	if len(candidates) == 0 {
		return s.fail(sess, out, start, NewErrNoCandidates(form.Disease))
	}

	pmids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		pmids = append(pmids, c.PMID)
	}

	sess.Begin(len(candidates))
	if err := out.WritePMIDs(pmids); err != nil {
		return s.abandon(sess, start, err)
	}
	if err := out.WriteProcessing(len(candidates)); err != nil {
		return s.abandon(sess, start, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Pipeline.Concurrency)
	for _, candidate := range candidates {
		candidate := candidate
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			s.processCandidate(gctx, sess, candidate, form, out)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		// A dead deadline still has a live reader; a cancelled context
		// means the client hung up and nobody is reading the stream.
		if errors.Is(err, context.DeadlineExceeded) {
			return s.fail(sess, out, start, NewErrSessionTimeout(s.cfg.Pipeline.SessionTimeout))
		}
		return s.abandon(sess, start, err)
	}

	sess.Complete()
	if err := out.WriteComplete(); err != nil {
		return s.abandon(sess, start, err)
	}

	s.finish(sess, "complete", start)
	return nil
}

// processCandidate extracts, scores and emits one article. Any failure is
// logged and counted, never surfaced to the stream: the remaining articles
// still ship and the session still completes.
func (s *RetrievalService) processCandidate(
	ctx context.Context,
	sess *Session,
	candidate source.Candidate,
	form api.RetrievalRequest,
	out ProgressWriter,
) {
	start := time.Now()

	actx, cancel := context.WithTimeout(ctx, s.cfg.Pipeline.ArticleTimeout)
	defer cancel()

	meta, err := s.extractor.Extract(actx, extraction.Request{
		PMID:           candidate.PMID,
		FullText:       candidate.FullText,
		Disease:        form.Disease,
		Events:         form.Events,
		JournalImpact:  s.journalImpact,
		PromptTemplate: form.ScoringPromptTemplate,
	})
	if err != nil {
		s.log.Warnw("skipping article",
			"session_id", sess.ID, "pmid", candidate.PMID, "error", err)
		sess.MarkFailed()
		metrics.IncreaseArticleFailuresTotalMetric(failureReason(err))
		return
	}

	result := scoring.Score(meta, form.Disease)
	article := api.ScoredArticle{
		ArticleMetadata: meta,
		PMID:            candidate.PMID,
		Link:            pubmedLink(candidate.PMID),
		OverallPoints:   result.OverallPoints,
		PointBreakdown:  result.PointBreakdown,
		FullText:        candidate.FullText,
	}

	emitted, err := sess.AppendAndEmit(article, out)
	if err != nil {
		s.log.Warnw("failed to emit article analysis",
			"session_id", sess.ID, "pmid", candidate.PMID, "error", err)
		return
	}
	if !emitted {
		s.log.Debugw("dropping duplicate pmid",
			"session_id", sess.ID, "pmid", candidate.PMID)
		return
	}

	metrics.IncreaseArticlesScoredTotalMetric()
	metrics.ObserveArticleScoringDuration(time.Since(start))
}

// fail terminates the stream with an error record. Used only for failures
// that precede any article analysis.
func (s *RetrievalService) fail(sess *Session, out ProgressWriter, start time.Time, err error) error {
	sess.Fail()
	s.log.Errorw("retrieval session failed", "session_id", sess.ID, "error", err)
	if werr := out.WriteError(err.Error()); werr != nil {
		s.log.Warnw("failed to write error record", "session_id", sess.ID, "error", werr)
	}
	s.finish(sess, "error", start)
	return err
}

// abandon records a session whose client went away or whose deadline
// expired. The stream is not written to: nobody is reading it.
func (s *RetrievalService) abandon(sess *Session, start time.Time, err error) error {
	sess.Fail()
	s.log.Infow("retrieval session abandoned", "session_id", sess.ID, "reason", err)
	s.finish(sess, "cancelled", start)
	return err
}

// finish flushes terminal bookkeeping: metrics, the audit row and the
// lifecycle event. All of it is best-effort.
func (s *RetrievalService) finish(sess *Session, status string, start time.Time) {
	elapsed := time.Since(start)
	total, processed, failed := sess.Counts()

	metrics.IncreaseRetrievalSessionsTotalMetric(status)
	metrics.ObserveRetrievalSessionDuration(elapsed)

	s.log.Infow("retrieval session finished",
		"session_id", sess.ID, "status", status,
		"total", total, "processed", processed, "failed", failed,
		"duration", elapsed)

	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := s.store.Retrieval().Create(ctx, model.Retrieval{
			ID:                sess.ID,
			Disease:           sess.Disease,
			TotalArticles:     total,
			ProcessedArticles: processed,
			Status:            status,
			DurationMS:        elapsed.Milliseconds(),
			CreatedAt:         start,
		})
		if err != nil {
			s.log.Warnw("failed to persist retrieval audit row",
				"session_id", sess.ID, "error", err)
		}
	}

	s.publish(sess, status)
}

func (s *RetrievalService) publish(sess *Session, status string) {
	if s.producer == nil {
		return
	}
	total, processed, _ := sess.Counts()
	s.producer.PublishRetrieval(events.RetrievalEvent{
		SessionID:         sess.ID.String(),
		Disease:           sess.Disease,
		Status:            status,
		TotalArticles:     total,
		ProcessedArticles: processed,
	})
}

// clampNumArticles folds the requested count into the supported range. Zero
// means the caller did not ask, which gets the default.
func (s *RetrievalService) clampNumArticles(n int) int {
	if n == 0 {
		n = defaultNumArticles
	}
	if n < 1 {
		n = 1
	}
	if n > s.cfg.Pipeline.MaxArticles {
		n = s.cfg.Pipeline.MaxArticles
	}
	return n
}

func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "extraction"
}

func pubmedLink(pmid string) string {
	return fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", pmid)
}
