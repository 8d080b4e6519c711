package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	litreview = "litreview"

	// Retrieval pipeline metrics
	retrievalSessionsTotal  = "retrieval_sessions_total"
	articlesScoredTotal     = "articles_scored_total"
	articleFailuresTotal    = "article_failures_total"
	articleScoringSeconds   = "article_scoring_duration_seconds"
	retrievalSessionSeconds = "retrieval_session_duration_seconds"

	// Labels
	sessionStatusLabel = "status"
	failureReasonLabel = "reason"
)

var retrievalSessionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: litreview,
		Name:      retrievalSessionsTotal,
		Help:      "number of retrieval sessions partitioned by terminal status",
	},
	[]string{sessionStatusLabel},
)

var articlesScoredTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: litreview,
		Name:      articlesScoredTotal,
		Help:      "number of articles scored and emitted on a progress stream",
	},
)

var articleFailuresTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: litreview,
		Name:      articleFailuresTotal,
		Help:      "number of per-article failures skipped without failing the session",
	},
	[]string{failureReasonLabel},
)

var articleScoringSecondsMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: litreview,
		Name:      articleScoringSeconds,
		Help:      "time spent extracting and scoring one article",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	},
)

var retrievalSessionSecondsMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: litreview,
		Name:      retrievalSessionSeconds,
		Help:      "wall-clock duration of a retrieval session",
		Buckets:   []float64{5, 30, 60, 300, 600, 1800},
	},
)

func IncreaseRetrievalSessionsTotalMetric(status string) {
	retrievalSessionsTotalMetric.With(prometheus.Labels{sessionStatusLabel: status}).Inc()
}

func IncreaseArticlesScoredTotalMetric() {
	articlesScoredTotalMetric.Inc()
}

func IncreaseArticleFailuresTotalMetric(reason string) {
	articleFailuresTotalMetric.With(prometheus.Labels{failureReasonLabel: reason}).Inc()
}

func ObserveArticleScoringDuration(d time.Duration) {
	articleScoringSecondsMetric.Observe(d.Seconds())
}

func ObserveRetrievalSessionDuration(d time.Duration) {
	retrievalSessionSecondsMetric.Observe(d.Seconds())
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(retrievalSessionsTotalMetric)
	prometheus.MustRegister(articlesScoredTotalMetric)
	prometheus.MustRegister(articleFailuresTotalMetric)
	prometheus.MustRegister(articleScoringSecondsMetric)
	prometheus.MustRegister(retrievalSessionSecondsMetric)
}
