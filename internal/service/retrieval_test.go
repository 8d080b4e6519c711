package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/config"
	"github.com/capricorn-med/litreview/internal/extraction"
	"github.com/capricorn-med/litreview/internal/service"
	"github.com/capricorn-med/litreview/internal/source"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeSource struct {
	mu         sync.Mutex
	candidates []source.Candidate
	err        error
	lastQuery  source.Query
}

func (f *fakeSource) Search(_ context.Context, query source.Query) ([]source.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func (f *fakeSource) LastQuery() source.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

type fakeExtractor struct {
	// failing pmids error out; everything else returns metadata whose
	// title carries the pmid so tests can trace emissions back
	failing map[string]bool
}

func (f *fakeExtractor) Extract(ctx context.Context, req extraction.Request) (api.ArticleMetadata, error) {
	if err := ctx.Err(); err != nil {
		return api.ArticleMetadata{}, err
	}
	if f.failing[req.PMID] {
		return api.ArticleMetadata{}, fmt.Errorf("model returned garbage for %s", req.PMID)
	}
	return api.ArticleMetadata{
		Title:        "article " + req.PMID,
		TypeOfCancer: req.Disease,
		PaperType:    "clinical trial",
	}, nil
}

// stalledExtractor never answers; it holds every article until the
// surrounding context gives up.
type stalledExtractor struct{}

func (s *stalledExtractor) Extract(ctx context.Context, _ extraction.Request) (api.ArticleMetadata, error) {
	<-ctx.Done()
	return api.ArticleMetadata{}, ctx.Err()
}

type emission struct {
	kind    string
	pmids   []string
	total   int
	number  int
	article api.ScoredArticle
	message string
}

// recorder captures stream records in write order.
type recorder struct {
	mu        sync.Mutex
	emissions []emission
}

func (r *recorder) record(e emission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emissions = append(r.emissions, e)
	return nil
}

func (r *recorder) WritePMIDs(pmids []string) error {
	return r.record(emission{kind: "pmids", pmids: pmids})
}

func (r *recorder) WriteProcessing(total int) error {
	return r.record(emission{kind: "processing", total: total})
}

func (r *recorder) WriteComplete() error {
	return r.record(emission{kind: "complete"})
}

func (r *recorder) WriteAnalysis(article api.ScoredArticle, articleNumber, total int) error {
	return r.record(emission{kind: "analysis", article: article, number: articleNumber, total: total})
}

func (r *recorder) WriteError(message string) error {
	return r.record(emission{kind: "error", message: message})
}

func (r *recorder) Emissions() []emission {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]emission, len(r.emissions))
	copy(out, r.emissions)
	return out
}

func (r *recorder) ofKind(kind string) []emission {
	var out []emission
	for _, e := range r.Emissions() {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func candidates(pmids ...string) []source.Candidate {
	out := make([]source.Candidate, 0, len(pmids))
	for _, pmid := range pmids {
		out = append(out, source.Candidate{PMID: pmid, FullText: "full text of " + pmid})
	}
	return out
}

var _ = Describe("retrieval service", func() {
	var (
		cfg  *config.Config
		src  *fakeSource
		ext  *fakeExtractor
		out  *recorder
		form api.RetrievalRequest
	)

	newService := func() *service.RetrievalService {
		return service.NewRetrievalService(cfg, src, ext, nil, nil, nil)
	}

	BeforeEach(func() {
		cfg = config.NewDefault()
		src = &fakeSource{}
		ext = &fakeExtractor{failing: map[string]bool{}}
		out = &recorder{}
		form = api.RetrievalRequest{
			Disease:     "Neuroblastoma",
			Events:      []string{"MYCN amplification", "ALK mutation"},
			NumArticles: 5,
		}
	})

	It("streams pmids, processing and one analysis per article before completing", func() {
		src.candidates = candidates("100", "200", "300")

		Expect(newService().Run(context.Background(), form, out)).To(Succeed())

		emissions := out.Emissions()
		Expect(emissions[0].kind).To(Equal("pmids"))
		Expect(emissions[0].pmids).To(Equal([]string{"100", "200", "300"}))
		Expect(emissions[1].kind).To(Equal("processing"))
		Expect(emissions[1].total).To(Equal(3))
		Expect(emissions[len(emissions)-1].kind).To(Equal("complete"))

		analyses := out.ofKind("analysis")
		Expect(analyses).To(HaveLen(3))
	})

	It("numbers analyses by emission order regardless of candidate order", func() {
		src.candidates = candidates("100", "200", "300", "400")

		Expect(newService().Run(context.Background(), form, out)).To(Succeed())

		numbers := make([]int, 0, 4)
		for _, e := range out.ofKind("analysis") {
			Expect(e.total).To(Equal(4))
			numbers = append(numbers, e.number)
		}
		Expect(numbers).To(ConsistOf(1, 2, 3, 4))
	})

	It("reports the candidate count the source returned, not the requested count", func() {
		form.NumArticles = 10
		src.candidates = candidates("100", "200", "300")

		Expect(newService().Run(context.Background(), form, out)).To(Succeed())

		Expect(src.LastQuery().NumArticles).To(Equal(10))
		processing := out.ofKind("processing")
		Expect(processing).To(HaveLen(1))
		Expect(processing[0].total).To(Equal(3))
	})

	It("skips failing articles without an error record and still completes", func() {
		src.candidates = candidates("100", "200", "300", "400", "500")
		ext.failing["300"] = true

		Expect(newService().Run(context.Background(), form, out)).To(Succeed())

		Expect(out.ofKind("analysis")).To(HaveLen(4))
		Expect(out.ofKind("error")).To(BeEmpty())
		Expect(out.ofKind("complete")).To(HaveLen(1))

		for _, e := range out.ofKind("analysis") {
			Expect(e.article.PMID).NotTo(Equal("300"))
			Expect(e.total).To(Equal(5))
		}
	})

	It("scores and links every emitted article", func() {
		src.candidates = candidates("12345")

		Expect(newService().Run(context.Background(), form, out)).To(Succeed())

		analyses := out.ofKind("analysis")
		Expect(analyses).To(HaveLen(1))
		article := analyses[0].article
		Expect(article.Link).To(Equal("https://pubmed.ncbi.nlm.nih.gov/12345/"))
		// disease match + clinical trial paper type
		Expect(article.OverallPoints).To(Equal(90))
		Expect(article.PointBreakdown).To(HaveKeyWithValue("disease_match", 50))
		Expect(article.PointBreakdown).To(HaveKeyWithValue("paper_type", 40))
		Expect(article.FullText).To(Equal("full text of 12345"))
	})

	It("collapses duplicate pmids into a single analysis", func() {
		src.candidates = candidates("100", "100", "200")

		Expect(newService().Run(context.Background(), form, out)).To(Succeed())

		Expect(out.ofKind("analysis")).To(HaveLen(2))
	})

	It("terminates with an error record when the search stage fails", func() {
		src.err = fmt.Errorf("connection refused")

		err := newService().Run(context.Background(), form, out)
		Expect(err).To(BeAssignableToTypeOf(&service.ErrSourceUnavailable{}))

		emissions := out.Emissions()
		Expect(emissions).To(HaveLen(1))
		Expect(emissions[0].kind).To(Equal("error"))
		Expect(emissions[0].message).To(ContainSubstring("article source unavailable"))
	})

	It("terminates with an error record when no candidates are found", func() {
		src.candidates = nil

		err := newService().Run(context.Background(), form, out)
		Expect(err).To(BeAssignableToTypeOf(&service.ErrNoCandidates{}))

		Expect(out.ofKind("error")).To(HaveLen(1))
		Expect(out.ofKind("complete")).To(BeEmpty())
	})

	It("clamps the requested article count into the supported range", func() {
		src.candidates = candidates("100")

		form.NumArticles = 500
		Expect(newService().Run(context.Background(), form, out)).To(Succeed())
		Expect(src.LastQuery().NumArticles).To(Equal(50))

		form.NumArticles = 0
		Expect(newService().Run(context.Background(), form, out)).To(Succeed())
		Expect(src.LastQuery().NumArticles).To(Equal(15))

		form.NumArticles = -3
		Expect(newService().Run(context.Background(), form, out)).To(Succeed())
		Expect(src.LastQuery().NumArticles).To(Equal(1))
	})

	It("ends an expired session with a terminal error record, keeping streamed analyses", func() {
		cfg.Pipeline.SessionTimeout = 50 * time.Millisecond
		src.candidates = candidates("100", "200")

		err := service.NewRetrievalService(cfg, src, &stalledExtractor{}, nil, nil, nil).
			Run(context.Background(), form, out)
		Expect(err).To(BeAssignableToTypeOf(&service.ErrSessionTimeout{}))

		emissions := out.Emissions()
		Expect(emissions[0].kind).To(Equal("pmids"))
		Expect(emissions[1].kind).To(Equal("processing"))
		last := emissions[len(emissions)-1]
		Expect(last.kind).To(Equal("error"))
		Expect(last.message).To(ContainSubstring("timed out"))
		Expect(out.ofKind("complete")).To(BeEmpty())
	})

	It("stops without a complete record when the caller goes away", func() {
		src.candidates = candidates("100", "200")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := newService().Run(ctx, form, out)
		Expect(err).To(MatchError(context.Canceled))
		Expect(out.ofKind("complete")).To(BeEmpty())
	})
})
