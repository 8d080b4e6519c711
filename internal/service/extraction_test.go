package service_test

import (
	"context"
	"fmt"
	"strings"

	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/service"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

var _ = Describe("extraction service", func() {
	var client *fakeLLM

	BeforeEach(func() {
		client = &fakeLLM{}
	})

	It("returns the trimmed response as the disease label", func() {
		client.response = "  Acute Myeloid Leukemia\n"

		res, err := service.NewExtractionService(client).Extract(context.Background(), api.ExtractionRequest{
			Text:           "patient notes",
			ExtractionType: "disease",
			Prompt:         "name the disease",
		})
		Expect(err).To(BeNil())
		Expect(res.Disease).To(Equal("Acute Myeloid Leukemia"))
		Expect(res.Events).To(BeEmpty())
	})

	It("parses double-quoted terms as events", func() {
		client.response = `The actionable events are "KMT2A rearrangement", "FLT3-ITD" and "NRAS G12D".`

		res, err := service.NewExtractionService(client).Extract(context.Background(), api.ExtractionRequest{
			Text:           "patient notes",
			ExtractionType: "events",
			Prompt:         "list the events",
		})
		Expect(err).To(BeNil())
		Expect(res.Events).To(Equal([]string{"KMT2A rearrangement", "FLT3-ITD", "NRAS G12D"}))
	})

	It("includes the case notes beneath the caller's prompt", func() {
		client.response = "x"

		_, err := service.NewExtractionService(client).Extract(context.Background(), api.ExtractionRequest{
			Text:           "7yo with refractory AML",
			ExtractionType: "disease",
			Prompt:         "name the disease",
		})
		Expect(err).To(BeNil())
		Expect(client.lastPrompt).To(HavePrefix("name the disease"))
		Expect(client.lastPrompt).To(ContainSubstring("7yo with refractory AML"))
	})

	It("propagates model failures", func() {
		client.err = fmt.Errorf("model unavailable")

		_, err := service.NewExtractionService(client).Extract(context.Background(), api.ExtractionRequest{
			Text:           "notes",
			ExtractionType: "events",
			Prompt:         "list",
		})
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("ParseQuotedEvents",
		func(raw string, expected []string) {
			Expect(service.ParseQuotedEvents(raw)).To(Equal(expected))
		},
		Entry("plain list", `"a", "b"`, []string{"a", "b"}),
		Entry("surrounding prose", `Events found: "ALK fusion". Nothing else.`, []string{"ALK fusion"}),
		Entry("empty quotes dropped", `"" "x" ""`, []string{"x"}),
		Entry("no quotes", `nothing actionable`, []string{}),
		Entry("whitespace inside quotes trimmed", `" MYCN amplification "`, []string{"MYCN amplification"}),
	)
})

var _ = Describe("analysis service", func() {
	var client *fakeLLM

	BeforeEach(func() {
		client = &fakeLLM{response: "  narrative text  "}
	})

	form := func() api.AnalysisRequest {
		return api.AnalysisRequest{
			CaseNotes: "7yo with relapsed neuroblastoma",
			Disease:   "Neuroblastoma",
			Events:    []string{"MYCN amplification"},
			Articles: []api.ScoredArticle{
				{
					ArticleMetadata: api.ArticleMetadata{
						Title:        "ALK inhibition in neuroblastoma",
						Year:         "2021",
						JournalTitle: "The Lancet Oncology",
						PaperType:    "clinical trial",
						ActionableEvents: []api.ActionableEvent{
							{Event: "MYCN amplification", MatchesQuery: true},
							{Event: "TP53 mutation", MatchesQuery: false},
						},
						DrugResults: []string{"lorlatinib partial response"},
					},
					PMID:          "111",
					OverallPoints: 140,
				},
			},
		}
	}

	It("folds the case and the scored articles into the prompt", func() {
		res, err := service.NewAnalysisService(client).Compose(context.Background(), form())
		Expect(err).To(BeNil())
		Expect(res.Content).To(Equal("narrative text"))

		Expect(client.lastPrompt).To(ContainSubstring("Neuroblastoma"))
		Expect(client.lastPrompt).To(ContainSubstring("7yo with relapsed neuroblastoma"))
		Expect(client.lastPrompt).To(ContainSubstring("PMID 111 (140 points)"))
		Expect(client.lastPrompt).To(ContainSubstring("lorlatinib partial response"))
		// only matching events make the summary
		Expect(client.lastPrompt).To(ContainSubstring("MYCN amplification"))
		Expect(strings.Count(client.lastPrompt, "TP53 mutation")).To(Equal(0))
	})

	It("lists articles highest-scored first regardless of caller order", func() {
		req := form()
		req.Articles = []api.ScoredArticle{
			{PMID: "111", OverallPoints: 30},
			{PMID: "222", OverallPoints: 140},
			{PMID: "333", OverallPoints: 85},
		}

		_, err := service.NewAnalysisService(client).Compose(context.Background(), req)
		Expect(err).To(BeNil())

		first := strings.Index(client.lastPrompt, "PMID 222")
		second := strings.Index(client.lastPrompt, "PMID 333")
		third := strings.Index(client.lastPrompt, "PMID 111")
		Expect(first).To(BeNumerically(">=", 0))
		Expect(first).To(BeNumerically("<", second))
		Expect(second).To(BeNumerically("<", third))
	})

	It("wraps model failures as composition errors", func() {
		client.err = fmt.Errorf("model unavailable")

		_, err := service.NewAnalysisService(client).Compose(context.Background(), form())
		Expect(err).To(BeAssignableToTypeOf(&service.ErrCompositionFailed{}))
	})
})
