package store_test

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/capricorn-med/litreview/internal/config"
	"github.com/capricorn-med/litreview/internal/store"
	"github.com/capricorn-med/litreview/internal/store/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("store", Ordered, func() {
	var s store.Store

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		_ = s.Close()
	})

	Context("journal impact", func() {
		It("seeds from csv and looks up scores", func() {
			csv := strings.Join([]string{
				"The Lancet Oncology,12.5",
				"Blood,9.2",
				"Bad Row,not-a-number",
				"Nature Medicine,20.1",
			}, "\n")

			seeded, err := s.JournalImpact().Seed(context.TODO(), strings.NewReader(csv))
			Expect(err).To(BeNil())
			Expect(seeded).To(Equal(3))

			count, err := s.JournalImpact().Count(context.TODO())
			Expect(err).To(BeNil())
			Expect(count).To(Equal(int64(3)))

			sjr, err := s.JournalImpact().Get(context.TODO(), "Blood")
			Expect(err).To(BeNil())
			Expect(sjr).To(BeNumerically("~", 9.2, 0.001))

			_, err = s.JournalImpact().Get(context.TODO(), "Unknown Journal")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})

		It("loads the whole table as a map", func() {
			impact, err := s.JournalImpact().Map(context.TODO())
			Expect(err).To(BeNil())
			Expect(impact).To(HaveKeyWithValue("Nature Medicine", BeNumerically("~", 20.1, 0.001)))
			Expect(impact).To(HaveLen(3))
		})

		It("upserts on reseed", func() {
			_, err := s.JournalImpact().Seed(context.TODO(), strings.NewReader("Blood,10.0"))
			Expect(err).To(BeNil())

			sjr, err := s.JournalImpact().Get(context.TODO(), "Blood")
			Expect(err).To(BeNil())
			Expect(sjr).To(BeNumerically("~", 10.0, 0.001))

			count, err := s.JournalImpact().Count(context.TODO())
			Expect(err).To(BeNil())
			Expect(count).To(Equal(int64(3)))
		})
	})

	Context("retrieval audit", func() {
		It("persists a terminal session row", func() {
			row, err := s.Retrieval().Create(context.TODO(), model.Retrieval{
				ID:                uuid.New(),
				Disease:           "Leukemia (AML)",
				TotalArticles:     5,
				ProcessedArticles: 4,
				Status:            "complete",
				DurationMS:        12345,
				CreatedAt:         time.Now(),
			})
			Expect(err).To(BeNil())
			Expect(row).NotTo(BeNil())

			rows, err := s.Retrieval().List(context.TODO())
			Expect(err).To(BeNil())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Disease).To(Equal("Leukemia (AML)"))
			Expect(rows[0].ProcessedArticles).To(Equal(4))
		})
	})

	Context("feedback", func() {
		It("persists clinician feedback", func() {
			row, err := s.Feedback().Create(context.TODO(), model.Feedback{
				ID:        uuid.New(),
				Name:      "Dr. Example",
				Email:     "doc@example.org",
				Message:   "ranking looked right for this case",
				CreatedAt: time.Now(),
			})
			Expect(err).To(BeNil())
			Expect(row).NotTo(BeNil())
		})
	})
})
