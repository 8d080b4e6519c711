package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/capricorn-med/litreview/internal/store/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JournalImpact interface {
	Map(ctx context.Context) (map[string]float64, error)
	Get(ctx context.Context, title string) (float64, error)
	Seed(ctx context.Context, r io.Reader) (int, error)
	Count(ctx context.Context) (int64, error)
}

type JournalImpactStore struct {
	db *gorm.DB
}

func NewJournalImpactStore(db *gorm.DB) JournalImpact {
	return &JournalImpactStore{db: db}
}

// Map loads the whole table into memory. The table is small (tens of
// thousands of rows at most) and read once per process, mirroring how the
// rank data is used to build extraction prompts.
func (s *JournalImpactStore) Map(ctx context.Context) (map[string]float64, error) {
	var rows []model.JournalImpact
	if err := s.db.WithContext(ctx).Order("sjr DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	impact := make(map[string]float64, len(rows))
	for _, row := range rows {
		impact[row.Title] = row.SJR
	}
	return impact, nil
}

func (s *JournalImpactStore) Get(ctx context.Context, title string) (float64, error) {
	var row model.JournalImpact
	if err := s.db.WithContext(ctx).First(&row, "title = ?", title).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrRecordNotFound
		}
		return 0, err
	}
	return row.SJR, nil
}

// Seed upserts journal ranks from a CSV of title,sjr pairs. Rows with an
// unparseable score are skipped with a warning, not fatal.
func (s *JournalImpactStore) Seed(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	seeded := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return seeded, fmt.Errorf("read journal impact csv: %w", err)
		}
		if len(record) < 2 {
			continue
		}

		sjr, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			zap.S().Named("store").Warnw("skipping journal rank row with bad score",
				"title", record[0], "score", record[1])
			continue
		}

		row := model.JournalImpact{Title: record[0], SJR: sjr}
		if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}},
			DoUpdates: clause.AssignmentColumns([]string{"sjr"}),
		}).Create(&row).Error; err != nil {
			return seeded, err
		}
		seeded++
	}

	return seeded, nil
}

func (s *JournalImpactStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.JournalImpact{}).Count(&count).Error
	return count, err
}
