package store

import (
	"context"

	"github.com/capricorn-med/litreview/internal/store/model"
	"gorm.io/gorm"
)

type Feedback interface {
	Create(ctx context.Context, feedback model.Feedback) (*model.Feedback, error)
}

type FeedbackStore struct {
	db *gorm.DB
}

func NewFeedbackStore(db *gorm.DB) Feedback {
	return &FeedbackStore{db: db}
}

func (s *FeedbackStore) Create(ctx context.Context, feedback model.Feedback) (*model.Feedback, error) {
	if err := s.db.WithContext(ctx).Create(&feedback).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}
