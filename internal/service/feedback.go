package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/store"
	"github.com/capricorn-med/litreview/internal/store/model"
	"go.uber.org/zap"
)

// FeedbackService persists clinician feedback.
type FeedbackService struct {
	log   *zap.SugaredLogger
	store store.Store
}

func NewFeedbackService(st store.Store) *FeedbackService {
	return &FeedbackService{
		log:   zap.S().Named("feedback_service"),
		store: st,
	}
}

func (s *FeedbackService) Create(ctx context.Context, form api.FeedbackRequest) error {
	_, err := s.store.Feedback().Create(ctx, model.Feedback{
		ID:        uuid.New(),
		Name:      form.Name,
		Email:     form.Email,
		Message:   form.Message,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.log.Errorw("failed to persist feedback", "error", err)
		return err
	}
	return nil
}
