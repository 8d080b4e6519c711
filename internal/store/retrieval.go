package store

import (
	"context"

	"github.com/capricorn-med/litreview/internal/store/model"
	"gorm.io/gorm"
)

type Retrieval interface {
	Create(ctx context.Context, retrieval model.Retrieval) (*model.Retrieval, error)
	List(ctx context.Context) ([]model.Retrieval, error)
}

type RetrievalStore struct {
	db *gorm.DB
}

func NewRetrievalStore(db *gorm.DB) Retrieval {
	return &RetrievalStore{db: db}
}

func (s *RetrievalStore) Create(ctx context.Context, retrieval model.Retrieval) (*model.Retrieval, error) {
	if err := s.db.WithContext(ctx).Create(&retrieval).Error; err != nil {
		return nil, err
	}
	return &retrieval, nil
}

func (s *RetrievalStore) List(ctx context.Context) ([]model.Retrieval, error) {
	var rows []model.Retrieval
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
