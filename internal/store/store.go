package store

import (
	"github.com/capricorn-med/litreview/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	JournalImpact() JournalImpact
	Retrieval() Retrieval
	Feedback() Feedback
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db            *gorm.DB
	journalImpact JournalImpact
	retrieval     Retrieval
	feedback      Feedback
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:            db,
		journalImpact: NewJournalImpactStore(db),
		retrieval:     NewRetrievalStore(db),
		feedback:      NewFeedbackStore(db),
	}
}

func (s *DataStore) JournalImpact() JournalImpact {
	return s.journalImpact
}

func (s *DataStore) Retrieval() Retrieval {
	return s.retrieval
}

func (s *DataStore) Feedback() Feedback {
	return s.feedback
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.JournalImpact{},
		&model.Retrieval{},
		&model.Feedback{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
