package model

import (
	"time"

	"github.com/google/uuid"
)

// JournalImpact is one row of the journal rank table. SJR is contextual
// metadata fed into extraction prompts; it never contributes to scoring.
type JournalImpact struct {
	Title string  `gorm:"primaryKey"`
	SJR   float64 `gorm:"column:sjr;index:idx_journal_impacts_sjr,sort:desc"`
}

func (JournalImpact) TableName() string {
	return "journal_impacts"
}

// Retrieval is the audit row written when a session reaches a terminal
// state. The session itself is transient; this is the only trace kept.
type Retrieval struct {
	ID                uuid.UUID `gorm:"primaryKey"`
	Disease           string
	TotalArticles     int
	ProcessedArticles int
	Status            string
	DurationMS        int64
	CreatedAt         time.Time
}

// Feedback is a clinician-submitted note about a retrieval run.
type Feedback struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}
