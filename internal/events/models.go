package events

// RetrievalEvent describes a retrieval session lifecycle change for
// downstream audit consumers.
type RetrievalEvent struct {
	SessionID         string `json:"session_id"`
	Disease           string `json:"disease"`
	Status            string `json:"status"`
	TotalArticles     int    `json:"total_articles"`
	ProcessedArticles int    `json:"processed_articles"`
}
