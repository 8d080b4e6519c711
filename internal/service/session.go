package service

import (
	"sync"

	"github.com/google/uuid"
	api "github.com/capricorn-med/litreview/api/v1alpha1"
)

type SessionStatus string

const (
	SessionPending    SessionStatus = "pending"
	SessionProcessing SessionStatus = "processing"
	SessionComplete   SessionStatus = "complete"
	SessionError      SessionStatus = "error"
)

// Session is the transient state of one retrieval run. It is owned
// exclusively by the orchestrator and shares nothing with other sessions.
// Workers touch it only through AppendAndEmit, which performs the append
// and the stream write as one atomic step under the lock.
type Session struct {
	ID      uuid.UUID
	Disease string
	Events  []string

	mu        sync.Mutex
	status    SessionStatus
	total     int
	seen      map[string]struct{}
	processed []api.ScoredArticle
	failed    int
	emitted   int
}

func NewSession(disease string, patientEvents []string) *Session {
	return &Session{
		ID:      uuid.New(),
		Disease: disease,
		Events:  patientEvents,
		status:  SessionPending,
		seen:    make(map[string]struct{}),
	}
}

// Begin records the candidate count and moves the session to processing.
func (s *Session) Begin(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
	s.status = SessionProcessing
}

// AppendAndEmit stores a scored article and writes its analysis record.
// Duplicate pmids are dropped: every pmid is unique within a session. The
// article number handed to the stream is the emission-order counter, not
// the candidate's original rank.
func (s *Session) AppendAndEmit(article api.ScoredArticle, out ProgressWriter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[article.PMID]; dup {
		return false, nil
	}
	s.seen[article.PMID] = struct{}{}
	s.processed = append(s.processed, article)
	s.emitted++

	return true, out.WriteAnalysis(article, s.emitted, s.total)
}

// MarkFailed advances the failure counter for an article that was skipped.
func (s *Session) MarkFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
}

func (s *Session) Complete() {
	s.setStatus(SessionComplete)
}

func (s *Session) Fail() {
	s.setStatus(SessionError)
}

func (s *Session) setStatus(status SessionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

func (s *Session) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Processed returns a copy of the articles scored so far.
func (s *Session) Processed() []api.ScoredArticle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.ScoredArticle, len(s.processed))
	copy(out, s.processed)
	return out
}

func (s *Session) Counts() (total, processed, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total, len(s.processed), s.failed
}
