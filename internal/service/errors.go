package service

import (
	"fmt"
	"time"
)

// ErrNoCandidates means the search stage returned an empty candidate list;
// the session cannot make progress.
type ErrNoCandidates struct {
	error
}

func NewErrNoCandidates(disease string) *ErrNoCandidates {
	return &ErrNoCandidates{fmt.Errorf("no candidate articles found for %q", disease)}
}

// ErrSourceUnavailable means the search backend could not be reached or
// answered with garbage. Terminal for the session.
type ErrSourceUnavailable struct {
	error
}

func NewErrSourceUnavailable(err error) *ErrSourceUnavailable {
	return &ErrSourceUnavailable{fmt.Errorf("article source unavailable: %w", err)}
}

// ErrSessionTimeout means the session's wall-clock budget ran out before
// every candidate was processed. Articles already streamed stay valid.
type ErrSessionTimeout struct {
	error
}

func NewErrSessionTimeout(timeout time.Duration) *ErrSessionTimeout {
	return &ErrSessionTimeout{fmt.Errorf("session timed out after %s before all articles were processed", timeout)}
}

// ErrCompositionFailed marks a failure of the follow-up narrative step. It
// never invalidates already-streamed article scores.
type ErrCompositionFailed struct {
	error
}

func NewErrCompositionFailed(err error) *ErrCompositionFailed {
	return &ErrCompositionFailed{fmt.Errorf("final analysis composition failed: %w", err)}
}
