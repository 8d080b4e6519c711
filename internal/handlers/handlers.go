// Package handlers exposes the HTTP surface: the streaming retrieval
// endpoint plus the JSON endpoints for case extraction, narrative
// composition and feedback.
package handlers

import (
	"net/http"

	"github.com/go-chi/render"
	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/service"
)

type ServiceHandler struct {
	retrievalSrv  *service.RetrievalService
	extractionSrv *service.ExtractionService
	analysisSrv   *service.AnalysisService
	feedbackSrv   *service.FeedbackService
}

func NewServiceHandler(
	retrievalService *service.RetrievalService,
	extractionService *service.ExtractionService,
	analysisService *service.AnalysisService,
	feedbackService *service.FeedbackService,
) *ServiceHandler {
	return &ServiceHandler{
		retrievalSrv:  retrievalService,
		extractionSrv: extractionService,
		analysisSrv:   analysisService,
		feedbackSrv:   feedbackService,
	}
}

// (GET /health)
func (s *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, api.Error{Message: message})
}
