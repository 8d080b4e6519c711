package handlers

import (
	"net/http"

	"github.com/go-chi/render"
	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/handlers/validator"
)

// (POST /api/v1alpha1/extract)
func (s *ServiceHandler) ExtractCase(w http.ResponseWriter, r *http.Request) {
	var form api.ExtractionRequest
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	v := validator.NewValidator()
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.extractionSrv.Extract(r.Context(), form)
	if err != nil {
		renderError(w, r, http.StatusBadGateway, err.Error())
		return
	}

	render.JSON(w, r, result)
}

// (POST /api/v1alpha1/analysis)
func (s *ServiceHandler) ComposeAnalysis(w http.ResponseWriter, r *http.Request) {
	var form api.AnalysisRequest
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	v := validator.NewValidator()
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.analysisSrv.Compose(r.Context(), form)
	if err != nil {
		renderError(w, r, http.StatusBadGateway, err.Error())
		return
	}

	render.JSON(w, r, result)
}
