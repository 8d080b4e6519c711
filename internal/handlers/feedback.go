package handlers

import (
	"net/http"

	"github.com/go-chi/render"
	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/handlers/validator"
)

// (POST /api/v1alpha1/feedback)
func (s *ServiceHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var form api.FeedbackRequest
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	v := validator.NewValidator()
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.feedbackSrv.Create(r.Context(), form); err != nil {
		renderError(w, r, http.StatusInternalServerError, "failed to store feedback")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, form)
}
