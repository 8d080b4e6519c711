package handlers

import (
	"net/http"

	"github.com/go-chi/render"
	api "github.com/capricorn-med/litreview/api/v1alpha1"
	"github.com/capricorn-med/litreview/internal/handlers/validator"
	"github.com/capricorn-med/litreview/internal/stream"
)

// (POST /api/v1alpha1/retrieve)
//
// Validation failures are rejected with a JSON 400 before the stream
// starts. Once the first byte is on the wire the status is committed, so
// later failures arrive as a terminal error record instead.
func (s *ServiceHandler) RetrieveArticles(w http.ResponseWriter, r *http.Request) {
	var form api.RetrievalRequest
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		renderError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	v := validator.NewValidator()
	v.Register(validator.NewRetrievalValidationRules()...)
	if err := v.Struct(form); err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	_ = s.retrievalSrv.Run(r.Context(), form, stream.NewWriter(w))
}
