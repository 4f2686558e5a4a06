package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"feedback-connector/internal/domain/apperrors"
	"feedback-connector/internal/infra/logger"
)

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP statuses. The three no-data
// conditions carry distinct codes so the UI can render "submit feedback
// first" vs "try a different range".
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case apperrors.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
	case errors.Is(err, apperrors.ErrSubmissionInFlight):
		writeJSON(w, http.StatusConflict, errorResponse{Detail: err.Error(), Code: "submission_in_flight"})
	case errors.Is(err, apperrors.ErrNoData):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: err.Error(), Code: "no_data"})
	case errors.Is(err, apperrors.ErrNoDataForWindow):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: err.Error(), Code: "no_data_for_window"})
	case errors.Is(err, apperrors.ErrNoQualifyingFeedback):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: err.Error(), Code: "no_qualifying_feedback"})
	case apperrors.IsTransient(err):
		log.Error(fmt.Sprintf("Upstream failure: %v", err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Detail: "The AI service is temporarily unavailable, please retry", Code: "transient_upstream"})
	default:
		log.Error(fmt.Sprintf("Unhandled error: %v", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}
