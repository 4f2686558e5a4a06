package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"feedback-connector/internal/infra/handlers"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux               *mux.Router
	FeedbackHandlers  *handlers.FeedbackHandlers
	AnalyticsHandlers *handlers.AnalyticsHandlers
}

func NewRoutes(mux *mux.Router, feedbackHandlers *handlers.FeedbackHandlers, analyticsHandlers *handlers.AnalyticsHandlers) *Routes {
	return &Routes{mux, feedbackHandlers, analyticsHandlers}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/submit_feedback", r.FeedbackHandlers.SubmitFeedback).Methods(http.MethodPost)
	r.Mux.HandleFunc("/submit_followup", r.FeedbackHandlers.SubmitFollowup).Methods(http.MethodPost)

	r.Mux.HandleFunc("/analytics/summary", r.AnalyticsHandlers.Summary).Methods(http.MethodGet)
	r.Mux.HandleFunc("/analytics/top-focus-areas", r.AnalyticsHandlers.TopFocusAreas).Methods(http.MethodGet)

	r.Mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
