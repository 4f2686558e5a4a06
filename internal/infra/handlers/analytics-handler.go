package handlers

import (
	"net/http"
	"strconv"
	"time"

	"feedback-connector/internal/domain/dto"
	Iservices "feedback-connector/internal/domain/interfaces/services"
	"feedback-connector/internal/infra/logger"
	"feedback-connector/internal/infra/services"
)

type AnalyticsHandlers struct {
	Logger           *logger.Logger
	AnalyticsService Iservices.IAnalyticsService
	FocusAreaService Iservices.IFocusAreaService
}

func NewAnalyticsHandlers(log *logger.Logger, analyticsService Iservices.IAnalyticsService, focusAreaService Iservices.IFocusAreaService) *AnalyticsHandlers {
	return &AnalyticsHandlers{Logger: log, AnalyticsService: analyticsService, FocusAreaService: focusAreaService}
}

// Summary handles GET /analytics/summary. The window comes either from a
// named preset (?range=7d|30d|all|custom) or from raw start_date/end_date
// parameters.
func (ah *AnalyticsHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	window, err := resolveWindow(r)
	if err != nil {
		writeError(w, ah.Logger, err)
		return
	}

	report, err := ah.AnalyticsService.Summary(r.Context(), window)
	if err != nil {
		writeError(w, ah.Logger, err)
		return
	}

	// Chart contexts may ask for a shorter theme list; this cap is purely
	// presentational.
	if limitRaw := r.URL.Query().Get("theme_limit"); limitRaw != "" {
		if limit, convErr := strconv.Atoi(limitRaw); convErr == nil && limit > 0 && limit < len(report.TopFeedback) {
			report.TopFeedback = report.TopFeedback[:limit]
		}
	}

	writeJSON(w, http.StatusOK, report)
}

// TopFocusAreas handles GET /analytics/top-focus-areas.
func (ah *AnalyticsHandlers) TopFocusAreas(w http.ResponseWriter, r *http.Request) {
	window, err := resolveWindow(r)
	if err != nil {
		writeError(w, ah.Logger, err)
		return
	}

	report, err := ah.FocusAreaService.TopFocusAreas(r.Context(), window)
	if err != nil {
		writeError(w, ah.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func resolveWindow(r *http.Request) (dto.TimeWindow, error) {
	query := r.URL.Query()
	startDate := query.Get("start_date")
	endDate := query.Get("end_date")
	if preset := query.Get("range"); preset != "" {
		// A single captured now keeps the filter bounds and the label
		// consistent for the whole resolution.
		return services.ResolveTimeWindow(preset, startDate, endDate, time.Now())
	}
	return services.ResolveQueryWindow(startDate, endDate)
}
