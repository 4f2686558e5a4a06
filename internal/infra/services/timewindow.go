package services

import (
	"fmt"
	"time"

	"feedback-connector/internal/domain/apperrors"
	"feedback-connector/internal/domain/dto"
)

// Named range presets accepted by ResolveTimeWindow.
const (
	WindowPreset7d     = "7d"
	WindowPreset30d    = "30d"
	WindowPresetAll    = "all"
	WindowPresetCustom = "custom"
)

const dateOnlyLayout = "2006-01-02"

// ResolveTimeWindow turns a preset or custom range into a concrete window.
// All day boundaries derive from the single now value so the filter bounds
// and the display label can never disagree.
func ResolveTimeWindow(preset, customStart, customEnd string, now time.Time) (dto.TimeWindow, error) {
	switch preset {
	case WindowPreset7d:
		start := startOfDay(now.AddDate(0, 0, -6))
		end := endOfDay(now)
		return dto.TimeWindow{Start: &start, End: &end, Label: "Last 7 days"}, nil
	case WindowPreset30d:
		start := startOfDay(now.AddDate(0, 0, -29))
		end := endOfDay(now)
		return dto.TimeWindow{Start: &start, End: &end, Label: "Last 30 days"}, nil
	case WindowPresetAll:
		return dto.TimeWindow{Label: "All time"}, nil
	case WindowPresetCustom:
		if customStart == "" || customEnd == "" {
			return dto.TimeWindow{}, apperrors.NewValidation("custom range requires both start and end dates")
		}
		start, err := parseDateBound(customStart, false)
		if err != nil {
			return dto.TimeWindow{}, err
		}
		end, err := parseDateBound(customEnd, true)
		if err != nil {
			return dto.TimeWindow{}, err
		}
		if start.After(*end) {
			return dto.TimeWindow{}, apperrors.NewValidation("start date %s is after end date %s", customStart, customEnd)
		}
		return dto.TimeWindow{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("Custom: %s → %s", customStart, customEnd),
		}, nil
	default:
		return dto.TimeWindow{}, apperrors.NewValidation("unknown time range preset %q", preset)
	}
}

// ResolveQueryWindow builds a window from the optional start_date/end_date
// query parameters. Either bound may be omitted; omitting both means
// unbounded. An inverted pair is rejected before any store query runs.
func ResolveQueryWindow(startDate, endDate string) (dto.TimeWindow, error) {
	if startDate == "" && endDate == "" {
		return dto.TimeWindow{Label: "All time"}, nil
	}

	window := dto.TimeWindow{}
	if startDate != "" {
		start, err := parseDateBound(startDate, false)
		if err != nil {
			return dto.TimeWindow{}, err
		}
		window.Start = start
	}
	if endDate != "" {
		end, err := parseDateBound(endDate, true)
		if err != nil {
			return dto.TimeWindow{}, err
		}
		window.End = end
	}
	if window.Start != nil && window.End != nil && window.Start.After(*window.End) {
		return dto.TimeWindow{}, apperrors.NewValidation("start date %s is after end date %s", startDate, endDate)
	}

	switch {
	case window.Start != nil && window.End != nil:
		window.Label = fmt.Sprintf("Custom: %s → %s", startDate, endDate)
	case window.Start != nil:
		window.Label = fmt.Sprintf("From %s", startDate)
	default:
		window.Label = fmt.Sprintf("Until %s", endDate)
	}
	return window, nil
}

// parseDateBound accepts YYYY-MM-DD or RFC3339. A date-only end bound
// extends to the last instant of that day so the whole day is included.
func parseDateBound(value string, isEnd bool) (*time.Time, error) {
	if ts, err := time.Parse(dateOnlyLayout, value); err == nil {
		ts = ts.UTC()
		if isEnd {
			ts = endOfDay(ts)
		}
		return &ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		ts = ts.UTC()
		return &ts, nil
	}
	return nil, apperrors.NewValidation("invalid date %q, use YYYY-MM-DD or RFC3339", value)
}

func startOfDay(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(ts time.Time) time.Time {
	return startOfDay(ts).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
