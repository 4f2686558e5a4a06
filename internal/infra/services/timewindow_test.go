package services

import (
	"testing"
	"time"

	"feedback-connector/internal/domain/apperrors"
)

var fixedNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func TestResolveTimeWindow_Presets(t *testing.T) {
	tests := []struct {
		preset    string
		wantStart time.Time
		wantEnd   time.Time
		wantLabel string
	}{
		{
			preset:    WindowPreset7d,
			wantStart: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
			wantLabel: "Last 7 days",
		},
		{
			preset:    WindowPreset30d,
			wantStart: time.Date(2025, 5, 17, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
			wantLabel: "Last 30 days",
		},
	}
	for _, tt := range tests {
		window, err := ResolveTimeWindow(tt.preset, "", "", fixedNow)
		if err != nil {
			t.Fatalf("%s: %v", tt.preset, err)
		}
		if !window.Start.Equal(tt.wantStart) {
			t.Errorf("%s: start = %v, want %v", tt.preset, window.Start, tt.wantStart)
		}
		if !window.End.Equal(tt.wantEnd) {
			t.Errorf("%s: end = %v, want %v", tt.preset, window.End, tt.wantEnd)
		}
		if window.Label != tt.wantLabel {
			t.Errorf("%s: label = %q, want %q", tt.preset, window.Label, tt.wantLabel)
		}
	}
}

func TestResolveTimeWindow_All(t *testing.T) {
	window, err := ResolveTimeWindow(WindowPresetAll, "", "", fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	if window.Start != nil || window.End != nil {
		t.Errorf("all-time window must be unbounded, got %+v", window)
	}
	if window.Label != "All time" {
		t.Errorf("label = %q", window.Label)
	}
}

func TestResolveTimeWindow_Custom(t *testing.T) {
	window, err := ResolveTimeWindow(WindowPresetCustom, "2025-01-10", "2025-01-20", fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	wantStart := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if !window.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", window.Start, wantStart)
	}
	// Date-only end bound covers the whole named day.
	wantEnd := time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	if !window.End.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", window.End, wantEnd)
	}
}

func TestResolveTimeWindow_CustomRejections(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"missing end", "2025-01-10", ""},
		{"missing start", "", "2025-01-20"},
		{"inverted", "2025-01-20", "2025-01-10"},
		{"garbage start", "not-a-date", "2025-01-20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveTimeWindow(WindowPresetCustom, tt.start, tt.end, fixedNow)
			if !apperrors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestResolveTimeWindow_UnknownPreset(t *testing.T) {
	_, err := ResolveTimeWindow("90d", "", "", fixedNow)
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestResolveQueryWindow_OneSided(t *testing.T) {
	window, err := ResolveQueryWindow("2025-02-01", "")
	if err != nil {
		t.Fatal(err)
	}
	if window.Start == nil || window.End != nil {
		t.Errorf("start-only window = %+v", window)
	}
	if window.Label != "From 2025-02-01" {
		t.Errorf("label = %q", window.Label)
	}

	window, err = ResolveQueryWindow("", "2025-02-01")
	if err != nil {
		t.Fatal(err)
	}
	if window.Start != nil || window.End == nil {
		t.Errorf("end-only window = %+v", window)
	}
	wantEnd := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	if !window.End.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", window.End, wantEnd)
	}
}

func TestResolveQueryWindow_Empty(t *testing.T) {
	window, err := ResolveQueryWindow("", "")
	if err != nil {
		t.Fatal(err)
	}
	if window.Start != nil || window.End != nil || window.Label != "All time" {
		t.Errorf("window = %+v", window)
	}
}

func TestResolveQueryWindow_InvertedRejected(t *testing.T) {
	_, err := ResolveQueryWindow("2025-02-10", "2025-02-01")
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestResolveQueryWindow_RFC3339Bounds(t *testing.T) {
	window, err := ResolveQueryWindow("2025-02-01T08:00:00Z", "2025-02-01T17:30:00Z")
	if err != nil {
		t.Fatal(err)
	}
	// Explicit timestamps are taken as-is, no end-of-day extension.
	if !window.End.Equal(time.Date(2025, 2, 1, 17, 30, 0, 0, time.UTC)) {
		t.Errorf("end = %v", window.End)
	}
}
