package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"feedback-connector/internal/domain/apperrors"
	"feedback-connector/internal/domain/dto"
	"feedback-connector/internal/domain/entities"
)

type stubFocusSummarizer struct {
	areas []dto.FocusArea
	err   error
	items []string
}

func (s *stubFocusSummarizer) SummarizeFocusAreas(ctx context.Context, feedbackItems []string) ([]dto.FocusArea, error) {
	s.items = feedbackItems
	return s.areas, s.err
}

func negativeRecord(opts ...func(*entities.ConversationRecord)) entities.ConversationRecord {
	ts := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
	rec := record(3, savedAt(ts))
	rec.Sentiment = entities.SentimentNegative
	rec.InitialTranscription = "The app keeps crashing"
	rec.FeedbackPoints = []string{"crashes on startup"}
	for _, opt := range opts {
		opt(&rec)
	}
	return rec
}

func TestTopFocusAreas_EmptyStoreAndWindow(t *testing.T) {
	repo := &memoryFeedbackRepo{}
	svc := NewFocusAreaService(testLogger(), repo, &stubFocusSummarizer{})

	_, err := svc.TopFocusAreas(context.Background(), dto.TimeWindow{Label: "All time"})
	if !errors.Is(err, apperrors.ErrNoData) {
		t.Fatalf("empty store expected ErrNoData, got %v", err)
	}

	_ = repo.Save(context.Background(), negativeRecord())
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.TopFocusAreas(context.Background(), dto.TimeWindow{Start: &start, Label: "From 2030-01-01"})
	if !errors.Is(err, apperrors.ErrNoDataForWindow) {
		t.Fatalf("empty window expected ErrNoDataForWindow, got %v", err)
	}
}

func TestTopFocusAreas_NoNegativeFeedback(t *testing.T) {
	repo := &memoryFeedbackRepo{}
	rec := record(9)
	rec.Sentiment = entities.SentimentPositive
	_ = repo.Save(context.Background(), rec)

	svc := NewFocusAreaService(testLogger(), repo, &stubFocusSummarizer{})
	_, err := svc.TopFocusAreas(context.Background(), dto.TimeWindow{Label: "All time"})
	if !errors.Is(err, apperrors.ErrNoQualifyingFeedback) {
		t.Fatalf("expected ErrNoQualifyingFeedback, got %v", err)
	}
}

func TestTopFocusAreas_CollectsLabelledItems(t *testing.T) {
	repo := &memoryFeedbackRepo{}
	_ = repo.Save(context.Background(), negativeRecord(func(r *entities.ConversationRecord) {
		r.Turns = []entities.Turn{
			{Role: entities.RoleRespondent, Text: "The app keeps crashing"},
			{Role: entities.RoleAssistant, Text: "Sorry to hear that. When does it happen?"},
			{Role: entities.RoleRespondent, Text: "Every time I open the camera"},
		}
	}))

	summarizer := &stubFocusSummarizer{areas: []dto.FocusArea{
		{Title: "Stability", Explanation: "Multiple crash reports on startup."},
		{Title: "Camera", Explanation: "Camera flows trigger failures."},
		{Title: "Onboarding", Explanation: "First-run experience is fragile."},
	}}
	svc := NewFocusAreaService(testLogger(), repo, summarizer)

	report, err := svc.TopFocusAreas(context.Background(), dto.TimeWindow{Label: "All time"})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"Initial feedback: The app keeps crashing",
		"Feedback point: crashes on startup",
		"Follow-up feedback: Every time I open the camera",
	}
	if len(summarizer.items) != len(want) {
		t.Fatalf("items = %v, want %v", summarizer.items, want)
	}
	for i := range want {
		if summarizer.items[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, summarizer.items[i], want[i])
		}
	}
	if report.TotalFeedbackItems != 3 || report.TotalNegativeConversations != 1 || report.TotalConversationsAnalyzed != 1 {
		t.Errorf("report counters = %+v", report)
	}
}

func TestTopFocusAreas_PadsAndTruncatesToThree(t *testing.T) {
	repo := &memoryFeedbackRepo{}
	_ = repo.Save(context.Background(), negativeRecord())

	tests := []struct {
		name  string
		areas []dto.FocusArea
	}{
		{"one area padded", []dto.FocusArea{{Title: "Stability", Explanation: "Crashes."}}},
		{"five areas truncated", []dto.FocusArea{
			{Title: "A", Explanation: "a"}, {Title: "B", Explanation: "b"},
			{Title: "C", Explanation: "c"}, {Title: "D", Explanation: "d"},
			{Title: "E", Explanation: "e"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFocusAreaService(testLogger(), repo, &stubFocusSummarizer{areas: tt.areas})
			report, err := svc.TopFocusAreas(context.Background(), dto.TimeWindow{Label: "All time"})
			if err != nil {
				t.Fatal(err)
			}
			if len(report.TopFocusAreas) != 3 {
				t.Fatalf("areas = %d, want 3", len(report.TopFocusAreas))
			}
			if tt.name == "one area padded" && report.TopFocusAreas[2].Title != "Insufficient feedback data" {
				t.Errorf("padding area = %+v", report.TopFocusAreas[2])
			}
		})
	}
}

func TestTopFocusAreas_SummarizerErrorSurfaces(t *testing.T) {
	repo := &memoryFeedbackRepo{}
	_ = repo.Save(context.Background(), negativeRecord())

	upstream := apperrors.NewTransient("summarize focus areas", errors.New("rate limited"))
	svc := NewFocusAreaService(testLogger(), repo, &stubFocusSummarizer{err: upstream})
	_, err := svc.TopFocusAreas(context.Background(), dto.TimeWindow{Label: "All time"})
	if !apperrors.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}
