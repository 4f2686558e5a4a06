package repository

import (
	"context"
	"testing"
	"time"

	"feedback-connector/internal/domain/entities"
)

func openTestRepo(t *testing.T) *SQLiteFeedbackRepository {
	t.Helper()
	repo, err := NewInMemorySQLiteFeedbackRepository()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = repo.Close(context.Background()) })
	return repo
}

func sampleRecord(id string, score int, saved *time.Time) entities.ConversationRecord {
	return entities.ConversationRecord{
		ConversationID:       id,
		Score:                score,
		Sentiment:            entities.SentimentNegative,
		InitialTranscription: "checkout is confusing",
		FeedbackPoints:       []string{"checkout flow", "too many steps"},
		Turns: []entities.Turn{
			{Role: entities.RoleRespondent, Text: "checkout is confusing"},
			{Role: entities.RoleAssistant, Text: "Which step lost you?"},
			{Role: entities.RoleRespondent, Text: "the address form"},
		},
		RequiresFollowUp:     true,
		ConversationComplete: true,
		SavedAt:              saved,
	}
}

func TestSaveAndFindRoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	ts := time.Date(2025, 7, 1, 15, 4, 5, 0, time.UTC)
	want := sampleRecord("conv-1", 4, &ts)
	if err := repo.Save(ctx, want); err != nil {
		t.Fatal(err)
	}

	records, err := repo.FindByWindow(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}

	got := records[0]
	if got.ConversationID != want.ConversationID || got.Score != want.Score {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.Sentiment != want.Sentiment || got.InitialTranscription != want.InitialTranscription {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.FeedbackPoints) != 2 || got.FeedbackPoints[1] != "too many steps" {
		t.Errorf("feedback points = %v", got.FeedbackPoints)
	}
	if len(got.Turns) != 3 || got.Turns[2].Role != entities.RoleRespondent || got.Turns[2].Text != "the address form" {
		t.Errorf("turns = %v", got.Turns)
	}
	if !got.RequiresFollowUp || !got.ConversationComplete {
		t.Errorf("flags = %+v", got)
	}
	if got.SavedAt == nil || !got.SavedAt.Equal(ts) {
		t.Errorf("saved_at = %v, want %v", got.SavedAt, ts)
	}
}

func TestSavePreservesNilSavedAt(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleRecord("conv-1", 4, nil)); err != nil {
		t.Fatal(err)
	}
	records, err := repo.FindByWindow(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].SavedAt != nil {
		t.Errorf("records = %+v, want one record with nil saved_at", records)
	}
}

func TestFindByWindowFilters(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	day := func(d int) *time.Time {
		ts := time.Date(2025, 7, d, 12, 0, 0, 0, time.UTC)
		return &ts
	}
	for i, saved := range []*time.Time{day(1), day(5), day(9), nil} {
		rec := sampleRecord("conv-"+string(rune('a'+i)), 5, saved)
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name       string
		start, end *time.Time
		wantIDs    []string
	}{
		{"unbounded", nil, nil, []string{"conv-a", "conv-b", "conv-c", "conv-d"}},
		{"both bounds", day(3), day(9), []string{"conv-b", "conv-c"}},
		{"start only excludes unsaved", day(5), nil, []string{"conv-b", "conv-c"}},
		{"end only excludes unsaved", nil, day(1), []string{"conv-a"}},
		{"empty window", day(20), day(25), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := repo.FindByWindow(ctx, tt.start, tt.end)
			if err != nil {
				t.Fatal(err)
			}
			if len(records) != len(tt.wantIDs) {
				t.Fatalf("records = %d, want %d", len(records), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if records[i].ConversationID != id {
					t.Errorf("record %d = %s, want %s", i, records[i].ConversationID, id)
				}
			}
		})
	}
}

func TestCount(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	_ = repo.Save(ctx, sampleRecord("conv-1", 8, nil))
	_ = repo.Save(ctx, sampleRecord("conv-2", 3, nil))

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestSaveRejectsDuplicateConversationID(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleRecord("conv-1", 8, nil)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, sampleRecord("conv-1", 2, nil)); err == nil {
		t.Fatal("duplicate conversation_id must be rejected")
	}
}
