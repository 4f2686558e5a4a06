package dto

import (
	"time"

	"feedback-connector/internal/domain/entities"
)

// TimeWindow is a resolved [start, end] filter. Nil bounds are unbounded on
// that side. Label is display-only and never used for filtering.
type TimeWindow struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
	Label string     `json:"label"`
}

// Contains reports whether ts falls inside the window (bounds inclusive).
func (w TimeWindow) Contains(ts time.Time) bool {
	if w.Start != nil && ts.Before(*w.Start) {
		return false
	}
	if w.End != nil && ts.After(*w.End) {
		return false
	}
	return true
}

// AnalyticsSummary holds the derived dashboard metrics for one filtered
// record set. AvgScore and MedianScore are nil for an empty set so the UI can
// render "N/A" instead of a misleading zero.
type AnalyticsSummary struct {
	TotalConversations  int            `json:"total_conversations"`
	NPS                 int            `json:"nps"`
	AvgScore            *float64       `json:"avg_score"`
	MedianScore         *float64       `json:"median_score"`
	SentimentBreakdown  map[string]int `json:"sentiment_breakdown"`
	FollowupRequiredPct float64        `json:"followup_required_pct"`
	CompletedPct        float64        `json:"completed_pct"`
	AvgTurns            float64        `json:"avg_turns"`
	MaxTurns            int            `json:"max_turns"`
	SkippedRecords      int            `json:"skipped_records,omitempty"`
}

// ThemeCount is one grouped feedback point with its occurrence count.
type ThemeCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// RatingBuckets is the High/Medium/Low score distribution. Distinct from the
// NPS promoter/passive/detractor classes even though the thresholds coincide.
type RatingBuckets struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// TrendPoint is one record on the ascending saved-at score trend.
type TrendPoint struct {
	SavedAt time.Time `json:"saved_at"`
	Score   int       `json:"score"`
}

type AnalyticsFilters struct {
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	Window         string `json:"window"`
	TotalAvailable int    `json:"total_available"`
}

// AnalyticsReport is the full payload of the analytics summary endpoint.
type AnalyticsReport struct {
	Summary       AnalyticsSummary              `json:"summary"`
	TopFeedback   []ThemeCount                  `json:"top_feedback"`
	RatingData    RatingBuckets                 `json:"rating_data"`
	ScoreTrend    []TrendPoint                  `json:"score_trend"`
	Conversations []entities.ConversationRecord `json:"conversations"`
	Filters       AnalyticsFilters              `json:"filters"`
}

// FocusAreasReport is the payload of the top-focus-areas endpoint.
type FocusAreasReport struct {
	TopFocusAreas              []FocusArea `json:"top_focus_areas"`
	TotalFeedbackItems         int         `json:"total_feedback_items"`
	TotalNegativeConversations int         `json:"total_negative_conversations"`
	TotalConversationsAnalyzed int         `json:"total_conversations_analyzed"`
}
