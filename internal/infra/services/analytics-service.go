package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"feedback-connector/internal/domain/apperrors"
	"feedback-connector/internal/domain/dto"
	"feedback-connector/internal/domain/entities"
	"feedback-connector/internal/domain/interfaces/repository"
	"feedback-connector/internal/infra/logger"
)

// TopFeedbackLimit caps the theme list in API output. Chart contexts may
// truncate further; that cap is a presentation parameter, not enforced here.
const TopFeedbackLimit = 10

// Aggregation is everything derived from one filtered record set.
type Aggregation struct {
	Summary     dto.AnalyticsSummary
	TopFeedback []dto.ThemeCount
	RatingData  dto.RatingBuckets
	ScoreTrend  []dto.TrendPoint
	Valid       []entities.ConversationRecord
}

// Aggregate computes all dashboard metrics from a record snapshot. It is a
// pure function of its input: no store access, no hidden state. An empty
// input yields a zero-valued summary, never an error.
func Aggregate(records []entities.ConversationRecord, topN int) Aggregation {
	agg := Aggregation{
		Summary: dto.AnalyticsSummary{
			SentimentBreakdown: make(map[string]int),
		},
	}

	// Partial records (score out of range or no confirmed turns) are
	// excluded up front and reported via the skipped counter rather than
	// silently counted as zeroes.
	valid := make([]entities.ConversationRecord, 0, len(records))
	for _, record := range records {
		if record.Score < 0 || record.Score > 10 || len(record.Turns) == 0 {
			agg.Summary.SkippedRecords++
			continue
		}
		valid = append(valid, record)
	}
	agg.Valid = valid
	agg.Summary.TotalConversations = len(valid)
	if len(valid) == 0 {
		agg.TopFeedback = []dto.ThemeCount{}
		agg.ScoreTrend = []dto.TrendPoint{}
		return agg
	}

	var promoters, detractors int
	var scoreSum, turnSum, followups, completed int
	scores := make([]int, 0, len(valid))

	for _, record := range valid {
		scores = append(scores, record.Score)
		scoreSum += record.Score
		turnSum += record.TotalTurns()
		if record.TotalTurns() > agg.Summary.MaxTurns {
			agg.Summary.MaxTurns = record.TotalTurns()
		}
		if record.RequiresFollowUp {
			followups++
		}
		if record.ConversationComplete {
			completed++
		}

		// NPS classes and rating buckets share thresholds but stay distinct
		// concepts: a score of 7 is NPS-passive and Medium-bucket at once.
		switch {
		case record.Score >= 9:
			promoters++
			agg.RatingData.High++
		case record.Score <= 6:
			detractors++
			agg.RatingData.Low++
		default:
			agg.RatingData.Medium++
		}

		sentiment := record.Sentiment
		if sentiment == "" {
			sentiment = entities.SentimentUnknown
		}
		agg.Summary.SentimentBreakdown[sentiment]++
	}

	total := float64(len(valid))
	agg.Summary.NPS = int(math.Round(100 * (float64(promoters) - float64(detractors)) / total))

	avg := round1(float64(scoreSum) / total)
	agg.Summary.AvgScore = &avg
	median := round1(medianOf(scores))
	agg.Summary.MedianScore = &median
	agg.Summary.FollowupRequiredPct = round1(100 * float64(followups) / total)
	agg.Summary.CompletedPct = round1(100 * float64(completed) / total)
	agg.Summary.AvgTurns = round1(float64(turnSum) / total)

	agg.TopFeedback = topFeedbackThemes(valid, topN)
	agg.ScoreTrend = scoreTrend(valid)
	return agg
}

// medianOf uses the conventional even/odd split.
func medianOf(scores []int) float64 {
	sorted := append([]int(nil), scores...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return float64(sorted[mid])
}

// topFeedbackThemes groups feedback points by exact string equality, counts
// occurrences and orders descending by count, ties broken by first-seen order.
func topFeedbackThemes(records []entities.ConversationRecord, topN int) []dto.ThemeCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, record := range records {
		for _, point := range record.FeedbackPoints {
			point = strings.TrimSpace(point)
			if point == "" {
				continue
			}
			if _, ok := counts[point]; !ok {
				firstSeen[point] = order
				order++
			}
			counts[point]++
		}
	}

	themes := make([]dto.ThemeCount, 0, len(counts))
	for text, count := range counts {
		themes = append(themes, dto.ThemeCount{Text: text, Count: count})
	}
	sort.SliceStable(themes, func(i, j int) bool {
		if themes[i].Count != themes[j].Count {
			return themes[i].Count > themes[j].Count
		}
		return firstSeen[themes[i].Text] < firstSeen[themes[j].Text]
	})
	if topN > 0 && len(themes) > topN {
		themes = themes[:topN]
	}
	return themes
}

// scoreTrend returns records with a saved_at timestamp sorted ascending by
// that timestamp, stable on ties. Records without one are excluded from the
// trend but still counted in the summary totals.
func scoreTrend(records []entities.ConversationRecord) []dto.TrendPoint {
	points := make([]dto.TrendPoint, 0, len(records))
	for _, record := range records {
		if record.SavedAt == nil {
			continue
		}
		points = append(points, dto.TrendPoint{SavedAt: *record.SavedAt, Score: record.Score})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].SavedAt.Before(points[j].SavedAt)
	})
	return points
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// AnalyticsService answers dashboard summary queries over the feedback store.
type AnalyticsService struct {
	Logger             *logger.Logger
	FeedbackRepository repository.FeedbackRepository
}

func NewAnalyticsService(log *logger.Logger, feedbackRepository repository.FeedbackRepository) *AnalyticsService {
	return &AnalyticsService{Logger: log, FeedbackRepository: feedbackRepository}
}

// Summary aggregates the records inside the window. An empty store and an
// empty window are surfaced as distinct conditions.
func (as *AnalyticsService) Summary(ctx context.Context, window dto.TimeWindow) (dto.AnalyticsReport, error) {
	total, err := as.FeedbackRepository.Count(ctx)
	if err != nil {
		return dto.AnalyticsReport{}, err
	}
	if total == 0 {
		return dto.AnalyticsReport{}, apperrors.ErrNoData
	}

	records, err := as.FeedbackRepository.FindByWindow(ctx, window.Start, window.End)
	if err != nil {
		return dto.AnalyticsReport{}, err
	}
	if len(records) == 0 {
		return dto.AnalyticsReport{}, apperrors.ErrNoDataForWindow
	}

	agg := Aggregate(records, TopFeedbackLimit)
	if agg.Summary.SkippedRecords > 0 {
		as.Logger.Warn(fmt.Sprintf("Excluded %d partial records from aggregation", agg.Summary.SkippedRecords))
	}

	return dto.AnalyticsReport{
		Summary:       agg.Summary,
		TopFeedback:   agg.TopFeedback,
		RatingData:    agg.RatingData,
		ScoreTrend:    agg.ScoreTrend,
		Conversations: agg.Valid,
		Filters: dto.AnalyticsFilters{
			StartDate:      formatBound(window.Start),
			EndDate:        formatBound(window.End),
			Window:         window.Label,
			TotalAvailable: int(total),
		},
	}, nil
}

func formatBound(bound *time.Time) string {
	if bound == nil {
		return ""
	}
	return bound.UTC().Format(time.RFC3339)
}
