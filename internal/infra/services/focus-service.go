package services

import (
	"context"
	"fmt"
	"strings"

	"feedback-connector/internal/domain/apperrors"
	"feedback-connector/internal/domain/dto"
	"feedback-connector/internal/domain/entities"
	"feedback-connector/internal/domain/interfaces/repository"
	Iservices "feedback-connector/internal/domain/interfaces/services"
	"feedback-connector/internal/infra/logger"
)

// focusAreaCount is the fixed number of focus areas the dashboard renders.
const focusAreaCount = 3

// negativeSentiments qualifies a conversation for focus-area analysis.
var negativeSentiments = map[string]bool{
	"negative":     true,
	"frustrated":   true,
	"angry":        true,
	"disappointed": true,
	"unhappy":      true,
}

// FocusAreaService derives ranked improvement themes from negative and
// frustrated feedback inside a time window.
type FocusAreaService struct {
	Logger             *logger.Logger
	FeedbackRepository repository.FeedbackRepository
	Summarizer         Iservices.IFocusSummarizerService
}

func NewFocusAreaService(log *logger.Logger, feedbackRepository repository.FeedbackRepository, summarizer Iservices.IFocusSummarizerService) *FocusAreaService {
	return &FocusAreaService{Logger: log, FeedbackRepository: feedbackRepository, Summarizer: summarizer}
}

func (fs *FocusAreaService) TopFocusAreas(ctx context.Context, window dto.TimeWindow) (dto.FocusAreasReport, error) {
	total, err := fs.FeedbackRepository.Count(ctx)
	if err != nil {
		return dto.FocusAreasReport{}, err
	}
	if total == 0 {
		return dto.FocusAreasReport{}, apperrors.ErrNoData
	}

	records, err := fs.FeedbackRepository.FindByWindow(ctx, window.Start, window.End)
	if err != nil {
		return dto.FocusAreasReport{}, err
	}
	if len(records) == 0 {
		return dto.FocusAreasReport{}, apperrors.ErrNoDataForWindow
	}

	negative := make([]entities.ConversationRecord, 0, len(records))
	for _, record := range records {
		if negativeSentiments[strings.ToLower(record.Sentiment)] {
			negative = append(negative, record)
		}
	}
	// An empty qualifying subset is an explicit condition, not an
	// empty-but-successful result, so the UI can omit the section entirely.
	if len(negative) == 0 {
		return dto.FocusAreasReport{}, apperrors.ErrNoQualifyingFeedback
	}

	feedbackItems := collectFeedbackItems(negative)
	if len(feedbackItems) == 0 {
		return dto.FocusAreasReport{}, apperrors.ErrNoQualifyingFeedback
	}

	areas, err := fs.Summarizer.SummarizeFocusAreas(ctx, feedbackItems)
	if err != nil {
		fs.Logger.Error(fmt.Sprintf("Focus-area summarization failed: %v", err))
		return dto.FocusAreasReport{}, err
	}

	if len(areas) > focusAreaCount {
		areas = areas[:focusAreaCount]
	}
	for len(areas) < focusAreaCount {
		areas = append(areas, dto.FocusArea{
			Title:       "Insufficient feedback data",
			Explanation: "Not enough feedback available to identify this focus area.",
		})
	}

	return dto.FocusAreasReport{
		TopFocusAreas:              areas,
		TotalFeedbackItems:         len(feedbackItems),
		TotalNegativeConversations: len(negative),
		TotalConversationsAnalyzed: len(records),
	}, nil
}

// collectFeedbackItems flattens each qualifying record into labelled feedback
// lines: the initial statement, extracted points and later respondent turns.
func collectFeedbackItems(records []entities.ConversationRecord) []string {
	items := make([]string, 0, len(records)*2)
	for _, record := range records {
		if record.InitialTranscription != "" {
			items = append(items, fmt.Sprintf("Initial feedback: %s", record.InitialTranscription))
		}
		for _, point := range record.FeedbackPoints {
			if strings.TrimSpace(point) != "" {
				items = append(items, fmt.Sprintf("Feedback point: %s", point))
			}
		}
		for i, turn := range record.Turns {
			// Turn 0 repeats the initial transcription.
			if i == 0 || turn.Role != entities.RoleRespondent || strings.TrimSpace(turn.Text) == "" {
				continue
			}
			items = append(items, fmt.Sprintf("Follow-up feedback: %s", turn.Text))
		}
	}
	return items
}
