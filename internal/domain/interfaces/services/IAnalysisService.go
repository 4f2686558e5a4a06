package Iservices

import (
	"context"

	"feedback-connector/internal/domain/dto"
)

// IAnalysisService is the AI analysis collaborator. The core treats it as a
// black box: only the reply text and the two continuation booleans matter.
type IAnalysisService interface {
	Analyze(ctx context.Context, request dto.AnalysisRequest) (dto.AnalysisResult, error)
}

// IFocusSummarizerService turns the feedback of negative/frustrated
// conversations into a ranked list of improvement themes.
type IFocusSummarizerService interface {
	SummarizeFocusAreas(ctx context.Context, feedbackItems []string) ([]dto.FocusArea, error)
}
