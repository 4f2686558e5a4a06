package Iservices

import (
	"context"

	"feedback-connector/internal/domain/dto"
)

type IAnalyticsService interface {
	// Summary aggregates the stored records that fall inside the window.
	Summary(ctx context.Context, window dto.TimeWindow) (dto.AnalyticsReport, error)
}

type IFocusAreaService interface {
	// TopFocusAreas summarizes negative/frustrated feedback inside the window
	// into ranked improvement themes.
	TopFocusAreas(ctx context.Context, window dto.TimeWindow) (dto.FocusAreasReport, error)
}
