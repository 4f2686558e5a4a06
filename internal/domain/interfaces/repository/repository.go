package repository

import (
	"context"
	"time"

	"feedback-connector/internal/domain/entities"
)

// FeedbackRepository is the persisted-conversation store. Implementations
// must round-trip every ConversationRecord field.
type FeedbackRepository interface {
	// Save persists a completed conversation record.
	Save(ctx context.Context, record entities.ConversationRecord) error

	// FindByWindow returns records whose saved_at falls inside [start, end];
	// nil bounds are unbounded. Records come back in insertion order.
	FindByWindow(ctx context.Context, start, end *time.Time) ([]entities.ConversationRecord, error)

	// Count reports the total number of stored records regardless of any
	// filter, so callers can tell an empty store from an empty window.
	Count(ctx context.Context) (int64, error)

	Close(ctx context.Context) error
}
