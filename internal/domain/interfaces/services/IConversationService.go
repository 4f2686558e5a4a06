package Iservices

import (
	"context"

	"feedback-connector/internal/domain/dto"
)

type IConversationService interface {
	// SubmitInitial starts a conversation from a score plus text or audio and
	// returns the collaborator's reply merged into a fresh history object.
	SubmitInitial(ctx context.Context, score int, text string, audio []byte, audioMIME string) (dto.FeedbackResponse, error)

	// SubmitFollowUp continues a conversation. The caller posts back the full
	// history object from the previous response; the entire turn sequence is
	// forwarded to the collaborator.
	SubmitFollowUp(ctx context.Context, score int, history dto.ConversationHistory, text string, audio []byte, audioMIME string) (dto.FeedbackResponse, error)

	// Abort discards all in-progress state for a conversation. Records
	// already persisted as complete are unaffected.
	Abort(conversationID string)
}
