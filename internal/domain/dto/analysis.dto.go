package dto

import "feedback-connector/internal/domain/entities"

// AnalysisRequest is the payload assembled for the AI analysis collaborator.
// For follow-ups it always carries the entire prior turn sequence plus the
// original score, sentiment and feedback points, never only the last turn.
type AnalysisRequest struct {
	Score     int
	Text      string
	Audio     []byte
	AudioMIME string

	FollowUp             bool
	InitialTranscription string
	PriorTurns           []entities.Turn
	PriorSentiment       string
	PriorFeedbackPoints  []string
}

// AnalysisResult is the collaborator's structured reply. Both booleans are
// always concrete here: the provider applies the absent-flag defaults before
// the state machine ever sees the result.
type AnalysisResult struct {
	Transcription        string   `json:"transcription"`
	Sentiment            string   `json:"sentiment,omitempty"`
	FeedbackPoints       []string `json:"feedback,omitempty"`
	Reply                string   `json:"conversationalResponse"`
	RequiresFollowUp     bool     `json:"requiresFollowUp"`
	ConversationComplete bool     `json:"conversationComplete"`
}

// FocusArea is one ranked improvement theme from the focus-area summarizer.
type FocusArea struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
}
