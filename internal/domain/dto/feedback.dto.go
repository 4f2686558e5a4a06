package dto

import "feedback-connector/internal/domain/entities"

// ConversationHistory is the merged history object returned to the client
// after every submission and posted back in full on each follow-up.
type ConversationHistory struct {
	ConversationID       string          `json:"conversation_id"`
	Score                int             `json:"score"`
	InitialTranscription string          `json:"initial_transcription"`
	Sentiment            string          `json:"sentiment"`
	FeedbackPoints       []string        `json:"feedback"`
	Turns                []entities.Turn `json:"turns"`
	ConversationComplete bool            `json:"conversationComplete"`
	LastUpdated          string          `json:"last_updated,omitempty"`
}

// FeedbackResponse is the reply for both submit_feedback and submit_followup.
type FeedbackResponse struct {
	ConversationID         string              `json:"conversation_id"`
	Score                  int                 `json:"score"`
	Transcription          string              `json:"transcription"`
	Sentiment              string              `json:"sentiment,omitempty"`
	FeedbackPoints         []string            `json:"feedback,omitempty"`
	ConversationalResponse string              `json:"conversationalResponse"`
	RequiresFollowUp       bool                `json:"requiresFollowUp"`
	ConversationComplete   bool                `json:"conversationComplete"`
	SavedConversation      bool                `json:"saved_conversation"`
	History                ConversationHistory `json:"history"`
}
