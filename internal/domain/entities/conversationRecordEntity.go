package entities

import "time"

// Turn roles. Turn 0 of a conversation is always the respondent's initial
// statement, turn 1 the assistant's first reply.
const (
	RoleRespondent = "respondent"
	RoleAssistant  = "assistant"
)

// Sentiment labels assigned by the AI analysis provider on the initial turn.
const (
	SentimentPositive   = "Positive"
	SentimentNegative   = "Negative"
	SentimentNeutral    = "Neutral"
	SentimentFrustrated = "Frustrated"
	SentimentConfused   = "Confused"
	SentimentUnknown    = "Unknown"
)

type Turn struct {
	Role string `json:"role" bson:"role"`
	Text string `json:"text" bson:"text"`
}

// ConversationRecord is one full respondent interaction. The record is
// mutable only while ConversationComplete is false; once true it is
// write-once and SavedAt is set exactly once.
type ConversationRecord struct {
	ConversationID       string     `json:"conversation_id" bson:"conversation_id"`
	Score                int        `json:"score" bson:"score"`
	Sentiment            string     `json:"sentiment" bson:"sentiment"`
	InitialTranscription string     `json:"initial_transcription" bson:"initial_transcription"`
	FeedbackPoints       []string   `json:"initial_feedback_points" bson:"initial_feedback_points"`
	Turns                []Turn     `json:"turns" bson:"turns"`
	RequiresFollowUp     bool       `json:"requiresFollowUp" bson:"requires_followup"`
	ConversationComplete bool       `json:"conversationComplete" bson:"conversation_complete"`
	SavedAt              *time.Time `json:"saved_at,omitempty" bson:"saved_at,omitempty"`
}

// Clone returns a deep copy. Conversation history is always handed to
// collaborators as an immutable snapshot, never as a shared slice.
func (cr ConversationRecord) Clone() ConversationRecord {
	out := cr
	if cr.FeedbackPoints != nil {
		out.FeedbackPoints = make([]string, len(cr.FeedbackPoints))
		copy(out.FeedbackPoints, cr.FeedbackPoints)
	}
	if cr.Turns != nil {
		out.Turns = make([]Turn, len(cr.Turns))
		copy(out.Turns, cr.Turns)
	}
	if cr.SavedAt != nil {
		ts := *cr.SavedAt
		out.SavedAt = &ts
	}
	return out
}

// TotalTurns counts all turns, respondent and assistant alike.
func (cr ConversationRecord) TotalTurns() int {
	return len(cr.Turns)
}
