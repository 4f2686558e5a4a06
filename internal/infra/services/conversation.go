package services

import (
	"strings"
	"time"

	"feedback-connector/internal/domain/apperrors"
	"feedback-connector/internal/domain/dto"
	"feedback-connector/internal/domain/entities"
)

// ConversationState is the lifecycle position of a single conversation.
type ConversationState string

const (
	StateAwaitingScore        ConversationState = "awaiting_score"
	StateAwaitingInitialInput ConversationState = "awaiting_initial_input"
	StateEvaluating           ConversationState = "evaluating"
	StateAwaitingFollowUp     ConversationState = "awaiting_followup_input"
	StateComplete             ConversationState = "complete"
)

// Conversation couples a record with its state machine. Complete is terminal;
// no transition leaves it.
type Conversation struct {
	State  ConversationState
	Record entities.ConversationRecord
}

func NewConversation() *Conversation {
	return &Conversation{State: StateAwaitingScore}
}

// SetScore validates the NPS score and advances past AwaitingScore. An
// out-of-range score leaves the state untouched.
func (c *Conversation) SetScore(score int) error {
	if c.State != StateAwaitingScore {
		return apperrors.NewValidation("score is already set for this conversation")
	}
	if score < 0 || score > 10 {
		return apperrors.NewValidation("score must be between 0 and 10, got %d", score)
	}
	c.Record.Score = score
	c.State = StateAwaitingInitialInput
	return nil
}

// BeginEvaluation enters Evaluating for the current turn. Submitting neither
// text nor audio is rejected before any collaborator request is built.
func (c *Conversation) BeginEvaluation(text string, audio []byte) error {
	if c.State == StateComplete {
		return apperrors.NewValidation("conversation is already complete")
	}
	if c.State != StateAwaitingInitialInput && c.State != StateAwaitingFollowUp {
		return apperrors.NewValidation("conversation is not awaiting input")
	}
	if strings.TrimSpace(text) == "" && len(audio) == 0 {
		return apperrors.NewValidation("either transcription or audio_data must be provided")
	}
	c.State = StateEvaluating
	return nil
}

// RevertEvaluation returns to the boundary state the conversation was in
// before Evaluating, after a transient collaborator failure. Confirmed turns
// are preserved so the same submission can be retried.
func (c *Conversation) RevertEvaluation() {
	if c.State != StateEvaluating {
		return
	}
	if len(c.Record.Turns) == 0 {
		c.State = StateAwaitingInitialInput
	} else {
		c.State = StateAwaitingFollowUp
	}
}

// ApplyAnalysis folds the collaborator's reply into the record and advances
// the machine. When both flags are set, completeness wins over the
// continuation flag.
func (c *Conversation) ApplyAnalysis(result dto.AnalysisResult, now time.Time) error {
	if c.State != StateEvaluating {
		return apperrors.NewValidation("no evaluation in progress")
	}

	if len(c.Record.Turns) == 0 {
		// Sentiment and feedback points are assigned once, on the initial
		// turn, and never recomputed from later turns.
		c.Record.InitialTranscription = result.Transcription
		c.Record.Sentiment = result.Sentiment
		if c.Record.Sentiment == "" {
			c.Record.Sentiment = entities.SentimentUnknown
		}
		c.Record.FeedbackPoints = append([]string(nil), result.FeedbackPoints...)
	}

	c.Record.Turns = append(c.Record.Turns,
		entities.Turn{Role: entities.RoleRespondent, Text: result.Transcription},
		entities.Turn{Role: entities.RoleAssistant, Text: result.Reply},
	)
	c.Record.RequiresFollowUp = result.RequiresFollowUp

	switch {
	case result.ConversationComplete:
		c.complete(now)
	case result.RequiresFollowUp:
		c.State = StateAwaitingFollowUp
	default:
		c.complete(now)
	}
	return nil
}

func (c *Conversation) complete(now time.Time) {
	c.Record.ConversationComplete = true
	if c.Record.SavedAt == nil {
		ts := now.UTC()
		c.Record.SavedAt = &ts
	}
	c.State = StateComplete
}

// RestoreConversation rebuilds an in-flight conversation from the history
// object the client got back on the previous submission.
func RestoreConversation(score int, history dto.ConversationHistory) (*Conversation, error) {
	if history.ConversationComplete {
		return nil, apperrors.NewValidation("conversation is already complete")
	}
	if len(history.Turns) == 0 {
		return nil, apperrors.NewValidation("conversation history has no turns; submit initial feedback first")
	}

	c := NewConversation()
	if err := c.SetScore(score); err != nil {
		return nil, err
	}
	c.Record.ConversationID = history.ConversationID
	c.Record.InitialTranscription = history.InitialTranscription
	c.Record.Sentiment = history.Sentiment
	c.Record.FeedbackPoints = append([]string(nil), history.FeedbackPoints...)
	c.Record.Turns = append([]entities.Turn(nil), history.Turns...)
	c.State = StateAwaitingFollowUp
	return c, nil
}
