package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"feedback-connector/internal/domain/apperrors"
	"feedback-connector/internal/domain/dto"
	"feedback-connector/internal/domain/interfaces/repository"
	Iservices "feedback-connector/internal/domain/interfaces/services"
	"feedback-connector/internal/infra/logger"

	"github.com/google/uuid"
)

// ConversationService orchestrates the feedback conversation: it validates
// submissions, assembles collaborator requests, applies the resulting state
// transitions and persists records that reach Complete.
type ConversationService struct {
	Logger             *logger.Logger
	AnalysisService    Iservices.IAnalysisService
	FeedbackRepository repository.FeedbackRepository

	now func() time.Time

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewConversationService(log *logger.Logger, analysisService Iservices.IAnalysisService, feedbackRepository repository.FeedbackRepository) *ConversationService {
	return &ConversationService{
		Logger:             log,
		AnalysisService:    analysisService,
		FeedbackRepository: feedbackRepository,
		now:                time.Now,
		inFlight:           make(map[string]bool),
	}
}

// SubmitInitial starts a new conversation from a score plus text or audio.
func (cs *ConversationService) SubmitInitial(ctx context.Context, score int, text string, audio []byte, audioMIME string) (dto.FeedbackResponse, error) {
	conv := NewConversation()
	if err := conv.SetScore(score); err != nil {
		return dto.FeedbackResponse{}, err
	}
	conv.Record.ConversationID = uuid.NewString()
	if err := conv.BeginEvaluation(text, audio); err != nil {
		return dto.FeedbackResponse{}, err
	}

	if !cs.acquire(conv.Record.ConversationID) {
		return dto.FeedbackResponse{}, apperrors.ErrSubmissionInFlight
	}
	defer cs.release(conv.Record.ConversationID)

	request := dto.AnalysisRequest{
		Score:     score,
		Text:      text,
		Audio:     audio,
		AudioMIME: audioMIME,
	}
	result, err := cs.AnalysisService.Analyze(ctx, request)
	if err != nil {
		conv.RevertEvaluation()
		cs.Logger.Error(fmt.Sprintf("Initial analysis failed for conversation %s: %v", conv.Record.ConversationID, err))
		return dto.FeedbackResponse{}, err
	}

	if err := conv.ApplyAnalysis(result, cs.now()); err != nil {
		return dto.FeedbackResponse{}, err
	}
	saved := cs.persistIfComplete(ctx, conv)
	return cs.buildResponse(conv, result, saved), nil
}

// SubmitFollowUp continues a conversation from the posted history object.
// The entire prior turn sequence plus the original score, sentiment and
// feedback points are forwarded to the collaborator so it can make a
// globally informed continue/stop decision.
func (cs *ConversationService) SubmitFollowUp(ctx context.Context, score int, history dto.ConversationHistory, text string, audio []byte, audioMIME string) (dto.FeedbackResponse, error) {
	conv, err := RestoreConversation(score, history)
	if err != nil {
		return dto.FeedbackResponse{}, err
	}
	if conv.Record.ConversationID == "" {
		conv.Record.ConversationID = uuid.NewString()
	}
	if err := conv.BeginEvaluation(text, audio); err != nil {
		return dto.FeedbackResponse{}, err
	}

	// At most one submission per conversation may await the collaborator; a
	// concurrent second submit is rejected, not queued.
	if !cs.acquire(conv.Record.ConversationID) {
		return dto.FeedbackResponse{}, apperrors.ErrSubmissionInFlight
	}
	defer cs.release(conv.Record.ConversationID)

	snapshot := conv.Record.Clone()
	request := dto.AnalysisRequest{
		Score:                score,
		Text:                 text,
		Audio:                audio,
		AudioMIME:            audioMIME,
		FollowUp:             true,
		InitialTranscription: snapshot.InitialTranscription,
		PriorTurns:           snapshot.Turns,
		PriorSentiment:       snapshot.Sentiment,
		PriorFeedbackPoints:  snapshot.FeedbackPoints,
	}
	result, err := cs.AnalysisService.Analyze(ctx, request)
	if err != nil {
		conv.RevertEvaluation()
		cs.Logger.Error(fmt.Sprintf("Follow-up analysis failed for conversation %s: %v", conv.Record.ConversationID, err))
		return dto.FeedbackResponse{}, err
	}

	if err := conv.ApplyAnalysis(result, cs.now()); err != nil {
		return dto.FeedbackResponse{}, err
	}
	saved := cs.persistIfComplete(ctx, conv)
	return cs.buildResponse(conv, result, saved), nil
}

// Abort discards in-flight bookkeeping for a conversation. Completed records
// already persisted are unaffected.
func (cs *ConversationService) Abort(conversationID string) {
	cs.release(conversationID)
}

func (cs *ConversationService) acquire(conversationID string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.inFlight[conversationID] {
		return false
	}
	cs.inFlight[conversationID] = true
	return true
}

func (cs *ConversationService) release(conversationID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.inFlight, conversationID)
}

func (cs *ConversationService) persistIfComplete(ctx context.Context, conv *Conversation) bool {
	if conv.State != StateComplete {
		return false
	}
	if err := cs.FeedbackRepository.Save(ctx, conv.Record); err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed saving conversation %s: %v", conv.Record.ConversationID, err))
		return false
	}
	cs.Logger.Info(fmt.Sprintf("Conversation %s saved with sentiment %s", conv.Record.ConversationID, conv.Record.Sentiment))
	return true
}

func (cs *ConversationService) buildResponse(conv *Conversation, result dto.AnalysisResult, saved bool) dto.FeedbackResponse {
	record := conv.Record.Clone()
	return dto.FeedbackResponse{
		ConversationID:         record.ConversationID,
		Score:                  record.Score,
		Transcription:          result.Transcription,
		Sentiment:              record.Sentiment,
		FeedbackPoints:         record.FeedbackPoints,
		ConversationalResponse: result.Reply,
		RequiresFollowUp:       result.RequiresFollowUp,
		ConversationComplete:   record.ConversationComplete,
		SavedConversation:      saved,
		History: dto.ConversationHistory{
			ConversationID:       record.ConversationID,
			Score:                record.Score,
			InitialTranscription: record.InitialTranscription,
			Sentiment:            record.Sentiment,
			FeedbackPoints:       record.FeedbackPoints,
			Turns:                record.Turns,
			ConversationComplete: record.ConversationComplete,
			LastUpdated:          cs.now().UTC().Format(time.RFC3339),
		},
	}
}
