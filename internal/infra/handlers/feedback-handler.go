package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"feedback-connector/internal/domain/apperrors"
	"feedback-connector/internal/domain/dto"
	Iservices "feedback-connector/internal/domain/interfaces/services"
	"feedback-connector/internal/infra/logger"
)

// maxAudioUploadBytes caps the in-memory part of multipart parsing.
const maxAudioUploadBytes = 16 << 20

type FeedbackHandlers struct {
	Logger              *logger.Logger
	ConversationService Iservices.IConversationService
}

func NewFeedbackHandlers(log *logger.Logger, conversationService Iservices.IConversationService) *FeedbackHandlers {
	return &FeedbackHandlers{Logger: log, ConversationService: conversationService}
}

// SubmitFeedback handles POST /submit_feedback. The form carries the NPS
// score plus either a pre-transcribed text or an audio file.
func (fh *FeedbackHandlers) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	score, text, audio, audioMIME, err := fh.parseSubmission(r)
	if err != nil {
		writeError(w, fh.Logger, err)
		return
	}

	response, err := fh.ConversationService.SubmitInitial(r.Context(), score, text, audio, audioMIME)
	if err != nil {
		writeError(w, fh.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// SubmitFollowup handles POST /submit_followup. The client posts back the
// full history object from the previous response as a JSON form value.
func (fh *FeedbackHandlers) SubmitFollowup(w http.ResponseWriter, r *http.Request) {
	score, text, audio, audioMIME, err := fh.parseSubmission(r)
	if err != nil {
		writeError(w, fh.Logger, err)
		return
	}

	historyRaw := r.FormValue("conversation_history")
	if historyRaw == "" {
		writeError(w, fh.Logger, apperrors.NewValidation("conversation_history is required"))
		return
	}
	var history dto.ConversationHistory
	if err := json.Unmarshal([]byte(historyRaw), &history); err != nil {
		writeError(w, fh.Logger, apperrors.NewValidation("conversation_history must be a valid JSON object"))
		return
	}

	response, err := fh.ConversationService.SubmitFollowUp(r.Context(), score, history, text, audio, audioMIME)
	if err != nil {
		writeError(w, fh.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (fh *FeedbackHandlers) parseSubmission(r *http.Request) (score int, text string, audio []byte, audioMIME string, err error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/") {
		err = r.ParseMultipartForm(maxAudioUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return 0, "", nil, "", apperrors.NewValidation("could not parse form data: %v", err)
	}

	scoreRaw := r.FormValue("score")
	if scoreRaw == "" {
		return 0, "", nil, "", apperrors.NewValidation("score is required")
	}
	score, convErr := strconv.Atoi(scoreRaw)
	if convErr != nil {
		return 0, "", nil, "", apperrors.NewValidation("score must be an integer, got %q", scoreRaw)
	}

	text = r.FormValue("transcription")

	if r.MultipartForm != nil {
		file, header, fileErr := r.FormFile("audio_data")
		if fileErr == nil {
			defer file.Close()
			audio, err = io.ReadAll(file)
			if err != nil {
				return 0, "", nil, "", apperrors.NewValidation("could not read audio_data: %v", err)
			}
			audioMIME = header.Header.Get("Content-Type")
		} else if fileErr != http.ErrMissingFile {
			return 0, "", nil, "", apperrors.NewValidation("could not read audio_data: %v", fileErr)
		}
	}

	return score, text, audio, audioMIME, nil
}
