package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"feedback-connector/internal/domain/apperrors"
	"feedback-connector/internal/domain/dto"
	"feedback-connector/internal/infra/logger"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

// Structured reply shapes sent to the model as strict JSON schemas. The
// initial shape has no conversationComplete field; the provider derives it
// from requiresFollowUp, so the state machine only ever sees concrete flags.
type initialAnalysisResponse struct {
	Transcription          string   `json:"transcription"`
	Sentiment              string   `json:"sentiment"`
	Feedback               []string `json:"feedback"`
	ConversationalResponse string   `json:"conversationalResponse"`
	RequiresFollowUp       bool     `json:"requiresFollowUp"`
}

type followUpAnalysisResponse struct {
	Transcription          string `json:"transcription"`
	ConversationalResponse string `json:"conversationalResponse"`
	RequiresFollowUp       bool   `json:"requiresFollowUp"`
	ConversationComplete   bool   `json:"conversationComplete"`
}

type focusAreasResponse struct {
	TopFocusAreas []dto.FocusArea `json:"top_focus_areas"`
}

var (
	initialAnalysisSchema  = GenerateSchema[initialAnalysisResponse]()
	followUpAnalysisSchema = GenerateSchema[followUpAnalysisResponse]()
	focusAreasSchema       = GenerateSchema[focusAreasResponse]()
)

// OpenAIAnalysisProvider backs the AI analysis collaborator and the
// focus-area summarizer with the OpenAI Responses API. Audio payloads are
// transcribed first, then analyzed as text. Every failure is reported as a
// transient upstream error so the conversation can be retried.
type OpenAIAnalysisProvider struct {
	Logger *logger.Logger

	client          *openai.Client
	model           string
	transcribeModel openai.AudioModel
	timeout         time.Duration
}

func NewOpenAIAnalysisProvider(log *logger.Logger, apiKey, model string, timeout time.Duration) *OpenAIAnalysisProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIAnalysisProvider{
		Logger:          log,
		client:          &client,
		model:           model,
		transcribeModel: openai.AudioModelWhisper1,
		timeout:         timeout,
	}
}

func (p *OpenAIAnalysisProvider) Analyze(ctx context.Context, request dto.AnalysisRequest) (dto.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	text := strings.TrimSpace(request.Text)
	if text == "" {
		transcribed, err := p.transcribe(ctx, request.Audio, request.AudioMIME)
		if err != nil {
			return dto.AnalysisResult{}, err
		}
		text = transcribed
	}

	if request.FollowUp {
		return p.analyzeFollowUp(ctx, request, text)
	}
	return p.analyzeInitial(ctx, request, text)
}

func (p *OpenAIAnalysisProvider) analyzeInitial(ctx context.Context, request dto.AnalysisRequest, text string) (dto.AnalysisResult, error) {
	instructions := fmt.Sprintf(initialAnalysisPrompt, request.Score)
	input := fmt.Sprintf("Customer's feedback: %q", text)

	var parsed initialAnalysisResponse
	if err := p.structuredCall(ctx, "InitialAnalysis", instructions, input, initialAnalysisSchema, &parsed); err != nil {
		return dto.AnalysisResult{}, err
	}

	result := dto.AnalysisResult{
		Transcription:        parsed.Transcription,
		Sentiment:            parsed.Sentiment,
		FeedbackPoints:       parsed.Feedback,
		Reply:                parsed.ConversationalResponse,
		RequiresFollowUp:     parsed.RequiresFollowUp,
		ConversationComplete: !parsed.RequiresFollowUp,
	}
	if result.Transcription == "" {
		result.Transcription = text
	}
	return result, nil
}

func (p *OpenAIAnalysisProvider) analyzeFollowUp(ctx context.Context, request dto.AnalysisRequest, text string) (dto.AnalysisResult, error) {
	instructions := fmt.Sprintf(followUpAnalysisPrompt,
		request.Score, request.InitialTranscription, formatHistory(request.PriorTurns))
	input := fmt.Sprintf("Customer's current response: %q", text)

	var parsed followUpAnalysisResponse
	if err := p.structuredCall(ctx, "FollowUpAnalysis", instructions, input, followUpAnalysisSchema, &parsed); err != nil {
		return dto.AnalysisResult{}, err
	}

	result := dto.AnalysisResult{
		Transcription:        parsed.Transcription,
		Reply:                parsed.ConversationalResponse,
		RequiresFollowUp:     parsed.RequiresFollowUp,
		ConversationComplete: parsed.ConversationComplete,
	}
	if result.Transcription == "" {
		result.Transcription = text
	}
	return result, nil
}

func (p *OpenAIAnalysisProvider) SummarizeFocusAreas(ctx context.Context, feedbackItems []string) ([]dto.FocusArea, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	instructions := fmt.Sprintf(focusAreasPrompt, strings.Join(feedbackItems, "\n\n"))

	var parsed focusAreasResponse
	if err := p.structuredCall(ctx, "FocusAreas", instructions, "Summarize the feedback above.", focusAreasSchema, &parsed); err != nil {
		return nil, err
	}
	return parsed.TopFocusAreas, nil
}

// structuredCall runs one Responses API request with a strict JSON schema and
// decodes the output text into out.
func (p *OpenAIAnalysisProvider) structuredCall(ctx context.Context, name, instructions, input string, schema map[string]interface{}, out any) error {
	params := responses.ResponseNewParams{
		Model:        p.model,
		Instructions: openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   name,
					Schema: schema,
					Strict: openai.Bool(true),
					Type:   "json_schema",
				},
			},
		},
	}

	resp, err := p.callWithRetry(ctx, params)
	if err != nil {
		return apperrors.NewTransient("AI analysis request failed", err)
	}

	if err := json.Unmarshal([]byte(resp.OutputText()), out); err != nil {
		p.Logger.Error(fmt.Sprintf("Failed to parse model response: %v", err))
		return apperrors.NewTransient("AI analysis reply could not be parsed", err)
	}
	return nil
}

func (p *OpenAIAnalysisProvider) transcribe(ctx context.Context, audio []byte, mime string) (string, error) {
	if len(audio) == 0 {
		return "", apperrors.NewValidation("audio payload is empty")
	}
	if mime == "" {
		mime = "audio/webm"
	}
	transcription, err := p.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: p.transcribeModel,
		File:  openai.File(bytes.NewReader(audio), "feedback.webm", mime),
	})
	if err != nil {
		return "", apperrors.NewTransient("audio transcription failed", err)
	}
	return strings.TrimSpace(transcription.Text), nil
}

// callWithRetry retries once on rate-limit or server errors, honoring the
// request context while waiting.
func (p *OpenAIAnalysisProvider) callWithRetry(ctx context.Context, params responses.ResponseNewParams) (*responses.Response, error) {
	const maxAttempts = 2
	waits := []time.Duration{2 * time.Second, 5 * time.Second}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := p.client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt == maxAttempts-1 || !(isRateLimitError(err) || isServerError(err)) {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waits[attempt]):
		}
	}
	return nil, lastErr
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error")
}
