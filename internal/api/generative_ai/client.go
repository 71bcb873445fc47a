package generativeAI

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-diet-assistant/config"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

var (
	ErrMissingAPIKey = errors.New("GOOGLE_GEMINI_API_KEY is not set")
	ErrClientClosed  = errors.New("AI client is closed")
	ErrEmptyResponse = errors.New("model returned no content")
)

// contentGenerator is satisfied by *genai.Models.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// AIClient is an explicitly constructed handle to the Gemini API.
type AIClient struct {
	models      contentGenerator
	model       string
	temperature float32
	logger      *slog.Logger
	closed      atomic.Bool
}

// TurnRequest asks the model for the next turn of a conversation.
// A nil or empty Tools slice disables function calling.
type TurnRequest struct {
	SystemInstruction string
	Transcript        []types.Turn
	Tools             []*genai.FunctionDeclaration
}

// JSONRequest asks the model for a single JSON object matching Schema.
type JSONRequest struct {
	SystemInstruction string
	Prompt            string
	Image             *types.ImageUpload
	Schema            *genai.Schema
	Temperature       *float32
}

func NewAIClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*AIClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewAIClient")
	defer span.End()

	if cfg.APIKey == "" {
		span.SetStatus(codes.Error, "API key not set")
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	span.SetStatus(codes.Ok, "AI client created successfully")
	return newAIClient(client.Models, cfg, logger), nil
}

func newAIClient(models contentGenerator, cfg config.LLMConfig, logger *slog.Logger) *AIClient {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &AIClient{
		models:      models,
		model:       model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// Close releases the handle. Calls made after Close fail with ErrClientClosed.
func (ai *AIClient) Close() error {
	ai.closed.Store(true)
	return nil
}

// Model returns the configured model name.
func (ai *AIClient) Model() string {
	return ai.model
}

// GenerateTurn sends the transcript and returns either an AssistantTurn or a ToolRequestTurn.
func (ai *AIClient) GenerateTurn(ctx context.Context, req TurnRequest) (types.Turn, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateTurn", trace.WithAttributes(
		attribute.String("model", ai.model),
		attribute.Int("transcript.turns", len(req.Transcript)),
		attribute.Int("tools.count", len(req.Tools)),
	))
	defer span.End()

	if ai.closed.Load() {
		span.SetStatus(codes.Error, "Client closed")
		return nil, ErrClientClosed
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(ai.temperature),
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemInstruction}}}
	}
	if len(req.Tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: req.Tools}}
	}

	resp, err := ai.models.GenerateContent(ctx, ai.model, ToContents(req.Transcript), cfg)
	if err != nil {
		ai.logger.ErrorContext(ctx, "Model call failed", slog.String("method", "GenerateTurn"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return nil, fmt.Errorf("failed to generate turn: %w", err)
	}

	turn, err := turnFromResponse(resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unusable response")
		return nil, err
	}

	if tr, ok := turn.(types.ToolRequestTurn); ok {
		span.SetAttributes(attribute.Int("response.tool_calls", len(tr.Calls)))
	}
	span.SetStatus(codes.Ok, "Turn generated")
	return turn, nil
}

// GenerateJSON runs a single-shot request in JSON mode and decodes the object into dst.
func (ai *AIClient) GenerateJSON(ctx context.Context, req JSONRequest, dst any) error {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateJSON", trace.WithAttributes(
		attribute.String("model", ai.model),
		attribute.Int("prompt.length", len(req.Prompt)),
		attribute.Bool("image", req.Image != nil),
	))
	defer span.End()

	if ai.closed.Load() {
		span.SetStatus(codes.Error, "Client closed")
		return ErrClientClosed
	}

	temperature := ai.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema,
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemInstruction}}}
	}

	var parts []*genai.Part
	if req.Image != nil && len(req.Image.Data) > 0 {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: req.Image.MIMEType, Data: req.Image.Data}})
	}
	if req.Prompt != "" {
		parts = append(parts, &genai.Part{Text: req.Prompt})
	}
	contents := []*genai.Content{{Role: roleUser, Parts: parts}}

	resp, err := ai.models.GenerateContent(ctx, ai.model, contents, cfg)
	if err != nil {
		ai.logger.ErrorContext(ctx, "Model call failed", slog.String("method", "GenerateJSON"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return fmt.Errorf("failed to generate JSON: %w", err)
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		span.SetStatus(codes.Error, "Empty response")
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(StripCodeFence(text)), dst); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid JSON")
		return fmt.Errorf("failed to decode model JSON: %w", err)
	}

	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "JSON generated")
	return nil
}

// StripCodeFence removes a surrounding ```json ... ``` block if present.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func firstCandidate(resp *genai.GenerateContentResponse) *genai.Content {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	return resp.Candidates[0].Content
}

func responseText(resp *genai.GenerateContentResponse) string {
	content := firstCandidate(resp)
	if content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func turnFromResponse(resp *genai.GenerateContentResponse) (types.Turn, error) {
	content := firstCandidate(resp)
	if content == nil {
		return nil, ErrEmptyResponse
	}

	var calls []types.ToolCall
	for _, part := range content.Parts {
		if part == nil || part.FunctionCall == nil {
			continue
		}
		calls = append(calls, types.ToolCall{
			ID:   part.FunctionCall.ID,
			Name: part.FunctionCall.Name,
			Args: part.FunctionCall.Args,
		})
	}
	text := strings.TrimSpace(responseText(resp))

	if len(calls) > 0 {
		return types.ToolRequestTurn{Text: text, Calls: calls}, nil
	}
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return types.AssistantTurn{Text: text}, nil
}
