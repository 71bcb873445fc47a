package generativeAI

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-diet-assistant/config"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func setupClientTest() (*AIClient, *MockContentGenerator) {
	gen := new(MockContentGenerator)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newAIClient(gen, config.LLMConfig{Model: "gemini-test", Temperature: 0.7}, logger), gen
}

func response(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: roleModel, Parts: parts}}},
	}
}

func TestAIClient_GenerateTurn(t *testing.T) {
	ctx := context.Background()
	tool := &genai.FunctionDeclaration{Name: "search_restaurants"}

	t.Run("function calls become a tool request", func(t *testing.T) {
		client, gen := setupClientTest()
		gen.On("GenerateContent", mock.Anything, "gemini-test", mock.Anything, mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
			return len(cfg.Tools) == 1 && cfg.Tools[0].FunctionDeclarations[0] == tool &&
				cfg.SystemInstruction != nil && cfg.SystemInstruction.Parts[0].Text == "system"
		})).Return(response(
			&genai.Part{FunctionCall: &genai.FunctionCall{ID: "c1", Name: "search_restaurants", Args: map[string]any{"location": "강남역"}}},
			&genai.Part{FunctionCall: &genai.FunctionCall{ID: "c2", Name: "search_restaurants", Args: map[string]any{"location": "역삼역"}}},
		), nil).Once()

		turn, err := client.GenerateTurn(ctx, TurnRequest{
			SystemInstruction: "system",
			Transcript:        []types.Turn{types.UserTurn{Text: "점심 추천"}},
			Tools:             []*genai.FunctionDeclaration{tool},
		})
		require.NoError(t, err)
		req, ok := turn.(types.ToolRequestTurn)
		require.True(t, ok)
		require.Len(t, req.Calls, 2)
		assert.Equal(t, "c1", req.Calls[0].ID)
		assert.Equal(t, "역삼역", req.Calls[1].Args["location"])
		gen.AssertExpectations(t)
	})

	t.Run("text becomes an assistant turn and tools are omitted", func(t *testing.T) {
		client, gen := setupClientTest()
		gen.On("GenerateContent", mock.Anything, "gemini-test", mock.Anything, mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
			return cfg.Tools == nil
		})).Return(response(&genai.Part{Text: "두부 샐러드를 추천합니다."}), nil).Once()

		turn, err := client.GenerateTurn(ctx, TurnRequest{Transcript: []types.Turn{types.UserTurn{Text: "hi"}}})
		require.NoError(t, err)
		assert.Equal(t, types.AssistantTurn{Text: "두부 샐러드를 추천합니다."}, turn)
	})

	t.Run("empty candidate list", func(t *testing.T) {
		client, gen := setupClientTest()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(&genai.GenerateContentResponse{}, nil).Once()

		_, err := client.GenerateTurn(ctx, TurnRequest{})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("transport error", func(t *testing.T) {
		client, gen := setupClientTest()
		apiErr := errors.New("quota exceeded")
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, apiErr).Once()

		_, err := client.GenerateTurn(ctx, TurnRequest{})
		assert.ErrorIs(t, err, apiErr)
	})

	t.Run("closed client", func(t *testing.T) {
		client, gen := setupClientTest()
		require.NoError(t, client.Close())

		_, err := client.GenerateTurn(ctx, TurnRequest{})
		assert.ErrorIs(t, err, ErrClientClosed)
		gen.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAIClient_GenerateJSON(t *testing.T) {
	ctx := context.Background()
	schema := &genai.Schema{Type: genai.TypeObject}

	t.Run("decodes fenced JSON with inline image", func(t *testing.T) {
		client, gen := setupClientTest()
		image := &types.ImageUpload{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
		gen.On("GenerateContent", mock.Anything, "gemini-test", mock.MatchedBy(func(contents []*genai.Content) bool {
			return len(contents) == 1 && len(contents[0].Parts) == 2 &&
				contents[0].Parts[0].InlineData != nil && contents[0].Parts[0].InlineData.MIMEType == "image/png" &&
				contents[0].Parts[1].Text == "analyse"
		}), mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
			return cfg.ResponseMIMEType == "application/json" && cfg.ResponseSchema == schema
		})).Return(response(&genai.Part{Text: "```json\n{\"food_name\":\"김밥\"}\n```"}), nil).Once()

		var out types.NutritionAnalysis
		err := client.GenerateJSON(ctx, JSONRequest{Prompt: "analyse", Image: image, Schema: schema}, &out)
		require.NoError(t, err)
		assert.Equal(t, "김밥", out.FoodName)
		gen.AssertExpectations(t)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		client, gen := setupClientTest()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(response(&genai.Part{Text: "not json"}), nil).Once()

		var out map[string]any
		assert.Error(t, client.GenerateJSON(ctx, JSONRequest{Prompt: "x"}, &out))
	})

	t.Run("empty text", func(t *testing.T) {
		client, gen := setupClientTest()
		gen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(response(), nil).Once()

		var out map[string]any
		assert.ErrorIs(t, client.GenerateJSON(ctx, JSONRequest{Prompt: "x"}, &out), ErrEmptyResponse)
	})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence(`  {"a":1} `))
}
