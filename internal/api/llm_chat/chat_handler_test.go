package llmChat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-diet-assistant/internal/api/auth"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Reply(ctx context.Context, userID uuid.UUID, req types.ChatRequest) (*types.ChatResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ChatResponse), args.Error(1)
}

func setupHandlerTest() (*HandlerImpl, *MockChatService) {
	mockService := new(MockChatService)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLLMHandlerImpl(mockService, logger), mockService
}

func chatRequest(userID uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	return req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, userID.String()))
}

func TestHandlerImpl_Chat(t *testing.T) {
	userID := uuid.New()
	body := `{"messages":[{"role":"user","content":"강남역 점심 추천"}]}`

	t.Run("reply", func(t *testing.T) {
		handler, mockService := setupHandlerTest()
		mockService.On("Reply", mock.Anything, userID, types.ChatRequest{Messages: []types.ChatMessage{
			{Role: "user", Content: "강남역 점심 추천"},
		}}).Return(&types.ChatResponse{Reply: "현미밥상 어떠세요?"}, nil).Once()

		rr := httptest.NewRecorder()
		handler.Chat(rr, chatRequest(userID, body))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp types.ChatResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "현미밥상 어떠세요?", resp.Reply)
		assert.NotContains(t, rr.Body.String(), "unavailable")
	})

	t.Run("unavailable assistant is a 503 with a fixed reply", func(t *testing.T) {
		handler, mockService := setupHandlerTest()
		mockService.On("Reply", mock.Anything, userID, mock.Anything).
			Return(nil, fmt.Errorf("%w: upstream", types.ErrAssistantUnavailable)).Once()

		rr := httptest.NewRecorder()
		handler.Chat(rr, chatRequest(userID, body))

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		var resp types.ChatResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, UnavailableReply, resp.Reply)
		assert.True(t, resp.Unavailable)
	})

	t.Run("invalid transcript", func(t *testing.T) {
		handler, mockService := setupHandlerTest()
		mockService.On("Reply", mock.Anything, userID, mock.Anything).
			Return(nil, fmt.Errorf("%w: the last message must come from the user", types.ErrInvalidInput)).Once()

		rr := httptest.NewRecorder()
		handler.Chat(rr, chatRequest(userID, body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		handler, mockService := setupHandlerTest()

		rr := httptest.NewRecorder()
		handler.Chat(rr, chatRequest(userID, `{"msgs":[]}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Reply", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("internal failure hides details", func(t *testing.T) {
		handler, mockService := setupHandlerTest()
		mockService.On("Reply", mock.Anything, userID, mock.Anything).Return(nil, errors.New("pg: broken pipe")).Once()

		rr := httptest.NewRecorder()
		handler.Chat(rr, chatRequest(userID, body))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "broken pipe")
	})
}
