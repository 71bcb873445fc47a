package llmChat

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-diet-assistant/internal/api"
	"github.com/FACorreiaa/go-diet-assistant/internal/api/auth"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Chat(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	chatService ChatService
	logger      *slog.Logger
}

func NewLLMHandlerImpl(chatService ChatService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat godoc
// @Summary      Chat with the AI nutritionist
// @Description  Sends the conversation so far and returns the assistant's reply. Recent food logs and the profile are added as context. Restaurant suggestions come from a live place search.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request body types.ChatRequest true "Conversation"
// @Success      200 {object} types.ChatResponse
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      503 {object} types.ChatResponse "Assistant unavailable"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /chat [post]
func (h *HandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "Chat"))

	userID, ok := auth.UserUUIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.chatService.Reply(ctx, userID, req)
	if err != nil {
		switch status := api.StatusFromError(err); {
		case errors.Is(err, types.ErrAssistantUnavailable):
			api.WriteJSONResponse(w, r, http.StatusServiceUnavailable, types.ChatResponse{
				Reply:       UnavailableReply,
				Unavailable: true,
			})
		case status == http.StatusInternalServerError:
			api.ErrorResponse(w, r, status, "Failed to process chat")
		default:
			api.ErrorResponse(w, r, status, err.Error())
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
