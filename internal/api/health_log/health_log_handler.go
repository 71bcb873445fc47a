package healthLog

import (
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-diet-assistant/internal/api"
	"github.com/FACorreiaa/go-diet-assistant/internal/api/auth"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	LogSugar(w http.ResponseWriter, r *http.Request)
	GetSugarHistory(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	healthLogService HealthLogService
	logger           *slog.Logger
}

func NewHandlerImpl(healthLogService HealthLogService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		healthLogService: healthLogService,
		logger:           logger,
	}
}

// LogSugar godoc
// @Summary      Log a glucose reading
// @Tags         Health Log
// @Accept       json
// @Produce      json
// @Param        reading body types.CreateHealthLogParams true "Glucose reading"
// @Success      200 {object} api.Response "Logged"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /health/sugar [post]
func (h *HandlerImpl) LogSugar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "LogSugar"))

	userID, ok := auth.UserUUIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.CreateHealthLogParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.healthLogService.LogSugar(ctx, userID, params); err != nil {
		status := api.StatusFromError(err)
		if status == http.StatusInternalServerError {
			api.ErrorResponse(w, r, status, "Failed to log glucose reading")
			return
		}
		api.ErrorResponse(w, r, status, err.Error())
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Logged",
	})
}

// GetSugarHistory godoc
// @Summary      Glucose history
// @Description  Returns the authenticated user's most recent glucose readings, newest first.
// @Tags         Health Log
// @Produce      json
// @Success      200 {array} types.HealthLogEntry
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /health/sugar [get]
func (h *HandlerImpl) GetSugarHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "GetSugarHistory"))

	userID, ok := auth.UserUUIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	entries, err := h.healthLogService.SugarHistory(ctx, userID)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve glucose history")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, entries)
}
