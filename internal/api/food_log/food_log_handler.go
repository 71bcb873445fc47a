package foodLog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-diet-assistant/internal/api"
	"github.com/FACorreiaa/go-diet-assistant/internal/api/auth"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

// maxUploadBytes bounds the whole multipart body of /analyze.
const maxUploadBytes = 10 << 20

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	AnalyzeMeal(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	foodLogService FoodLogService
	logger         *slog.Logger
}

func NewHandlerImpl(foodLogService FoodLogService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		foodLogService: foodLogService,
		logger:         logger,
	}
}

// AnalyzeMeal godoc
// @Summary      Analyse a meal
// @Description  Analyses a meal from a description and/or a photo, stores the result in the food log and returns it. A failed analysis is returned as the sentinel result with food_name "Error".
// @Tags         Food Log
// @Accept       multipart/form-data
// @Produce      json
// @Param        text formData string false "Meal description"
// @Param        file formData file false "Meal photo"
// @Success      200 {object} types.NutritionAnalysis
// @Failure      400 {object} api.Response "No input or unsupported file"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      413 {object} api.Response "Upload too large"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /analyze [post]
func (h *HandlerImpl) AnalyzeMeal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "AnalyzeMeal"))

	userID, ok := auth.UserUUIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			api.ErrorResponse(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload must not be larger than %d bytes", maxBytesError.Limit))
			return
		}
		l.WarnContext(ctx, "Failed to parse form", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	req := AnalyzeMealRequest{Text: strings.TrimSpace(r.FormValue("text"))}

	image, err := readImage(r)
	if err != nil {
		l.WarnContext(ctx, "Rejected upload", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Image = image

	if req.Text == "" && req.Image == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "text or file is required")
		return
	}

	analysis, err := h.foodLogService.AnalyzeMeal(ctx, userID, req)
	if err != nil {
		status := api.StatusFromError(err)
		if status == http.StatusInternalServerError {
			api.ErrorResponse(w, r, status, "Failed to analyse meal")
			return
		}
		api.ErrorResponse(w, r, status, err.Error())
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, analysis)
}

// readImage returns the uploaded "file" part, or nil when none was sent.
func readImage(r *http.Request) (*types.ImageUpload, error) {
	file, _, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("could not read file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("file must be an image, got %s", mimeType)
	}
	return &types.ImageUpload{MIMEType: mimeType, Data: data}, nil
}

// GetHistory godoc
// @Summary      Food history
// @Description  Returns the authenticated user's most recent food logs, newest first.
// @Tags         Food Log
// @Produce      json
// @Success      200 {array} types.FoodLogEntry
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /history [get]
func (h *HandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "GetHistory"))

	userID, ok := auth.UserUUIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	entries, err := h.foodLogService.History(ctx, userID)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve food history")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, entries)
}
