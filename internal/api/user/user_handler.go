package user

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
	GetUserProfile(w http.ResponseWriter, r *http.Request)
	UpdateUserProfile(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	profileService ProfileService
	logger         *slog.Logger
}

// NewHandlerImpl creates a new profile HandlerImpl instance.
func NewHandlerImpl(profileService ProfileService, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("PANIC: Attempting to create HandlerImpl with nil logger!")
	}

	return &HandlerImpl{
		profileService: profileService,
		logger:         logger,
	}
}

// GetUserProfile godoc
// @Summary      Get User Profile
// @Description  Retrieves the authenticated user's health profile.
// @Tags         Profile
// @Produce      json
// @Success      200 {object} types.UserProfile "User Profile"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      404 {object} api.Response "User Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /profile [get]
func (h *HandlerImpl) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "GetUserProfile"))

	// Get UserID from context (set by Authenticate middleware)
	userID, ok := auth.UserUUIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.profileService.GetUserProfile(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get user profile", slog.Any("error", err))
		if errors.Is(err, types.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		} else {
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve user profile")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// UpdateUserProfile godoc
// @Summary      Update User Profile
// @Description  Replaces every field of the authenticated user's health profile.
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        profile body types.UpdateProfileParams true "Profile"
// @Success      200 {object} api.Response "Profile Updated Successfully"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /profile [put]
func (h *HandlerImpl) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "UpdateUserProfile"))

	userID, ok := auth.UserUUIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.UpdateProfileParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err := h.profileService.UpdateUserProfile(ctx, userID, params)
	if err != nil {
		status := api.StatusFromError(err)
		if status == http.StatusInternalServerError {
			l.ErrorContext(ctx, "Failed to update user profile", slog.Any("error", err))
			api.ErrorResponse(w, r, status, "Failed to update user profile")
			return
		}
		api.ErrorResponse(w, r, status, err.Error())
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Profile updated successfully",
	})
}
