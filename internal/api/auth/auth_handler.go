package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-diet-assistant/internal/api"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		authService: authService,
	}
}

// Signup godoc
// @Summary      Create an account
// @Description  Registers a new user with an empty health profile.
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username formData string true "Username"
// @Param        password formData string true "Password"
// @Success      200 {object} api.Response "Created"
// @Failure      400 {object} api.Response "User exists or missing fields"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Signup", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/signup"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Signup"))

	username := r.FormValue("username")
	password := r.FormValue("password")

	_, err := h.authService.Signup(ctx, username, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Signup failed")
		switch {
		case errors.Is(err, types.ErrConflict):
			api.ErrorResponse(w, r, http.StatusBadRequest, "User exists")
		case errors.Is(err, types.ErrInvalidInput):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Signup failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	span.SetStatus(codes.Ok, "User created")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Success: true, Message: "Created"})
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges a username and password for a bearer access token.
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username formData string true "Username"
// @Param        password formData string true "Password"
// @Success      200 {object} types.LoginResponse
// @Failure      401 {object} api.Response "Incorrect username or password"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), "Login", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/login"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Login"))

	token, err := h.authService.Login(ctx, r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Login failed")
		if errors.Is(err, types.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log in")
		return
	}

	span.SetStatus(codes.Ok, "Logged in")
	api.WriteJSONResponse(w, r, http.StatusOK, types.LoginResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
	})
}
