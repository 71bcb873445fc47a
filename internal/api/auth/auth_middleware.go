package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-diet-assistant/internal/api"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

const unauthorizedMessage = "Could not validate credentials"

// Authenticate is middleware to validate bearer access tokens.
// On success the resolved user's ID and username are stored in the request context.
func Authenticate(logger *slog.Logger, authService AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				l.WarnContext(ctx, "Missing Authorization header")
				w.Header().Set("WWW-Authenticate", "Bearer")
				api.ErrorResponse(w, r, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			headerParts := strings.Fields(authHeader)
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				l.WarnContext(ctx, "Invalid Authorization header format")
				w.Header().Set("WWW-Authenticate", "Bearer")
				api.ErrorResponse(w, r, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			user, err := authService.ResolveToken(ctx, headerParts[1])
			if err != nil {
				if !errors.Is(err, types.ErrUnauthenticated) {
					l.ErrorContext(ctx, "Failed to resolve token", slog.Any("error", err))
					api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
					return
				}
				w.Header().Set("WWW-Authenticate", "Bearer")
				api.ErrorResponse(w, r, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			ctx = context.WithValue(ctx, UserIDKey, user.ID.String())
			ctx = context.WithValue(ctx, UsernameKey, user.Username)
			l.DebugContext(ctx, "Authentication successful", slog.String("userID", user.ID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper functions to get claims from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// UserUUIDFromContext parses the authenticated user's ID stored by Authenticate.
func UserUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDStr, ok := GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
