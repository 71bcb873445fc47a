package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

func TestAuthenticate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	user := &types.UserAuth{ID: uuid.New(), Username: "minji"}

	protected := func(t *testing.T) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserUUIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, user.ID, userID)
			username, _ := GetUsernameFromContext(r.Context())
			assert.Equal(t, "minji", username)
			w.WriteHeader(http.StatusNoContent)
		})
	}

	t.Run("valid token passes through", func(t *testing.T) {
		mockService := new(MockAuthService)
		mockService.On("ResolveToken", mock.Anything, "good-token").Return(user, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rr := httptest.NewRecorder()
		Authenticate(logger, mockService)(protected(t)).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockService.AssertExpectations(t)
	})

	rejected := []struct {
		name   string
		header string
		setup  func(m *MockAuthService)
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "too many parts", header: "Bearer a b"},
		{
			name:   "invalid token",
			header: "Bearer forged",
			setup: func(m *MockAuthService) {
				m.On("ResolveToken", mock.Anything, "forged").Return(nil, types.ErrUnauthenticated).Once()
			},
		},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			if tt.setup != nil {
				tt.setup(mockService)
			}
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("next handler must not run")
			})

			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			Authenticate(logger, mockService)(next).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Contains(t, rr.Body.String(), unauthorizedMessage)
			mockService.AssertExpectations(t)
		})
	}
}
