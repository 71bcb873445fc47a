package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-diet-assistant/config"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

// MockUserRepo is a mock implementation of the UserRepo interface
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CreateUser(ctx context.Context, username, passwordHash string) (*types.UserAuth, error) {
	args := m.Called(ctx, username, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

func (m *MockUserRepo) GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UserAuth), args.Error(1)
}

var testJWTConfig = config.JWTConfig{
	SecretKey:      "test-secret",
	Issuer:         "go-diet-assistant",
	AccessTokenTTL: 10 * time.Hour,
}

func setupAuthServiceTest() (*AuthServiceImpl, *MockUserRepo) {
	mockRepo := new(MockUserRepo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(mockRepo, testJWTConfig, logger), mockRepo
}

func hashedUser(t *testing.T, username, password string) *types.UserAuth {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &types.UserAuth{ID: uuid.New(), Username: username, Password: string(hash)}
}

func TestAuthServiceImpl_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes password", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		created := &types.UserAuth{ID: uuid.New(), Username: "minji"}
		mockRepo.On("CreateUser", mock.Anything, "minji", mock.MatchedBy(func(hash string) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret!")) == nil
		})).Return(created, nil).Once()

		user, err := service.Signup(ctx, "  minji ", "s3cret!")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("CreateUser", mock.Anything, "minji", mock.Anything).Return(nil, types.ErrConflict).Once()

		_, err := service.Signup(ctx, "minji", "s3cret!")
		assert.ErrorIs(t, err, types.ErrConflict)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()

		_, err := service.Signup(ctx, "", "s3cret!")
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		_, err = service.Signup(ctx, "minji", "")
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("password over bcrypt limit", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()

		// 25 Hangul syllables are 75 bytes in UTF-8
		_, err := service.Signup(ctx, "minji", strings.Repeat("비", 25))
		assert.ErrorIs(t, err, types.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("password at bcrypt limit", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		password := strings.Repeat("비", 24)
		mockRepo.On("CreateUser", mock.Anything, "minji", mock.Anything).
			Return(&types.UserAuth{ID: uuid.New(), Username: "minji"}, nil).Once()

		_, err := service.Signup(ctx, "minji", password)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthServiceImpl_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("token subject is the username", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		user := hashedUser(t, "minji", "s3cret!")
		mockRepo.On("GetUserByUsername", mock.Anything, "minji").Return(user, nil).Once()

		tokenString, err := service.Login(ctx, "minji", "s3cret!")
		require.NoError(t, err)

		claims := &types.Claims{}
		_, err = jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testJWTConfig.SecretKey), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "minji", claims.Subject)
		assert.Equal(t, testJWTConfig.Issuer, claims.Issuer)
		require.NotNil(t, claims.ExpiresAt)
		assert.WithinDuration(t, time.Now().Add(testJWTConfig.AccessTokenTTL), claims.ExpiresAt.Time, time.Minute)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("GetUserByUsername", mock.Anything, "minji").Return(hashedUser(t, "minji", "s3cret!"), nil).Once()

		_, err := service.Login(ctx, "minji", "nope")
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, types.ErrNotFound).Once()

		_, err := service.Login(ctx, "ghost", "whatever")
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository failure is not an auth error", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		dbErr := errors.New("connection reset")
		mockRepo.On("GetUserByUsername", mock.Anything, "minji").Return(nil, dbErr).Once()

		_, err := service.Login(ctx, "minji", "s3cret!")
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, types.ErrUnauthenticated)
	})
}

func TestAuthServiceImpl_ResolveToken(t *testing.T) {
	ctx := context.Background()
	user := &types.UserAuth{ID: uuid.New(), Username: "minji"}

	issue := func(t *testing.T, service *AuthServiceImpl) string {
		t.Helper()
		token, err := service.issueAccessToken("minji")
		require.NoError(t, err)
		return token
	}

	t.Run("valid token resolves user", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("GetUserByUsername", mock.Anything, "minji").Return(user, nil).Once()

		resolved, err := service.ResolveToken(ctx, issue(t, service))
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("forged signature is rejected", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, types.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "minji",
			Issuer:    testJWTConfig.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}})
		tokenString, err := forged.SignedString([]byte("attacker-secret"))
		require.NoError(t, err)

		_, err = service.ResolveToken(ctx, tokenString)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	})

	t.Run("altered payload is rejected", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		parts := strings.Split(issue(t, service), ".")
		require.Len(t, parts, 3)
		payload, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)
		tampered := strings.Replace(string(payload), `"sub":"minji"`, `"sub":"admin"`, 1)
		require.NotEqual(t, string(payload), tampered)
		parts[1] = base64.RawURLEncoding.EncodeToString([]byte(tampered))

		_, err = service.ResolveToken(ctx, strings.Join(parts, "."))
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		service, _ := setupAuthServiceTest()
		service.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }
		tokenString := issue(t, service)
		service.now = time.Now

		_, err := service.ResolveToken(ctx, tokenString)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})

	t.Run("foreign issuer is rejected", func(t *testing.T) {
		service, _ := setupAuthServiceTest()
		other := *service
		other.jwtCfg.Issuer = "someone-else"
		tokenString := issue(t, &other)

		_, err := service.ResolveToken(ctx, tokenString)
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})

	t.Run("unknown subject is rejected", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("GetUserByUsername", mock.Anything, "minji").Return(nil, types.ErrNotFound).Once()

		_, err := service.ResolveToken(ctx, issue(t, service))
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("garbage token", func(t *testing.T) {
		service, _ := setupAuthServiceTest()
		_, err := service.ResolveToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, types.ErrUnauthenticated)
	})
}
