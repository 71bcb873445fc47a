package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-diet-assistant/config"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

type AuthService interface {
	// Signup creates a user with an empty profile.
	Signup(ctx context.Context, username, password string) (*types.UserAuth, error)
	// Login verifies credentials and issues an access token whose subject is the username.
	Login(ctx context.Context, username, password string) (string, error)
	// ResolveToken validates an access token and returns the user it was issued for.
	ResolveToken(ctx context.Context, tokenString string) (*types.UserAuth, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
	jwtCfg config.JWTConfig
	now    func() time.Time
}

func NewAuthService(repo UserRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	if jwtCfg.SecretKey == "" {
		logger.Error("FATAL: JWT Secret Key is not configured!")
		panic("JWT Secret Key cannot be empty")
	}
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
		now:    time.Now,
	}
}

func (s *AuthServiceImpl) Signup(ctx context.Context, username, password string) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Signup", trace.WithAttributes(
		attribute.String("username", username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Signup"))

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		span.SetStatus(codes.Error, "Missing credentials")
		return nil, fmt.Errorf("username and password are required: %w", types.ErrInvalidInput)
	}
	if len(username) > maxUsernameLength {
		span.SetStatus(codes.Error, "Username too long")
		return nil, fmt.Errorf("username longer than %d characters: %w", maxUsernameLength, types.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		span.SetStatus(codes.Error, "Password too short")
		return nil, fmt.Errorf("password shorter than %d characters: %w", minPasswordLength, types.ErrInvalidInput)
	}
	if len(password) > maxPasswordBytes {
		span.SetStatus(codes.Error, "Password too long")
		return nil, fmt.Errorf("password longer than %d bytes: %w", maxPasswordBytes, types.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Hashing failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, username, string(hash))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create user failed")
		return nil, err
	}

	l.InfoContext(ctx, "User signed up", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "User signed up")
	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login", trace.WithAttributes(
		attribute.String("username", username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"), slog.String("username", username))

	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Login attempt for unknown user")
			span.SetStatus(codes.Error, "Invalid credentials")
			return "", fmt.Errorf("%w: %w", types.ErrUnauthenticated, errInvalidCredentials)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return "", fmt.Errorf("error fetching user for login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		l.WarnContext(ctx, "Password mismatch")
		span.SetStatus(codes.Error, "Invalid credentials")
		return "", fmt.Errorf("%w: %w", types.ErrUnauthenticated, errInvalidCredentials)
	}

	token, err := s.issueAccessToken(user.Username)
	if err != nil {
		l.ErrorContext(ctx, "Failed to sign access token", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token signing failed")
		return "", err
	}

	l.InfoContext(ctx, "User logged in", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "User logged in")
	return token, nil
}

func (s *AuthServiceImpl) issueAccessToken(username string) (string, error) {
	now := s.now()
	claims := types.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtCfg.AccessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *AuthServiceImpl) ResolveToken(ctx context.Context, tokenString string) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "ResolveToken")
	defer span.End()

	l := s.logger.With(slog.String("method", "ResolveToken"))

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.jwtCfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.jwtCfg.Issuer))
	}

	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.SecretKey), nil
	}, parserOpts...)
	if err != nil || !token.Valid {
		l.WarnContext(ctx, "Token parsing/validation failed", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid token")
		return nil, fmt.Errorf("%w: invalid token", types.ErrUnauthenticated)
	}

	if claims.Subject == "" {
		span.SetStatus(codes.Error, "Missing subject")
		return nil, fmt.Errorf("%w: token has no subject", types.ErrUnauthenticated)
	}

	user, err := s.repo.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.WarnContext(ctx, "Token subject does not exist", slog.String("subject", claims.Subject))
			span.SetStatus(codes.Error, "Unknown subject")
			return nil, fmt.Errorf("%w: unknown subject", types.ErrUnauthenticated)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return nil, fmt.Errorf("error resolving token subject: %w", err)
	}

	span.SetStatus(codes.Ok, "Token resolved")
	return user, nil
}
