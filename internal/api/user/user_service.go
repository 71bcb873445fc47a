package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

// Ensure implementation satisfies the interface
var _ ProfileService = (*ProfileServiceImpl)(nil)

// ProfileService defines the business logic contract for profile operations.
type ProfileService interface {
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpdateUserProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error
}

// ProfileServiceImpl provides the implementation for ProfileService.
type ProfileServiceImpl struct {
	logger *slog.Logger
	repo   ProfileRepo
}

// NewProfileService creates a new profile service instance.
func NewProfileService(repo ProfileRepo, logger *slog.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// GetUserProfile retrieves a user's profile by ID.
func (s *ProfileServiceImpl) GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "GetUserProfile", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetUserProfile"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Fetching user profile")

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch user profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch user profile")
		return nil, fmt.Errorf("error fetching user profile: %w", err)
	}

	span.SetStatus(codes.Ok, "User profile fetched")
	return profile, nil
}

// UpdateUserProfile validates params and replaces the stored profile.
func (s *ProfileServiceImpl) UpdateUserProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "UpdateUserProfile", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateUserProfile"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Updating user profile")

	if err := params.Validate(); err != nil {
		l.WarnContext(ctx, "Rejected profile update", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid profile")
		return err
	}

	if err := s.repo.UpdateProfile(ctx, userID, params); err != nil {
		l.ErrorContext(ctx, "Failed to update user profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update user profile")
		return fmt.Errorf("error updating user profile: %w", err)
	}

	l.InfoContext(ctx, "User profile updated successfully")
	span.SetStatus(codes.Ok, "User profile updated")
	return nil
}
