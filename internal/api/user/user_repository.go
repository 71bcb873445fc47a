package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-diet-assistant/app/db"
	"github.com/FACorreiaa/go-diet-assistant/app/observability/metrics"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

var _ ProfileRepo = (*PostgresProfileRepo)(nil)

// ProfileRepo defines the contract for profile data persistence.
type ProfileRepo interface {
	// GetProfile returns types.ErrNotFound when the user does not exist.
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	// UpdateProfile replaces every mutable profile field in one statement.
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error
}

type PostgresProfileRepo struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewPostgresProfileRepo(pgxpool database.DBTX, logger *slog.Logger) *PostgresProfileRepo {
	return &PostgresProfileRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresProfileRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "GetProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()
	start := time.Now()

	profile := types.UserProfile{ID: userID}
	query := `
		SELECT username, gender, age, height, weight,
		       diabetes_type, fasting_sugar, hba1c, activity_level, health_goal
		FROM users WHERE id = $1`
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&profile.Username,
		&profile.Gender,
		&profile.Age,
		&profile.Height,
		&profile.Weight,
		&profile.DiabetesType,
		&profile.FastingSugar,
		&profile.HbA1c,
		&profile.ActivityLevel,
		&profile.HealthGoal,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.Get().RecordQuery(ctx, "GetProfile", start, nil)
		span.SetStatus(codes.Error, "User not found")
		return nil, fmt.Errorf("profile for user %s: %w", userID, types.ErrNotFound)
	}
	metrics.Get().RecordQuery(ctx, "GetProfile", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query profile", slog.String("method", "GetProfile"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching profile: %w", err)
	}

	span.SetStatus(codes.Ok, "Profile fetched")
	return &profile, nil
}

func (r *PostgresProfileRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()
	start := time.Now()

	l := r.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	query := `
		UPDATE users SET
			gender = $1, age = $2, height = $3, weight = $4,
			diabetes_type = $5, fasting_sugar = $6, hba1c = $7,
			activity_level = $8, health_goal = $9, updated_at = NOW()
		WHERE id = $10`
	tag, err := r.pgpool.Exec(ctx, query,
		params.Gender,
		params.Age,
		params.Height,
		params.Weight,
		params.DiabetesType,
		params.FastingSugar,
		params.HbA1c,
		params.ActivityLevel,
		params.HealthGoal,
		userID,
	)
	metrics.Get().RecordQuery(ctx, "UpdateProfile", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to execute update profile query", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		l.WarnContext(ctx, "User not found for profile update")
		span.SetStatus(codes.Error, "User not found")
		return fmt.Errorf("user not found for update: %w", types.ErrNotFound)
	}

	l.InfoContext(ctx, "User profile updated successfully")
	span.SetStatus(codes.Ok, "Profile updated")
	return nil
}
