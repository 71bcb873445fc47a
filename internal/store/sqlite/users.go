package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-diet-assistant/app/observability/metrics"
	"github.com/FACorreiaa/go-diet-assistant/internal/api/auth"
	"github.com/FACorreiaa/go-diet-assistant/internal/api/user"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

var (
	_ auth.UserRepo    = (*Store)(nil)
	_ user.ProfileRepo = (*Store)(nil)
)

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*types.UserAuth, error) {
	ctx, span := startSpan(ctx, "AuthRepo", "CreateUser", "users", attribute.String("db.operation", "INSERT"))
	defer span.End()
	start := time.Now()

	u := types.UserAuth{
		ID:        uuid.New(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: s.now().UTC(),
	}
	ts := toUnix(u.CreatedAt)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID.String(), u.Username, u.Password, ts, ts,
	)
	metrics.Get().RecordQuery(ctx, "CreateUser", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			span.SetStatus(codes.Error, "Username taken")
			return nil, fmt.Errorf("username %q: %w", username, types.ErrConflict)
		}
		s.logger.ErrorContext(ctx, "Failed to insert user", slog.String("method", "CreateUser"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	span.SetStatus(codes.Ok, "User created")
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error) {
	ctx, span := startSpan(ctx, "AuthRepo", "GetUserByUsername", "users", attribute.String("db.operation", "SELECT"))
	defer span.End()
	start := time.Now()

	var (
		u       types.UserAuth
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.Password, &created)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.Get().RecordQuery(ctx, "GetUserByUsername", start, nil)
		span.SetStatus(codes.Error, "User not found")
		return nil, fmt.Errorf("user %q: %w", username, types.ErrNotFound)
	}
	metrics.Get().RecordQuery(ctx, "GetUserByUsername", start, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to query user", slog.String("method", "GetUserByUsername"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	u.CreatedAt = fromUnix(created)

	span.SetStatus(codes.Ok, "User fetched")
	return &u, nil
}

func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	ctx, span := startSpan(ctx, "ProfileRepo", "GetProfile", "users",
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.user.id", userID.String()),
	)
	defer span.End()
	start := time.Now()

	profile := types.UserProfile{ID: userID}
	err := s.db.QueryRowContext(ctx, `
		SELECT username, gender, age, height, weight,
		       diabetes_type, fasting_sugar, hba1c, activity_level, health_goal
		FROM users WHERE id = ?`, userID.String(),
	).Scan(
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
	if errors.Is(err, sql.ErrNoRows) {
		metrics.Get().RecordQuery(ctx, "GetProfile", start, nil)
		span.SetStatus(codes.Error, "User not found")
		return nil, fmt.Errorf("profile for user %s: %w", userID, types.ErrNotFound)
	}
	metrics.Get().RecordQuery(ctx, "GetProfile", start, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to query profile", slog.String("method", "GetProfile"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching profile: %w", err)
	}

	span.SetStatus(codes.Ok, "Profile fetched")
	return &profile, nil
}

func (s *Store) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) error {
	ctx, span := startSpan(ctx, "ProfileRepo", "UpdateProfile", "users",
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.user.id", userID.String()),
	)
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			gender = ?, age = ?, height = ?, weight = ?,
			diabetes_type = ?, fasting_sugar = ?, hba1c = ?,
			activity_level = ?, health_goal = ?, updated_at = ?
		WHERE id = ?`,
		params.Gender,
		params.Age,
		params.Height,
		params.Weight,
		string(params.DiabetesType),
		params.FastingSugar,
		params.HbA1c,
		string(params.ActivityLevel),
		string(params.HealthGoal),
		toUnix(s.now()),
		userID.String(),
	)
	metrics.Get().RecordQuery(ctx, "UpdateProfile", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Failed to execute update profile query", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating profile: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		l.WarnContext(ctx, "User not found for profile update")
		span.SetStatus(codes.Error, "User not found")
		return fmt.Errorf("user not found for update: %w", types.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Profile updated")
	return nil
}
