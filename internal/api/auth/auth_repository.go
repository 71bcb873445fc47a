package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

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

var _ UserRepo = (*PostgresAuthRepo)(nil)

type UserRepo interface {
	// CreateUser inserts a user with an empty profile. Returns types.ErrConflict if the username is taken.
	CreateUser(ctx context.Context, username, passwordHash string) (*types.UserAuth, error)
	// GetUserByUsername returns types.ErrNotFound when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewPostgresAuthRepo(pgxpool database.DBTX, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, passwordHash string) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()
	start := time.Now()

	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("username", username))

	user := &types.UserAuth{Username: username, Password: passwordHash}
	err := r.pgpool.QueryRow(ctx,
		"INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at",
		username, passwordHash).Scan(&user.ID, &user.CreatedAt)
	metrics.Get().RecordQuery(ctx, "CreateUser", start, err)
	if err != nil {
		span.RecordError(err)
		if database.IsUniqueViolation(err) {
			l.WarnContext(ctx, "Username already taken")
			span.SetStatus(codes.Error, "Username conflict")
			return nil, fmt.Errorf("username %q: %w", username, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	l.InfoContext(ctx, "User created", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "User created")
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByUsername", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()
	start := time.Now()

	var user types.UserAuth
	err := r.pgpool.QueryRow(ctx,
		"SELECT id, username, password_hash, created_at FROM users WHERE username = $1",
		username).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.Get().RecordQuery(ctx, "GetUserByUsername", start, nil)
		span.SetStatus(codes.Error, "User not found")
		return nil, fmt.Errorf("user %q: %w", username, types.ErrNotFound)
	}
	metrics.Get().RecordQuery(ctx, "GetUserByUsername", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query user", slog.String("method", "GetUserByUsername"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	span.SetStatus(codes.Ok, "User found")
	return &user, nil
}
