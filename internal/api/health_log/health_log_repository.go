package healthLog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-diet-assistant/app/db"
	"github.com/FACorreiaa/go-diet-assistant/app/observability/metrics"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

var _ HealthLogRepo = (*PostgresHealthLogRepo)(nil)

// HealthLogRepo persists glucose readings. Entries are append-only.
type HealthLogRepo interface {
	CreateHealthLog(ctx context.Context, ownerID uuid.UUID, params types.CreateHealthLogParams) (*types.HealthLogEntry, error)
	// ListHealthLogs returns at most limit readings of ownerID, newest first.
	ListHealthLogs(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.HealthLogEntry, error)
}

type PostgresHealthLogRepo struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewPostgresHealthLogRepo(pgxpool database.DBTX, logger *slog.Logger) *PostgresHealthLogRepo {
	return &PostgresHealthLogRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresHealthLogRepo) CreateHealthLog(ctx context.Context, ownerID uuid.UUID, params types.CreateHealthLogParams) (*types.HealthLogEntry, error) {
	ctx, span := otel.Tracer("HealthLogRepo").Start(ctx, "CreateHealthLog", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "health_logs"),
		attribute.String("db.user.id", ownerID.String()),
	))
	defer span.End()
	start := time.Now()

	entry := types.HealthLogEntry{
		OwnerID:    ownerID,
		SugarLevel: params.SugarLevel,
		Note:       params.Note,
	}
	query := `
		INSERT INTO health_logs (owner_id, sugar_level, note)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.pgpool.QueryRow(ctx, query, ownerID, params.SugarLevel, params.Note).Scan(&entry.ID, &entry.CreatedAt)
	metrics.Get().RecordQuery(ctx, "CreateHealthLog", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert health log", slog.String("method", "CreateHealthLog"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error inserting health log: %w", err)
	}

	span.SetStatus(codes.Ok, "Health log created")
	return &entry, nil
}

func (r *PostgresHealthLogRepo) ListHealthLogs(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.HealthLogEntry, error) {
	ctx, span := otel.Tracer("HealthLogRepo").Start(ctx, "ListHealthLogs", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "health_logs"),
		attribute.String("db.user.id", ownerID.String()),
		attribute.Int("db.limit", limit),
	))
	defer span.End()
	start := time.Now()

	l := r.logger.With(slog.String("method", "ListHealthLogs"), slog.String("userID", ownerID.String()))

	query := `
		SELECT id, created_at, sugar_level, note
		FROM health_logs
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.pgpool.Query(ctx, query, ownerID, limit)
	if err != nil {
		metrics.Get().RecordQuery(ctx, "ListHealthLogs", start, err)
		l.ErrorContext(ctx, "Failed to query health logs", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing health logs: %w", err)
	}
	defer rows.Close()

	entries := make([]types.HealthLogEntry, 0, limit)
	for rows.Next() {
		entry := types.HealthLogEntry{OwnerID: ownerID}
		if err := rows.Scan(&entry.ID, &entry.CreatedAt, &entry.SugarLevel, &entry.Note); err != nil {
			metrics.Get().RecordQuery(ctx, "ListHealthLogs", start, err)
			l.ErrorContext(ctx, "Failed to scan health log row", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, fmt.Errorf("database error scanning health log: %w", err)
		}
		entries = append(entries, entry)
	}
	err = rows.Err()
	metrics.Get().RecordQuery(ctx, "ListHealthLogs", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Error iterating health log rows", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows error")
		return nil, fmt.Errorf("database error iterating health logs: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(entries)))
	span.SetStatus(codes.Ok, "Health logs listed")
	return entries, nil
}
