package foodLog

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

var _ FoodLogRepo = (*PostgresFoodLogRepo)(nil)

// FoodLogRepo persists analysed meals. Entries are append-only.
type FoodLogRepo interface {
	CreateFoodLog(ctx context.Context, ownerID uuid.UUID, params types.CreateFoodLogParams) (*types.FoodLogEntry, error)
	// ListFoodLogs returns at most limit entries of ownerID, newest first.
	ListFoodLogs(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.FoodLogEntry, error)
}

type PostgresFoodLogRepo struct {
	logger *slog.Logger
	pgpool database.DBTX
}

func NewPostgresFoodLogRepo(pgxpool database.DBTX, logger *slog.Logger) *PostgresFoodLogRepo {
	return &PostgresFoodLogRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *PostgresFoodLogRepo) CreateFoodLog(ctx context.Context, ownerID uuid.UUID, params types.CreateFoodLogParams) (*types.FoodLogEntry, error) {
	ctx, span := otel.Tracer("FoodLogRepo").Start(ctx, "CreateFoodLog", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "food_logs"),
		attribute.String("db.user.id", ownerID.String()),
	))
	defer span.End()
	start := time.Now()

	a := params.Analysis
	entry := types.FoodLogEntry{
		OwnerID:             ownerID,
		InputType:           params.InputType,
		FoodDescription:     params.FoodDescription(),
		BloodSugarImpact:    a.BloodSugarImpact,
		CarbsRatio:          a.CarbsRatio,
		ProteinRatio:        a.ProteinRatio,
		FatRatio:            a.FatRatio,
		Summary:             a.Summary,
		ActionGuide:         a.ActionGuide,
		DetailedActionGuide: a.DetailedActionGuide,
		Alternatives:        a.Alternatives,
		ImageKey:            params.ImageKey,
	}

	query := `
		INSERT INTO food_logs (
			owner_id, input_type, food_description, blood_sugar_impact,
			carbs_ratio, protein_ratio, fat_ratio, summary,
			action_guide, detailed_action_guide, alternatives, image_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`
	err := r.pgpool.QueryRow(ctx, query,
		ownerID,
		string(entry.InputType),
		entry.FoodDescription,
		entry.BloodSugarImpact,
		entry.CarbsRatio,
		entry.ProteinRatio,
		entry.FatRatio,
		entry.Summary,
		entry.ActionGuide,
		entry.DetailedActionGuide,
		entry.Alternatives,
		entry.ImageKey,
	).Scan(&entry.ID, &entry.CreatedAt)
	metrics.Get().RecordQuery(ctx, "CreateFoodLog", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert food log", slog.String("method", "CreateFoodLog"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error inserting food log: %w", err)
	}

	span.SetAttributes(attribute.String("food_log.id", entry.ID.String()))
	span.SetStatus(codes.Ok, "Food log created")
	return &entry, nil
}

func (r *PostgresFoodLogRepo) ListFoodLogs(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.FoodLogEntry, error) {
	ctx, span := otel.Tracer("FoodLogRepo").Start(ctx, "ListFoodLogs", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "food_logs"),
		attribute.String("db.user.id", ownerID.String()),
		attribute.Int("db.limit", limit),
	))
	defer span.End()
	start := time.Now()

	l := r.logger.With(slog.String("method", "ListFoodLogs"), slog.String("userID", ownerID.String()))

	query := `
		SELECT id, created_at, input_type, food_description, blood_sugar_impact,
		       carbs_ratio, protein_ratio, fat_ratio, summary,
		       action_guide, detailed_action_guide, alternatives, image_key
		FROM food_logs
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.pgpool.Query(ctx, query, ownerID, limit)
	if err != nil {
		metrics.Get().RecordQuery(ctx, "ListFoodLogs", start, err)
		l.ErrorContext(ctx, "Failed to query food logs", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing food logs: %w", err)
	}
	defer rows.Close()

	entries := make([]types.FoodLogEntry, 0, limit)
	for rows.Next() {
		entry := types.FoodLogEntry{OwnerID: ownerID}
		var inputType string
		if err := rows.Scan(
			&entry.ID,
			&entry.CreatedAt,
			&inputType,
			&entry.FoodDescription,
			&entry.BloodSugarImpact,
			&entry.CarbsRatio,
			&entry.ProteinRatio,
			&entry.FatRatio,
			&entry.Summary,
			&entry.ActionGuide,
			&entry.DetailedActionGuide,
			&entry.Alternatives,
			&entry.ImageKey,
		); err != nil {
			metrics.Get().RecordQuery(ctx, "ListFoodLogs", start, err)
			l.ErrorContext(ctx, "Failed to scan food log row", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, fmt.Errorf("database error scanning food log: %w", err)
		}
		entry.InputType = types.InputType(inputType)
		entries = append(entries, entry)
	}
	err = rows.Err()
	metrics.Get().RecordQuery(ctx, "ListFoodLogs", start, err)
	if err != nil {
		l.ErrorContext(ctx, "Error iterating food log rows", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB rows error")
		return nil, fmt.Errorf("database error iterating food logs: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows", len(entries)))
	span.SetStatus(codes.Ok, "Food logs listed")
	return entries, nil
}
