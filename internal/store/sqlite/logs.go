package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-diet-assistant/app/observability/metrics"
	foodLog "github.com/FACorreiaa/go-diet-assistant/internal/api/food_log"
	healthLog "github.com/FACorreiaa/go-diet-assistant/internal/api/health_log"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

var (
	_ foodLog.FoodLogRepo     = (*Store)(nil)
	_ healthLog.HealthLogRepo = (*Store)(nil)
)

func (s *Store) CreateFoodLog(ctx context.Context, ownerID uuid.UUID, params types.CreateFoodLogParams) (*types.FoodLogEntry, error) {
	ctx, span := startSpan(ctx, "FoodLogRepo", "CreateFoodLog", "food_logs",
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.user.id", ownerID.String()),
	)
	defer span.End()
	start := time.Now()

	a := params.Analysis
	entry := types.FoodLogEntry{
		ID:                  uuid.New(),
		OwnerID:             ownerID,
		CreatedAt:           s.now().UTC(),
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO food_logs (
			id, owner_id, input_type, food_description, blood_sugar_impact,
			carbs_ratio, protein_ratio, fat_ratio, summary, action_guide,
			detailed_action_guide, alternatives, image_key, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.String(), ownerID.String(), string(entry.InputType), entry.FoodDescription, entry.BloodSugarImpact,
		entry.CarbsRatio, entry.ProteinRatio, entry.FatRatio, entry.Summary, entry.ActionGuide,
		entry.DetailedActionGuide, entry.Alternatives, entry.ImageKey, toUnix(entry.CreatedAt),
	)
	metrics.Get().RecordQuery(ctx, "CreateFoodLog", start, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert food log", slog.String("method", "CreateFoodLog"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating food log: %w", err)
	}

	span.SetStatus(codes.Ok, "Food log created")
	return &entry, nil
}

func (s *Store) ListFoodLogs(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.FoodLogEntry, error) {
	ctx, span := startSpan(ctx, "FoodLogRepo", "ListFoodLogs", "food_logs",
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.user.id", ownerID.String()),
		attribute.Int("db.limit", limit),
	)
	defer span.End()
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, input_type, food_description, blood_sugar_impact,
		       carbs_ratio, protein_ratio, fat_ratio, summary, action_guide,
		       detailed_action_guide, alternatives, image_key
		FROM food_logs
		WHERE owner_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, ownerID.String(), limit)
	if err != nil {
		metrics.Get().RecordQuery(ctx, "ListFoodLogs", start, err)
		s.logger.ErrorContext(ctx, "Failed to query food logs", slog.String("method", "ListFoodLogs"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing food logs: %w", err)
	}
	defer rows.Close()

	entries := make([]types.FoodLogEntry, 0, limit)
	for rows.Next() {
		var (
			e       types.FoodLogEntry
			created int64
			input   string
		)
		if err := rows.Scan(
			&e.ID, &created, &input, &e.FoodDescription, &e.BloodSugarImpact,
			&e.CarbsRatio, &e.ProteinRatio, &e.FatRatio, &e.Summary, &e.ActionGuide,
			&e.DetailedActionGuide, &e.Alternatives, &e.ImageKey,
		); err != nil {
			metrics.Get().RecordQuery(ctx, "ListFoodLogs", start, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("scanning food log row: %w", err)
		}
		e.OwnerID = ownerID
		e.CreatedAt = fromUnix(created)
		e.InputType = types.InputType(input)
		entries = append(entries, e)
	}
	err = rows.Err()
	metrics.Get().RecordQuery(ctx, "ListFoodLogs", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("iterating food log rows: %w", err)
	}

	span.SetStatus(codes.Ok, "Food logs listed")
	return entries, nil
}

func (s *Store) CreateHealthLog(ctx context.Context, ownerID uuid.UUID, params types.CreateHealthLogParams) (*types.HealthLogEntry, error) {
	ctx, span := startSpan(ctx, "HealthLogRepo", "CreateHealthLog", "health_logs",
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.user.id", ownerID.String()),
	)
	defer span.End()
	start := time.Now()

	entry := types.HealthLogEntry{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		CreatedAt:  s.now().UTC(),
		SugarLevel: params.SugarLevel,
		Note:       params.Note,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO health_logs (id, owner_id, sugar_level, note, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ID.String(), ownerID.String(), entry.SugarLevel, entry.Note, toUnix(entry.CreatedAt),
	)
	metrics.Get().RecordQuery(ctx, "CreateHealthLog", start, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert health log", slog.String("method", "CreateHealthLog"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB insert failed")
		return nil, fmt.Errorf("database error creating health log: %w", err)
	}

	span.SetStatus(codes.Ok, "Health log created")
	return &entry, nil
}

func (s *Store) ListHealthLogs(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.HealthLogEntry, error) {
	ctx, span := startSpan(ctx, "HealthLogRepo", "ListHealthLogs", "health_logs",
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.user.id", ownerID.String()),
		attribute.Int("db.limit", limit),
	)
	defer span.End()
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, sugar_level, note
		FROM health_logs
		WHERE owner_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, ownerID.String(), limit)
	if err != nil {
		metrics.Get().RecordQuery(ctx, "ListHealthLogs", start, err)
		s.logger.ErrorContext(ctx, "Failed to query health logs", slog.String("method", "ListHealthLogs"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error listing health logs: %w", err)
	}
	defer rows.Close()

	entries := make([]types.HealthLogEntry, 0, limit)
	for rows.Next() {
		var (
			e       types.HealthLogEntry
			created int64
			note    sql.NullString
		)
		if err := rows.Scan(&e.ID, &created, &e.SugarLevel, &note); err != nil {
			metrics.Get().RecordQuery(ctx, "ListHealthLogs", start, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("scanning health log row: %w", err)
		}
		e.OwnerID = ownerID
		e.CreatedAt = fromUnix(created)
		if note.Valid {
			e.Note = &note.String
		}
		entries = append(entries, e)
	}
	err = rows.Err()
	metrics.Get().RecordQuery(ctx, "ListHealthLogs", start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("iterating health log rows: %w", err)
	}

	span.SetStatus(codes.Ok, "Health logs listed")
	return entries, nil
}
