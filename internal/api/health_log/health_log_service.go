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
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

const defaultSugarLimit = 20

var _ HealthLogService = (*HealthLogServiceImpl)(nil)

type HealthLogService interface {
	LogSugar(ctx context.Context, userID uuid.UUID, params types.CreateHealthLogParams) (*types.HealthLogEntry, error)
	SugarHistory(ctx context.Context, userID uuid.UUID) ([]types.HealthLogEntry, error)
}

type HealthLogServiceImpl struct {
	logger *slog.Logger
	repo   HealthLogRepo
	limit  int
	loc    *time.Location
}

func NewHealthLogService(repo HealthLogRepo, limit int, loc *time.Location, logger *slog.Logger) *HealthLogServiceImpl {
	if limit <= 0 {
		limit = defaultSugarLimit
	}
	if loc == nil {
		loc = time.UTC
	}
	return &HealthLogServiceImpl{
		logger: logger,
		repo:   repo,
		limit:  limit,
		loc:    loc,
	}
}

// LogSugar validates and stores one glucose reading.
func (s *HealthLogServiceImpl) LogSugar(ctx context.Context, userID uuid.UUID, params types.CreateHealthLogParams) (*types.HealthLogEntry, error) {
	ctx, span := otel.Tracer("HealthLogService").Start(ctx, "LogSugar", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "LogSugar"), slog.String("userID", userID.String()))

	if err := params.Validate(); err != nil {
		l.WarnContext(ctx, "Rejected glucose reading", slog.Any("error", err))
		span.SetStatus(codes.Error, "Invalid reading")
		return nil, err
	}

	entry, err := s.repo.CreateHealthLog(ctx, userID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to store glucose reading", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store reading")
		return nil, fmt.Errorf("error saving glucose reading: %w", err)
	}
	entry.CreatedAt = entry.CreatedAt.In(s.loc)

	l.InfoContext(ctx, "Glucose reading logged", slog.Int("sugar_level", entry.SugarLevel))
	span.SetStatus(codes.Ok, "Reading logged")
	return entry, nil
}

// SugarHistory returns the latest readings with timestamps in the configured zone.
func (s *HealthLogServiceImpl) SugarHistory(ctx context.Context, userID uuid.UUID) ([]types.HealthLogEntry, error) {
	ctx, span := otel.Tracer("HealthLogService").Start(ctx, "SugarHistory", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	entries, err := s.repo.ListHealthLogs(ctx, userID, s.limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list glucose readings", slog.String("method", "SugarHistory"), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list readings")
		return nil, fmt.Errorf("error fetching glucose history: %w", err)
	}
	for i := range entries {
		entries[i].CreatedAt = entries[i].CreatedAt.In(s.loc)
	}

	span.SetStatus(codes.Ok, "Readings fetched")
	return entries, nil
}
