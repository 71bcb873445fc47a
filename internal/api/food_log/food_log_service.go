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
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-diet-assistant/app/events"
	"github.com/FACorreiaa/go-diet-assistant/app/storage"
	"github.com/FACorreiaa/go-diet-assistant/internal/api/nutrition"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

const defaultHistoryLimit = 10

var _ FoodLogService = (*FoodLogServiceImpl)(nil)

// FoodLogService analyses meals and keeps the resulting log.
type FoodLogService interface {
	// AnalyzeMeal runs the analyzer and persists the result, sentinel included.
	AnalyzeMeal(ctx context.Context, userID uuid.UUID, req AnalyzeMealRequest) (types.NutritionAnalysis, error)
	History(ctx context.Context, userID uuid.UUID) ([]types.FoodLogEntry, error)
}

// ProfileReader loads the profile used as analysis context.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
}

// AnalyzeMealRequest carries the optional text and image of one submission.
type AnalyzeMealRequest struct {
	Text  string
	Image *types.ImageUpload
}

type FoodLogServiceImpl struct {
	logger       *slog.Logger
	repo         FoodLogRepo
	profiles     ProfileReader
	analyzer     nutrition.Analyzer
	images       storage.ImageStore // nil disables archiving
	publisher    events.Publisher
	historyLimit int
	loc          *time.Location
}

func NewFoodLogService(
	repo FoodLogRepo,
	profiles ProfileReader,
	analyzer nutrition.Analyzer,
	images storage.ImageStore,
	publisher events.Publisher,
	historyLimit int,
	loc *time.Location,
	logger *slog.Logger,
) *FoodLogServiceImpl {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	if loc == nil {
		loc = time.UTC
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &FoodLogServiceImpl{
		logger:       logger,
		repo:         repo,
		profiles:     profiles,
		analyzer:     analyzer,
		images:       images,
		publisher:    publisher,
		historyLimit: historyLimit,
		loc:          loc,
	}
}

func (s *FoodLogServiceImpl) AnalyzeMeal(ctx context.Context, userID uuid.UUID, req AnalyzeMealRequest) (types.NutritionAnalysis, error) {
	hasImage := req.Image != nil && len(req.Image.Data) > 0
	ctx, span := otel.Tracer("FoodLogService").Start(ctx, "AnalyzeMeal", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Bool("input.image", hasImage),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "AnalyzeMeal"), slog.String("userID", userID.String()))

	input := types.AnalysisInput{Text: req.Text, Image: req.Image}
	if input.Empty() {
		span.SetStatus(codes.Error, "Empty input")
		return types.NutritionAnalysis{}, fmt.Errorf("%w: text or image is required", types.ErrInvalidInput)
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load profile for analysis", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Profile lookup failed")
		return types.NutritionAnalysis{}, fmt.Errorf("error loading profile: %w", err)
	}
	input.Profile = profile

	var (
		analysis types.NutritionAnalysis
		imageKey *string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		analysis = s.analyzer.Analyze(gctx, input)
		return nil
	})
	if hasImage && s.images != nil {
		g.Go(func() error {
			key, err := s.images.PutFoodImage(gctx, userID, req.Image.MIMEType, req.Image.Data)
			if err != nil {
				// The analysis is still logged without the archived image.
				l.WarnContext(ctx, "Failed to archive food image", slog.Any("error", err))
				return nil
			}
			imageKey = &key
			return nil
		})
	}
	_ = g.Wait()

	inputType := types.InputTypeText
	if hasImage {
		inputType = types.InputTypeImage
	}
	entry, err := s.repo.CreateFoodLog(ctx, userID, types.CreateFoodLogParams{
		InputType: inputType,
		Analysis:  analysis,
		Text:      req.Text,
		ImageKey:  imageKey,
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to persist food log", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist food log")
		return types.NutritionAnalysis{}, fmt.Errorf("error saving food log: %w", err)
	}

	if err := s.publisher.PublishFoodLogged(ctx, events.NewFoodLoggedEvent(entry)); err != nil {
		l.WarnContext(ctx, "Food logged event was not published", slog.Any("error", err))
	}

	l.InfoContext(ctx, "Meal analysed and logged",
		slog.String("food_log_id", entry.ID.String()),
		slog.Bool("analysis_failed", analysis.Failed()))
	span.SetAttributes(attribute.String("food_log.id", entry.ID.String()))
	span.SetStatus(codes.Ok, "Meal logged")
	return analysis, nil
}

// History returns the most recent entries with timestamps in the configured zone.
func (s *FoodLogServiceImpl) History(ctx context.Context, userID uuid.UUID) ([]types.FoodLogEntry, error) {
	ctx, span := otel.Tracer("FoodLogService").Start(ctx, "History", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "History"), slog.String("userID", userID.String()))

	entries, err := s.repo.ListFoodLogs(ctx, userID, s.historyLimit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list food logs", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list food logs")
		return nil, fmt.Errorf("error fetching food history: %w", err)
	}
	for i := range entries {
		entries[i].CreatedAt = entries[i].CreatedAt.In(s.loc)
	}

	l.DebugContext(ctx, "Food history fetched", slog.Int("count", len(entries)))
	span.SetStatus(codes.Ok, "Food history fetched")
	return entries, nil
}
