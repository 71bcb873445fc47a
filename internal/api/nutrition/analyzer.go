package nutrition

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-diet-assistant/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-diet-assistant/internal/api/generative_ai"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

var _ Analyzer = (*AnalyzerImpl)(nil)

// Analyzer turns a meal description or photo into a NutritionAnalysis.
// It never fails: any problem yields types.FailedAnalysis().
type Analyzer interface {
	Analyze(ctx context.Context, in types.AnalysisInput) types.NutritionAnalysis
}

// JSONGenerator is the model capability the analyzer needs.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, req generativeAI.JSONRequest, dst any) error
}

type AnalyzerImpl struct {
	logger *slog.Logger
	model  JSONGenerator
}

func NewAnalyzer(model JSONGenerator, logger *slog.Logger) *AnalyzerImpl {
	return &AnalyzerImpl{
		logger: logger,
		model:  model,
	}
}

func (a *AnalyzerImpl) Analyze(ctx context.Context, in types.AnalysisInput) types.NutritionAnalysis {
	hasImage := in.Image != nil && len(in.Image.Data) > 0
	ctx, span := otel.Tracer("NutritionAnalyzer").Start(ctx, "Analyze", trace.WithAttributes(
		attribute.Bool("input.image", hasImage),
		attribute.Int("input.text.length", len(in.Text)),
	))
	defer span.End()

	l := a.logger.With(slog.String("method", "Analyze"))
	m := metrics.Get()

	inputType := string(types.InputTypeText)
	if hasImage {
		inputType = string(types.InputTypeImage)
	}
	m.AnalysisRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("input_type", inputType)))

	if in.Empty() {
		l.WarnContext(ctx, "Nothing to analyse")
		span.SetStatus(codes.Error, "Empty input")
		m.AnalysisFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "empty_input")))
		return types.FailedAnalysis()
	}

	req := generativeAI.JSONRequest{
		SystemInstruction: systemInstruction(in.Profile),
		Prompt:            userPrompt(in.Text),
		Schema:            analysisSchema,
	}
	if hasImage {
		req.Image = in.Image
	}

	var result types.NutritionAnalysis
	if err := a.model.GenerateJSON(ctx, req, &result); err != nil {
		l.ErrorContext(ctx, "Analysis failed, returning sentinel", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Model call failed")
		m.AnalysisFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "model")))
		return types.FailedAnalysis()
	}

	if result.FoodName == "" && result.Summary == "" {
		l.WarnContext(ctx, "Model returned an empty analysis")
		span.SetStatus(codes.Error, "Empty analysis")
		m.AnalysisFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "empty_result")))
		return types.FailedAnalysis()
	}

	result.CarbsRatio = clampRatio(result.CarbsRatio)
	result.ProteinRatio = clampRatio(result.ProteinRatio)
	result.FatRatio = clampRatio(result.FatRatio)

	l.InfoContext(ctx, "Meal analysed",
		slog.String("food_name", result.FoodName),
		slog.String("blood_sugar_impact", result.BloodSugarImpact))
	span.SetAttributes(attribute.String("analysis.food_name", result.FoodName))
	span.SetStatus(codes.Ok, "Analysis complete")
	return result
}

func clampRatio(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
