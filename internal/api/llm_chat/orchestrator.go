package llmChat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-diet-assistant/app/observability/metrics"
	"github.com/FACorreiaa/go-diet-assistant/config"
	generativeAI "github.com/FACorreiaa/go-diet-assistant/internal/api/generative_ai"
	restaurantSearch "github.com/FACorreiaa/go-diet-assistant/internal/api/restaurant_search"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

const (
	defaultMaxToolRounds  = 3
	defaultMaxCorrections = 1
	defaultRequestTimeout = 45 * time.Second
	toolConcurrency       = 4
)

// Model is the language-model capability the orchestrator drives. *generativeAI.AIClient satisfies it.
type Model interface {
	GenerateTurn(ctx context.Context, req generativeAI.TurnRequest) (types.Turn, error)
	GenerateJSON(ctx context.Context, req generativeAI.JSONRequest, dst any) error
}

// Runner produces the final reply for one conversation.
type Runner interface {
	Run(ctx context.Context, in RunInput) (types.ChatResult, error)
}

// RunInput is one orchestration request. Transcript is copied, never modified.
type RunInput struct {
	SystemInstruction string
	Transcript        []types.Turn
	Diabetes          types.DiabetesStatus
	Regime            Regime
}

type state int

const (
	stateGenerate state = iota
	stateToolExec
	stateSafetyCheck
	stateCorrect
	stateDone
)

func (s state) String() string {
	return [...]string{"GENERATE", "TOOL_EXEC", "SAFETY_CHECK", "CORRECT", "DONE"}[s]
}

var _ Runner = (*Orchestrator)(nil)

// Orchestrator runs the GENERATE / TOOL_EXEC / SAFETY_CHECK / CORRECT loop.
type Orchestrator struct {
	logger         *slog.Logger
	model          Model
	searcher       restaurantSearch.Searcher
	tools          []*genai.FunctionDeclaration
	maxToolRounds  int
	maxCorrections int
	timeout        time.Duration
}

func NewOrchestrator(model Model, searcher restaurantSearch.Searcher, cfg config.LLMConfig, logger *slog.Logger) *Orchestrator {
	o := &Orchestrator{
		logger:         logger,
		model:          model,
		searcher:       searcher,
		tools:          []*genai.FunctionDeclaration{restaurantSearch.Declaration()},
		maxToolRounds:  cfg.MaxToolRounds,
		maxCorrections: cfg.MaxCorrections,
		timeout:        cfg.RequestTimeout,
	}
	if o.maxToolRounds <= 0 {
		o.maxToolRounds = defaultMaxToolRounds
	}
	if o.maxCorrections <= 0 {
		o.maxCorrections = defaultMaxCorrections
	}
	if o.timeout <= 0 {
		o.timeout = defaultRequestTimeout
	}
	return o
}

// Run drives the state machine to DONE. The only error it returns wraps types.ErrAssistantUnavailable.
func (o *Orchestrator) Run(ctx context.Context, in RunInput) (types.ChatResult, error) {
	ctx, span := otel.Tracer("ChatOrchestrator").Start(ctx, "Run", trace.WithAttributes(
		attribute.Int("transcript.turns", len(in.Transcript)),
		attribute.String("chat.regime", string(in.Regime)),
		attribute.Bool("chat.safety_check", in.Diabetes.RequiresSafetyCheck()),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	l := o.logger.With(slog.String("method", "Run"))
	m := metrics.Get()

	transcript := make([]types.Turn, len(in.Transcript), len(in.Transcript)+8)
	copy(transcript, in.Transcript)

	var (
		result  types.ChatResult
		pending []types.ToolCall
		draft   string
		reason  string
	)

	st := stateGenerate
	for st != stateDone {
		l.DebugContext(ctx, "Orchestrator step", slog.String("state", st.String()))

		switch st {
		case stateGenerate:
			req := generativeAI.TurnRequest{
				SystemInstruction: in.SystemInstruction,
				Transcript:        transcript,
			}
			toolsAllowed := result.ToolRounds < o.maxToolRounds
			if toolsAllowed {
				req.Tools = o.tools
			}

			turn, err := o.model.GenerateTurn(ctx, req)
			if err != nil {
				l.ErrorContext(ctx, "Model failed to generate a turn", slog.Any("error", err))
				span.RecordError(err)
				span.SetStatus(codes.Error, "Generate failed")
				return result, fmt.Errorf("%w: %w", types.ErrAssistantUnavailable, err)
			}

			switch t := turn.(type) {
			case types.ToolRequestTurn:
				if toolsAllowed {
					transcript = append(transcript, t)
					pending = t.Calls
					st = stateToolExec
					continue
				}
				// Tool use past the cap is ignored; any text it carried is the answer.
				if strings.TrimSpace(t.Text) == "" {
					span.SetStatus(codes.Error, "Tool round cap exhausted")
					return result, fmt.Errorf("%w: no answer after %d tool rounds", types.ErrAssistantUnavailable, result.ToolRounds)
				}
				draft = t.Text
				transcript = append(transcript, types.AssistantTurn{Text: t.Text})
			case types.AssistantTurn:
				draft = t.Text
				transcript = append(transcript, t)
			default:
				return result, fmt.Errorf("%w: unexpected turn %T", types.ErrAssistantUnavailable, turn)
			}
			st = stateSafetyCheck

		case stateToolExec:
			transcript = append(transcript, o.execTools(ctx, pending)...)
			pending = nil
			result.ToolRounds++
			st = stateGenerate

		case stateSafetyCheck:
			if !in.Diabetes.RequiresSafetyCheck() {
				st = stateDone
				continue
			}
			assessment, err := o.checkSafety(ctx, in, draft)
			if err != nil {
				l.WarnContext(ctx, "Safety check failed, adding disclaimer", slog.Any("error", err))
				result.Disclaimed = true
				st = stateDone
				continue
			}
			m.SafetyChecksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("verdict", string(assessment.Verdict))))
			if assessment.Verdict != types.VerdictDanger {
				st = stateDone
				continue
			}
			if result.Corrections >= o.maxCorrections {
				l.WarnContext(ctx, "Correction cap reached, adding disclaimer", slog.String("reason", assessment.Reason))
				result.Disclaimed = true
				st = stateDone
				continue
			}
			reason = assessment.Reason
			st = stateCorrect

		case stateCorrect:
			l.InfoContext(ctx, "Answer flagged, requesting correction", slog.String("reason", reason))
			transcript = append(transcript, types.CorrectionTurn{Reason: reason})
			result.Corrections++
			m.SafetyCorrectionsTotal.Add(ctx, 1)
			st = stateGenerate
		}
	}

	result.Reply = draft
	if result.Disclaimed {
		m.SafetyDisclaimersTotal.Add(ctx, 1)
		result.Reply = draft + "\n\n" + SafetyDisclaimer
	}

	span.SetAttributes(
		attribute.Int("chat.tool_rounds", result.ToolRounds),
		attribute.Int("chat.corrections", result.Corrections),
		attribute.Bool("chat.disclaimed", result.Disclaimed),
	)
	span.SetStatus(codes.Ok, "Reply produced")
	return result, nil
}

// execTools runs every call concurrently and returns their results in call order.
func (o *Orchestrator) execTools(ctx context.Context, calls []types.ToolCall) []types.Turn {
	results := make([]types.Turn, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(toolConcurrency)
	for i, call := range calls {
		g.Go(func() error {
			results[i] = types.ToolResultTurn{
				CallID:   call.ID,
				Name:     call.Name,
				Response: o.execTool(gctx, call),
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (o *Orchestrator) execTool(ctx context.Context, call types.ToolCall) map[string]any {
	m := metrics.Get()
	if call.Name != restaurantSearch.ToolName {
		m.ToolCallsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool", call.Name), attribute.String("status", "unknown_tool")))
		return map[string]any{"error": fmt.Sprintf("unknown tool %q", call.Name)}
	}

	location, keyword, err := restaurantSearch.ArgsFromCall(call)
	if err != nil {
		m.ToolCallsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool", call.Name), attribute.String("status", "invalid_args")))
		return map[string]any{"error": err.Error()}
	}

	outcome := o.searcher.Search(ctx, location, keyword)
	m.ToolCallsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", call.Name), attribute.String("status", string(outcome.Status))))
	return outcome.ToolResponse()
}

func (o *Orchestrator) checkSafety(ctx context.Context, in RunInput, draft string) (types.SafetyAssessment, error) {
	var assessment types.SafetyAssessment
	err := o.model.GenerateJSON(ctx, generativeAI.JSONRequest{
		SystemInstruction: safetyInstruction,
		Prompt:            safetyPrompt(in.Diabetes, in.Regime, draft),
		Schema:            safetySchema,
		Temperature:       genai.Ptr[float32](0),
	}, &assessment)
	if err != nil {
		return assessment, err
	}
	switch assessment.Verdict {
	case types.VerdictSafe, types.VerdictDanger:
		return assessment, nil
	default:
		return assessment, fmt.Errorf("unknown safety verdict %q", assessment.Verdict)
	}
}
