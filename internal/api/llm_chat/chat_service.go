package llmChat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-diet-assistant/app/observability/metrics"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

const (
	defaultRecentLogs = 5
	defaultMaxHistory = 20
)

var _ ChatService = (*ChatServiceImpl)(nil)

type ChatService interface {
	// Reply answers the latest user message. Model failures wrap types.ErrAssistantUnavailable.
	Reply(ctx context.Context, userID uuid.UUID, req types.ChatRequest) (*types.ChatResponse, error)
}

// ProfileReader loads the profile snapshot injected into the prompt.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
}

// RecentLogReader loads the latest food logs injected into the prompt.
type RecentLogReader interface {
	ListFoodLogs(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.FoodLogEntry, error)
}

type ChatServiceImpl struct {
	logger     *slog.Logger
	profiles   ProfileReader
	logs       RecentLogReader
	runner     Runner
	recentLogs int
	maxHistory int
	loc        *time.Location
	now        func() time.Time
}

func NewChatService(
	profiles ProfileReader,
	logs RecentLogReader,
	runner Runner,
	recentLogs, maxHistory int,
	loc *time.Location,
	logger *slog.Logger,
) *ChatServiceImpl {
	if recentLogs <= 0 {
		recentLogs = defaultRecentLogs
	}
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ChatServiceImpl{
		logger:     logger,
		profiles:   profiles,
		logs:       logs,
		runner:     runner,
		recentLogs: recentLogs,
		maxHistory: maxHistory,
		loc:        loc,
		now:        time.Now,
	}
}

func (s *ChatServiceImpl) Reply(ctx context.Context, userID uuid.UUID, req types.ChatRequest) (*types.ChatResponse, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "Reply", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("chat.messages", len(req.Messages)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Reply"), slog.String("userID", userID.String()))
	m := metrics.Get()
	m.ChatRequestsTotal.Add(ctx, 1)

	transcript, lastUserText, err := TranscriptFromMessages(req.Messages, s.maxHistory)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid transcript")
		return nil, err
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load profile for chat", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Profile lookup failed")
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	recent, err := s.logs.ListFoodLogs(ctx, userID, s.recentLogs)
	if err != nil {
		// The assistant still answers, just without meal context.
		l.WarnContext(ctx, "Failed to load recent food logs", slog.Any("error", err))
		recent = nil
	}

	now := s.now().In(s.loc)
	regime, source := DetectRegime(lastUserText, now)
	span.SetAttributes(attribute.String("chat.regime", string(regime)), attribute.String("chat.regime_source", string(source)))

	result, err := s.runner.Run(ctx, RunInput{
		SystemInstruction: BuildSystemPrompt(PromptContext{
			Now:        now,
			Profile:    profile,
			RecentLogs: recent,
			Regime:     regime,
			Source:     source,
		}),
		Transcript: transcript,
		Diabetes:   profile.Diabetes(),
		Regime:     regime,
	})
	if err != nil {
		if errors.Is(err, types.ErrAssistantUnavailable) {
			m.ChatUnavailableTotal.Add(ctx, 1)
		}
		l.ErrorContext(ctx, "Assistant could not answer", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Orchestration failed")
		return nil, err
	}

	l.InfoContext(ctx, "Assistant replied",
		slog.Int("tool_rounds", result.ToolRounds),
		slog.Int("corrections", result.Corrections),
		slog.Bool("disclaimed", result.Disclaimed))
	span.SetStatus(codes.Ok, "Reply produced")
	return &types.ChatResponse{Reply: result.Reply}, nil
}

// TranscriptFromMessages converts client messages into turns, keeping at most the last maxHistory.
// The transcript must end with a user message; it also returns that message's text.
func TranscriptFromMessages(messages []types.ChatMessage, maxHistory int) ([]types.Turn, string, error) {
	turns := make([]types.Turn, 0, len(messages))
	for i, msg := range messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		switch msg.Role {
		case types.RoleUser:
			turns = append(turns, types.UserTurn{Text: content})
		case types.RoleAssistant:
			turns = append(turns, types.AssistantTurn{Text: content})
		default:
			return nil, "", fmt.Errorf("%w: message %d has unsupported role %q", types.ErrInvalidInput, i, msg.Role)
		}
	}

	if maxHistory > 0 && len(turns) > maxHistory {
		turns = turns[len(turns)-maxHistory:]
	}
	// The model expects the conversation to open with the user.
	for len(turns) > 0 {
		if _, ok := turns[0].(types.UserTurn); ok {
			break
		}
		turns = turns[1:]
	}

	if len(turns) == 0 {
		return nil, "", fmt.Errorf("%w: at least one user message is required", types.ErrInvalidInput)
	}
	last, ok := turns[len(turns)-1].(types.UserTurn)
	if !ok {
		return nil, "", fmt.Errorf("%w: the last message must come from the user", types.ErrInvalidInput)
	}
	return turns, last.Text, nil
}
