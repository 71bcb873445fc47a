package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-diet-assistant/config"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

// FoodLoggedEvent is emitted after an analysis has been persisted.
type FoodLoggedEvent struct {
	LogID            uuid.UUID       `json:"log_id"`
	OwnerID          uuid.UUID       `json:"owner_id"`
	InputType        types.InputType `json:"input_type"`
	FoodDescription  string          `json:"food_description"`
	BloodSugarImpact string          `json:"blood_sugar_impact"`
	CarbsRatio       int             `json:"carbs_ratio"`
	ProteinRatio     int             `json:"protein_ratio"`
	FatRatio         int             `json:"fat_ratio"`
	LoggedAt         time.Time       `json:"logged_at"`
}

// NewFoodLoggedEvent builds the event payload for a stored entry.
func NewFoodLoggedEvent(entry *types.FoodLogEntry) FoodLoggedEvent {
	return FoodLoggedEvent{
		LogID:            entry.ID,
		OwnerID:          entry.OwnerID,
		InputType:        entry.InputType,
		FoodDescription:  entry.FoodDescription,
		BloodSugarImpact: entry.BloodSugarImpact,
		CarbsRatio:       entry.CarbsRatio,
		ProteinRatio:     entry.ProteinRatio,
		FatRatio:         entry.FatRatio,
		LoggedAt:         entry.CreatedAt.UTC(),
	}
}

// Publisher delivers domain events to downstream consumers.
type Publisher interface {
	PublishFoodLogged(ctx context.Context, event FoodLoggedEvent) error
	Close() error
}

// NewPublisher returns the publisher selected by cfg.Driver.
func NewPublisher(ctx context.Context, cfg config.EventsConfig, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		return NoopPublisher{}, nil
	case "kafka":
		writer := kafka.NewWriter(kafka.WriterConfig{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.Topic,
			Balancer: &kafka.LeastBytes{},
		})
		return &KafkaPublisher{writer: writer, logger: logger}, nil
	case "sqs":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
		}
		client := sqs.NewFromConfig(awsCfg)
		resp, err := client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(cfg.SQS.QueueName)})
		if err != nil {
			return nil, fmt.Errorf("failed to get SQS queue URL: %w", err)
		}
		return &SQSPublisher{client: client, queueURL: aws.ToString(resp.QueueUrl), logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishFoodLogged(context.Context, FoodLoggedEvent) error { return nil }
func (NoopPublisher) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by owner so one user's events stay ordered.
type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

func (p *KafkaPublisher) PublishFoodLogged(ctx context.Context, event FoodLoggedEvent) error {
	ctx, span := otel.Tracer("EventPublisher").Start(ctx, "PublishFoodLogged", trace.WithAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("food_log.id", event.LogID.String()),
	))
	defer span.End()

	payload, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal failed")
		return fmt.Errorf("failed to marshal food logged event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OwnerID.String()),
		Value: payload,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish food logged event", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return fmt.Errorf("could not write kafka message: %w", err)
	}
	span.SetStatus(codes.Ok, "published")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type sendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends each event as one queue message.
type SQSPublisher struct {
	client   sendMessageAPI
	queueURL string
	logger   *slog.Logger
}

func (p *SQSPublisher) PublishFoodLogged(ctx context.Context, event FoodLoggedEvent) error {
	ctx, span := otel.Tracer("EventPublisher").Start(ctx, "PublishFoodLogged", trace.WithAttributes(
		attribute.String("messaging.system", "aws_sqs"),
		attribute.String("food_log.id", event.LogID.String()),
	))
	defer span.End()

	payload, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal failed")
		return fmt.Errorf("failed to marshal food logged event: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(payload)),
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to send SQS message", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}
	span.SetStatus(codes.Ok, "published")
	return nil
}

func (p *SQSPublisher) Close() error { return nil }
