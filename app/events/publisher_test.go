package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-diet-assistant/config"
	"github.com/FACorreiaa/go-diet-assistant/internal/types"
)

type MockMessageWriter struct {
	mock.Mock
}

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	return m.Called().Error(0)
}

type MockSendMessageAPI struct {
	mock.Mock
}

func (m *MockSendMessageAPI) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.SendMessageOutput), args.Error(1)
}

func sampleEvent() FoodLoggedEvent {
	return NewFoodLoggedEvent(&types.FoodLogEntry{
		ID:               uuid.New(),
		OwnerID:          uuid.New(),
		CreatedAt:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		InputType:        types.InputTypeText,
		FoodDescription:  "현미 비빔밥",
		BloodSugarImpact: "중간",
		CarbsRatio:       60,
		ProteinRatio:     20,
		FatRatio:         20,
	})
}

func TestKafkaPublisher_PublishFoodLogged(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	event := sampleEvent()

	t.Run("keys message by owner", func(t *testing.T) {
		w := new(MockMessageWriter)
		p := &KafkaPublisher{writer: w, logger: logger}

		w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 || string(msgs[0].Key) != event.OwnerID.String() {
				return false
			}
			var decoded FoodLoggedEvent
			return json.Unmarshal(msgs[0].Value, &decoded) == nil && decoded.LogID == event.LogID
		})).Return(nil).Once()

		require.NoError(t, p.PublishFoodLogged(context.Background(), event))
		w.AssertExpectations(t)
	})

	t.Run("write error", func(t *testing.T) {
		w := new(MockMessageWriter)
		p := &KafkaPublisher{writer: w, logger: logger}
		writeErr := errors.New("broker down")
		w.On("WriteMessages", mock.Anything, mock.Anything).Return(writeErr).Once()

		err := p.PublishFoodLogged(context.Background(), event)
		assert.ErrorIs(t, err, writeErr)
		w.AssertExpectations(t)
	})
}

func TestSQSPublisher_PublishFoodLogged(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	event := sampleEvent()
	client := new(MockSendMessageAPI)
	p := &SQSPublisher{client: client, queueURL: "https://sqs.local/food-logs", logger: logger}

	client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
		return *in.QueueUrl == "https://sqs.local/food-logs" && json.Valid([]byte(*in.MessageBody))
	})).Return(&sqs.SendMessageOutput{}, nil).Once()

	require.NoError(t, p.PublishFoodLogged(context.Background(), event))
	client.AssertExpectations(t)
}

func TestNewPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	p, err := NewPublisher(context.Background(), config.EventsConfig{Driver: "none"}, logger)
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)

	_, err = NewPublisher(context.Background(), config.EventsConfig{Driver: "carrier-pigeon"}, logger)
	assert.Error(t, err)
}
