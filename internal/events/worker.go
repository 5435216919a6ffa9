package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/medbank-platform/question-engine/internal/services"
)

const checkTimeout = 30 * time.Second

// SimilarityWorker consumes question lifecycle events and runs a similarity
// check for each created question. Delivery is at-most-once: every message
// is acked regardless of outcome, and failures are logged rather than
// retried, since the periodic rescan sweeps up anything missed.
type SimilarityWorker struct {
	subscriber message.Subscriber
	checker    services.SimilarityService
	logger     *slog.Logger
	topicName  string
}

// WorkerConfig holds configuration for the similarity worker
type WorkerConfig struct {
	KafkaBrokers  []string
	TopicName     string
	ConsumerGroup string
	Logger        *slog.Logger
}

func NewSimilarityWorker(config WorkerConfig, checker services.SimilarityService) (*SimilarityWorker, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	subscriberConfig := kafka.SubscriberConfig{
		Brokers:       config.KafkaBrokers,
		ConsumerGroup: config.ConsumerGroup,
		Unmarshaler:   kafka.DefaultMarshaler{},
	}

	subscriber, err := kafka.NewSubscriber(subscriberConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}

	return &SimilarityWorker{
		subscriber: subscriber,
		checker:    checker,
		logger:     config.Logger,
		topicName:  config.TopicName,
	}, nil
}

// Run consumes events until the context is cancelled.
func (w *SimilarityWorker) Run(ctx context.Context) error {
	messages, err := w.subscriber.Subscribe(ctx, w.topicName)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", w.topicName, err)
	}

	w.logger.Info("similarity worker started", "topic", w.topicName)
	for msg := range messages {
		w.handle(ctx, msg)
		msg.Ack()
	}
	return nil
}

func (w *SimilarityWorker) handle(ctx context.Context, msg *message.Message) {
	var event QuestionEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		w.logger.Error("failed to decode event", "message_id", msg.UUID, "error", err)
		return
	}
	if event.Type != EventQuestionCreated {
		return
	}

	var payload QuestionCreatedEvent
	raw, err := json.Marshal(event.Data)
	if err == nil {
		err = json.Unmarshal(raw, &payload)
	}
	if err != nil || payload.QuestionID == 0 {
		w.logger.Error("failed to decode question created payload", "event_id", event.ID, "error", err)
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	result, err := w.checker.CheckSimilar(checkCtx, payload.QuestionID)
	if err != nil {
		w.logger.Error("similarity check failed",
			"question_id", payload.QuestionID,
			"event_id", event.ID,
			"error", err)
		return
	}

	w.logger.Info("similarity check complete",
		"question_id", payload.QuestionID,
		"skipped", result.Skipped,
		"group_created", result.GroupCreated)
}

// Close shuts down the subscriber.
func (w *SimilarityWorker) Close() error {
	return w.subscriber.Close()
}
