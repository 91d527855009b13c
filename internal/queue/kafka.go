package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"todo-server/internal/config"
	"todo-server/internal/models"
	"todo-server/pkg/logger"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher sends change events to Kafka. A Publisher without a writer is disabled.
type Publisher struct {
	w MessageWriter
}

// EnsureTopic creates the change topic with configured partitions (idempotent).
// If it fails (no broker, or the topic exists) the service still runs.
func EnsureTopic(ctx context.Context, cfg *config.Config) {
	if !cfg.EventsEnabled() {
		return
	}
	conn, err := kafka.DialContext(ctx, "tcp", cfg.KafkaBrokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     cfg.KafkaPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", cfg.KafkaTopic, "partitions", cfg.KafkaPartitions)
}

// NewPublisher builds an async writer for cfg.KafkaTopic, or a disabled publisher without brokers.
func NewPublisher(ctx context.Context, cfg *config.Config) *Publisher {
	if !cfg.EventsEnabled() {
		logger.Info(ctx, "Change events disabled (KAFKA_BROKERS not set)")
		return &Publisher{}
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		RequiredAcks: kafka.RequireOne,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warn(context.Background(), "Kafka async write failed", "error", err, "messages", len(messages))
			}
		},
	}
	logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return &Publisher{w: w}
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(w MessageWriter) *Publisher {
	return &Publisher{w: w}
}

// NewEvent stamps a change event with a fresh id and the current time.
func NewEvent(entity, action string, entityID int64) models.ChangeEvent {
	return models.ChangeEvent{
		ID:         uuid.NewString(),
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publish writes ev keyed by entity and id so changes to one row stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, ev models.ChangeEvent) error {
	if p == nil || p.w == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Entity + ":" + strconv.FormatInt(ev.EntityID, 10)),
		Value: payload,
	})
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}
