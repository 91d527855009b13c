package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"todo-server/internal/cache"
	"todo-server/internal/config"
	"todo-server/internal/models"
	"todo-server/pkg/logger"
)

const (
	groupID         = "todo-server-cache"
	fetchRetryDelay = time.Second
)

// Invalidator drops stale list cache entries.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// Run consumes change events and invalidates the list cache for the affected entity.
// It returns when ctx is cancelled. One consumer per process; replicas share partitions
// through the consumer group.
func Run(ctx context.Context, cfg *config.Config, inv Invalidator) error {
	if !cfg.EventsEnabled() {
		logger.Info(ctx, "Change worker disabled (no Kafka brokers)")
		return nil
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	logger.Info(ctx, "Kafka consumer started", "topic", cfg.KafkaTopic, "group", groupID)
	consume(ctx, reader, inv, fetchRetryDelay)
	return nil
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// consume runs until ctx is cancelled. A failed fetch waits retryDelay before
// the next attempt so an unreachable broker does not spin the loop.
func consume(ctx context.Context, reader messageReader, inv Invalidator, retryDelay time.Duration) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			if !waitRetry(ctx, retryDelay) {
				return
			}
			continue
		}
		if err := handleMessage(ctx, inv, msg.Value); err != nil {
			// Commit anyway to avoid a poison pill blocking the partition.
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
		}
		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
	}
}

// waitRetry reports false if ctx ends before d elapses.
func waitRetry(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func handleMessage(ctx context.Context, inv Invalidator, payload []byte) error {
	var ev models.ChangeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	switch ev.Entity {
	case models.EntityUser, models.EntityTodo:
	default:
		return fmt.Errorf("unknown entity %q", ev.Entity)
	}
	inv.Invalidate(ctx, cache.KeysFor(ev.Entity)...)
	logger.Debug(ctx, "Change applied to cache", "entity", ev.Entity, "action", ev.Action, "entity_id", ev.EntityID)
	return nil
}
