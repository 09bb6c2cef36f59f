package kafka

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/honeynil/rotrade/internal/events"
	"github.com/segmentio/kafka-go"
)

// readRetryDelay is the pause after a failed fetch before the next one.
const readRetryDelay = time.Second

// LedgerReconciler re-checks a user's balance against the coin ledger.
type LedgerReconciler interface {
	Reconcile(ctx context.Context, userID int64) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer listens on the coins topic and reconciles every user whose
// balance an event touched.
type Consumer struct {
	reader     messageReader
	topic      string
	reconciler LedgerReconciler
	retryDelay time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, reconciler LedgerReconciler) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		topic:      topic,
		reconciler: reconciler,
		retryDelay: readRetryDelay,
	}
}

// Consume blocks until ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, context.Canceled) {
				slog.Info("Kafka consumer stopped", "topic", c.topic)
				return
			}
			slog.Error("failed to read Kafka message", "topic", c.topic, "error", err)
			if !c.wait(ctx) {
				slog.Info("Kafka consumer stopped", "topic", c.topic)
				return
			}
			continue
		}
		c.handle(ctx, msg)
	}
}

// wait pauses before the next fetch and reports false once ctx is done.
func (c *Consumer) wait(ctx context.Context) bool {
	delay := c.retryDelay
	if delay <= 0 {
		delay = readRetryDelay
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	var evt events.Event
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		slog.Error("failed to unmarshal event", "topic", msg.Topic, "offset", msg.Offset, "error", err)
		return
	}

	switch evt.Type {
	case events.DepositCompleted, events.ListingFeatured:
		if evt.UserID == 0 {
			slog.Error("coin event without user_id", "event_id", evt.ID, "type", evt.Type)
			return
		}
		if err := c.reconciler.Reconcile(ctx, evt.UserID); err != nil {
			slog.Error("ledger reconciliation failed", "event_id", evt.ID, "user_id", evt.UserID, "error", err)
			return
		}
		slog.Debug("ledger reconciled", "event_id", evt.ID, "user_id", evt.UserID)
	default:
		slog.Debug("ignoring event", "event_id", evt.ID, "type", evt.Type)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
