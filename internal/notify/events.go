package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/givehope/donation-service/internal/core/domain"
)

// queueKey is the Redis list holding pending status events.
const queueKey = "givehope:status-events"

// popTimeout bounds each blocking pop so the worker can notice shutdown.
const popTimeout = 5 * time.Second

// Queue publishes status events to the Redis outbound queue. It implements
// domain.EventPublisher.
type Queue struct {
	rdb *redis.Client
}

// NewQueue creates a publisher on the given Redis client.
func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// PublishStatusEvent enqueues one event. The caller logs and swallows any
// error; a dropped event is acceptable under the at-most-once contract.
func (q *Queue) PublishStatusEvent(ctx context.Context, event domain.StatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, queueKey, payload).Err()
}

// Worker drains the queue and hands rendered emails to the sender. It runs
// as a single goroutine for the lifetime of the process.
type Worker struct {
	rdb    *redis.Client
	sender Sender
	logger *zap.Logger
}

// NewWorker creates a queue consumer.
func NewWorker(rdb *redis.Client, sender Sender, logger *zap.Logger) *Worker {
	return &Worker{rdb: rdb, sender: sender, logger: logger}
}

// Run consumes events until the context is cancelled. Every failure mode is
// logged and swallowed so the loop keeps draining.
func (w *Worker) Run(ctx context.Context) {
	for {
		res, err := w.rdb.BRPop(ctx, popTimeout, queueKey).Result()
		if ctx.Err() != nil {
			return
		}
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			w.logger.Warn("Notification queue pop failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if len(res) == 2 {
			w.deliver(res[1])
		}
	}
}

// deliver decodes one queued event and attempts delivery.
func (w *Worker) deliver(payload string) {
	var event domain.StatusEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		w.logger.Warn("Dropping undecodable status event", zap.Error(err))
		return
	}

	subject, body, ok := RenderStatusEmail(event)
	if !ok {
		// No template for this status; nothing to send.
		return
	}

	if err := w.sender.Send(event.DonorEmail, subject, body); err != nil {
		w.logger.Warn("Email send failed",
			zap.String("donation_id", event.DonationID),
			zap.String("to", event.DonorEmail),
			zap.Error(err),
		)
		return
	}
	w.logger.Info("Status email sent",
		zap.String("donation_id", event.DonationID),
		zap.String("status", event.Status),
	)
}
