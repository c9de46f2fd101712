package producer

import (
	"context"
	"time"

	"github.com/mujabaralno/qr-absence/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const defaultBatchSize = 50

// OutboxWorker polls the outbox table and relays due events to Kafka.
// Messages are keyed by aggregate id so updates to the same record land in
// one partition, in order.
type OutboxWorker struct {
	repo     kafka.OutboxRepository
	writer   *kafkago.Writer
	logger   *zap.Logger
	interval time.Duration
}

func NewOutboxWorker(repo kafka.OutboxRepository, writer *kafkago.Writer, interval time.Duration) *OutboxWorker {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &OutboxWorker{
		repo:     repo,
		writer:   writer,
		logger:   zap.L().Named("kafka.outbox.worker"),
		interval: interval,
	}
}

// Run blocks until the context is cancelled, draining one batch per tick.
func (w *OutboxWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("outbox worker started", zap.Duration("poll_interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := w.drainOnce(ctx); err != nil {
				w.logger.Error("outbox drain failed", zap.Error(err))
			}
		}
	}
}

// drainOnce delivers up to one batch of due events. A publish failure marks
// the row failed and moves on; the backoff schedule brings it around again.
func (w *OutboxWorker) drainOnce(ctx context.Context) error {
	due, err := w.repo.ListPending(ctx, defaultBatchSize)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	w.logger.Info("draining outbox", zap.Int("count", len(due)))

	for _, event := range due {
		if err := w.publish(ctx, event); err != nil {
			w.logger.Error("publish failed",
				zap.String("outbox_id", event.ID),
				zap.String("topic", event.Topic),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			_ = w.repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := w.repo.MarkSent(ctx, event.ID); err != nil {
			w.logger.Error("mark sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
			continue
		}

		w.logger.Info("event delivered",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return nil
}
