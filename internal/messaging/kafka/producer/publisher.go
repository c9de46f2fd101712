package producer

import (
	"context"

	"github.com/mujabaralno/qr-absence/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// publish writes one outbox row to its topic. Consumers can route on the
// headers without decoding the payload.
func (w *OutboxWorker) publish(ctx context.Context, event kafka.OutboxEvent) error {
	return w.writer.WriteMessages(ctx, kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
			{Key: "request_id", Value: []byte(event.RequestID)},
		},
	})
}
