package wizard

import (
	"context"
	"log/slog"
	"strconv"

	kafkax "github.com/ariefcatur/go-cake-orders.git/internal/kafka"
	"github.com/ariefcatur/go-cake-orders.git/internal/orders"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher emits the confirmation once a customer confirms.
type Publisher interface {
	PublishConfirmed(ctx context.Context, env orders.Envelope) error
}

// KafkaPublisher publishes envelopes to order.confirmed, keyed by session.
type KafkaPublisher struct {
	Producer *kafkax.Producer
}

func (p KafkaPublisher) PublishConfirmed(ctx context.Context, env orders.Envelope) error {
	return p.Producer.Publish(ctx, orders.PartitionKey(env.CorrelationID), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(env.EventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte(strconv.Itoa(env.EventVersion))},
	)
}

// LogPublisher is used when no brokers are configured.
type LogPublisher struct {
	Log *slog.Logger
}

func (p LogPublisher) PublishConfirmed(_ context.Context, env orders.Envelope) error {
	p.Log.Info("order confirmed",
		"event_id", env.EventID,
		"session_id", env.CorrelationID,
		"payload", string(env.Payload),
	)
	return nil
}
