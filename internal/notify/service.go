package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkax "github.com/ariefcatur/go-cake-orders.git/internal/kafka"
	"github.com/ariefcatur/go-cake-orders.git/internal/orders"
	"github.com/ariefcatur/go-cake-orders.git/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Sink receives the decoded outbound message of a confirmed order.
type Sink interface {
	Deliver(ctx context.Context, p orders.OrderConfirmedPayload, text string) error
}

// Service consumes order.confirmed and hands each confirmation to the sink
// exactly once per event id.
type Service struct {
	Redis       *redis.Client
	Sink        Sink
	ServiceName string
	Log         *slog.Logger
}

// HandleOrderConfirmed: dipasang sebagai handler consumer.
func (s *Service) HandleOrderConfirmed(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// pesan rusak tidak akan pernah sukses, commit saja
		s.Log.Error("drop malformed envelope", "offset", m.Offset, "err", err)
		return nil
	}
	if env.EventType != orders.EventOrderConfirmed {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	exists, err := redisx.Exists(ctx, s.Redis, dkey)
	if err != nil {
		return fmt.Errorf("dedup lookup: %w", err)
	}
	if exists {
		s.Log.Info("skip duplicate", "event_id", env.EventID)
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderConfirmedPayload](env.Payload)
	if err != nil {
		s.Log.Error("drop malformed payload", "event_id", env.EventID, "err", err)
		return nil
	}
	text, err := orders.DecodeLinkMessage(p.Link)
	if err != nil {
		s.Log.Error("drop payload with bad link", "event_id", env.EventID, "err", err)
		return nil
	}

	if err := s.Sink.Deliver(ctx, p, text); err != nil {
		return fmt.Errorf("deliver %s: %w", env.EventID, err)
	}
	return s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
}

// LogSink prints the pre-typed message the customer would send.
type LogSink struct {
	Log *slog.Logger
}

func (l LogSink) Deliver(_ context.Context, p orders.OrderConfirmedPayload, text string) error {
	l.Log.Info("confirmation message ready",
		"session_id", p.SessionID,
		"customer", p.CustomerName,
		"pickup_date", p.PickupDate,
		"due_at_pickup", p.AmountDueAtPickup,
		"text", text,
	)
	return nil
}
