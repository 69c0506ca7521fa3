package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	kafkax "github.com/ariefcatur/go-cake-orders.git/internal/kafka"
	"github.com/ariefcatur/go-cake-orders.git/internal/orders"
	"github.com/ariefcatur/go-cake-orders.git/internal/redisx"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	texts []string
	err   error
}

func (r *recordingSink) Deliver(_ context.Context, _ orders.OrderConfirmedPayload, text string) error {
	if r.err != nil {
		return r.err
	}
	r.texts = append(r.texts, text)
	return nil
}

func newTestService(t *testing.T) (*Service, *recordingSink, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redisx.New(mr.Addr())
	t.Cleanup(func() { _ = rdb.Close() })
	sink := &recordingSink{}
	return &Service{
		Redis:       rdb,
		Sink:        sink,
		ServiceName: "notifier",
		Log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, sink, mr
}

func confirmedMessage(t *testing.T, eventID string) kafkago.Message {
	t.Helper()
	w := orders.NewWorkflow()
	require.NoError(t, w.Edit(orders.FieldCustomerName, "Aisha Khan"))
	require.NoError(t, w.Edit(orders.FieldTotalPrice, "75"))
	require.NoError(t, w.GenerateLink("simulated-form.com"))
	require.NoError(t, w.SimulateAccess())
	require.NoError(t, w.AcceptTerms(true))
	c, err := w.Confirm(orders.NewFormatter("wa.me", "19453425041", "$"))
	require.NoError(t, err)

	env := orders.Envelope{
		EventID:       eventID,
		EventType:     orders.EventOrderConfirmed,
		EventVersion:  1,
		OccurredAt:    time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		Producer:      "cake-wizard",
		CorrelationID: "s1",
		Payload:       kafkax.MustMarshal(orders.NewOrderConfirmedPayload("s1", w.Snapshot().Record, c)),
	}
	return kafkago.Message{Key: orders.PartitionKey("s1"), Value: kafkax.MustMarshal(env)}
}

func TestHandleOrderConfirmed_DeliversOnce(t *testing.T) {
	svc, sink, mr := newTestService(t)
	ctx := context.Background()
	m := confirmedMessage(t, "ev-1")

	require.NoError(t, svc.HandleOrderConfirmed(ctx, m))
	require.NoError(t, svc.HandleOrderConfirmed(ctx, m))

	require.Len(t, sink.texts, 1)
	assert.Contains(t, sink.texts[0], "Customer Name: Aisha Khan\n")
	assert.Contains(t, sink.texts[0], "Total Price: $75.00")
	assert.True(t, mr.Exists("dedup:notifier:ev-1"))
}

func TestHandleOrderConfirmed_SinkFailureRetries(t *testing.T) {
	svc, sink, mr := newTestService(t)
	ctx := context.Background()
	m := confirmedMessage(t, "ev-2")

	sink.err = errors.New("unavailable")
	assert.Error(t, svc.HandleOrderConfirmed(ctx, m))
	assert.False(t, mr.Exists("dedup:notifier:ev-2"))

	sink.err = nil
	require.NoError(t, svc.HandleOrderConfirmed(ctx, m))
	assert.Len(t, sink.texts, 1)
}

func TestHandleOrderConfirmed_IgnoresOtherMessages(t *testing.T) {
	svc, sink, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.HandleOrderConfirmed(ctx, kafkago.Message{Value: []byte("not json")}))
	require.NoError(t, svc.HandleOrderConfirmed(ctx, kafkago.Message{
		Value: kafkax.MustMarshal(orders.Envelope{EventID: "x", EventType: "Other"}),
	}))
	assert.Empty(t, sink.texts)
}
