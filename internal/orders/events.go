package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderConfirmed = "OrderConfirmed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "cake-wizard"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // session id
	Payload       json.RawMessage `json:"payload"`
}

// OrderConfirmedPayload is published once a customer confirms. Amounts are
// fixed 2-decimal strings.
type OrderConfirmedPayload struct {
	SessionID         string `json:"session_id"`
	CustomerName      string `json:"customer_name"`
	PickupDate        string `json:"pickup_date"`
	TotalPrice        string `json:"total_price"`
	AmountPaidToday   string `json:"amount_paid_today"`
	AmountDueAtPickup string `json:"amount_due_at_pickup"`
	Message           string `json:"message"`
	Link              string `json:"link"`
}

func NewOrderConfirmedPayload(sessionID string, r OrderRecord, c Confirmation) OrderConfirmedPayload {
	return OrderConfirmedPayload{
		SessionID:         sessionID,
		CustomerName:      r.CustomerName,
		PickupDate:        r.PickupDate,
		TotalPrice:        r.TotalPrice.StringFixed(2),
		AmountPaidToday:   r.AmountPaidToday.StringFixed(2),
		AmountDueAtPickup: r.AmountDueAtPickup.StringFixed(2),
		Message:           c.Message,
		Link:              c.Link,
	}
}
