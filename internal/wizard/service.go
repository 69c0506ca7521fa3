package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	kafkax "github.com/ariefcatur/go-cake-orders.git/internal/kafka"
	"github.com/ariefcatur/go-cake-orders.git/internal/metrics"
	"github.com/ariefcatur/go-cake-orders.git/internal/orders"
	"github.com/ariefcatur/go-cake-orders.git/internal/session"
	"github.com/google/uuid"
)

// View is what the presentation layer renders for one session.
type View struct {
	SessionID string `json:"sessionId"`
	orders.State
	Amounts Amounts `json:"amounts"`
}

// Amounts are the record prices rendered with exactly 2 decimals.
type Amounts struct {
	TotalPrice        string `json:"totalPrice"`
	AmountPaidToday   string `json:"amountPaidToday"`
	AmountDueAtPickup string `json:"amountDueAtPickup"`
}

func newView(id string, st orders.State) View {
	return View{
		SessionID: id,
		State:     st,
		Amounts: Amounts{
			TotalPrice:        st.Record.TotalPrice.StringFixed(2),
			AmountPaidToday:   st.Record.AmountPaidToday.StringFixed(2),
			AmountDueAtPickup: st.Record.AmountDueAtPickup.StringFixed(2),
		},
	}
}

type Service struct {
	Store       session.Store
	Formatter   orders.ConfirmFormatter
	ReviewHost  string
	Publisher   Publisher
	Metrics     *metrics.Metrics
	Log         *slog.Logger
	ServiceName string

	NewID func() string
	Now   func() time.Time

	locks *keyedMutex
}

// NewService wires defaults for ids, clock and locking.
func NewService(store session.Store, f orders.ConfirmFormatter, reviewHost string, pub Publisher, m *metrics.Metrics, log *slog.Logger, serviceName string) *Service {
	return &Service{
		Store:       store,
		Formatter:   f,
		ReviewHost:  reviewHost,
		Publisher:   pub,
		Metrics:     m,
		Log:         log,
		ServiceName: serviceName,
		NewID:       uuid.NewString,
		Now:         func() time.Time { return time.Now().UTC() },
		locks:       newKeyedMutex(),
	}
}

// Start opens a session with an empty record in the input stage.
func (s *Service) Start(ctx context.Context) (View, error) {
	id := s.NewID()
	st := orders.NewWorkflow().Snapshot()
	if err := s.Store.Save(ctx, id, st); err != nil {
		return View{}, err
	}
	s.Log.Info("session started", "session_id", id)
	return newView(id, st), nil
}

// Get returns a copy of the session; mutating it does not touch the store.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	st, err := s.Store.Load(ctx, id)
	if err != nil {
		return View{}, err
	}
	w, err := orders.RestoreWorkflow(st)
	if err != nil {
		return View{}, fmt.Errorf("session %s: %w", id, err)
	}
	return newView(id, w.Snapshot()), nil
}

func (s *Service) Edit(ctx context.Context, id, field, value string) (View, error) {
	return s.apply(ctx, id, "edit", func(w *orders.Workflow) error {
		return w.Edit(field, value)
	})
}

// EditMany applies several edits as one event; any failure refuses all.
func (s *Service) EditMany(ctx context.Context, id string, fields map[string]string) (View, error) {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return s.apply(ctx, id, "edit", func(w *orders.Workflow) error {
		for _, k := range names {
			if err := w.Edit(k, fields[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) GenerateLink(ctx context.Context, id string) (View, error) {
	return s.apply(ctx, id, "generate_link", func(w *orders.Workflow) error {
		return w.GenerateLink(s.ReviewHost)
	})
}

func (s *Service) SimulateAccess(ctx context.Context, id string) (View, error) {
	return s.apply(ctx, id, "simulate_access", func(w *orders.Workflow) error {
		return w.SimulateAccess()
	})
}

func (s *Service) AcceptTerms(ctx context.Context, id string, accepted bool) (View, error) {
	return s.apply(ctx, id, "accept_terms", func(w *orders.Workflow) error {
		return w.AcceptTerms(accepted)
	})
}

// Confirm formats and stores the outbound link, then hands it to the
// publisher. A publish failure is logged; the confirmation stands.
func (s *Service) Confirm(ctx context.Context, id string) (View, error) {
	var c orders.Confirmation
	v, err := s.apply(ctx, id, "confirm", func(w *orders.Workflow) error {
		var err error
		c, err = w.Confirm(s.Formatter)
		return err
	})
	if err != nil {
		return v, err
	}

	env := orders.Envelope{
		EventID:       s.NewID(),
		EventType:     orders.EventOrderConfirmed,
		EventVersion:  1,
		OccurredAt:    s.Now(),
		Producer:      s.ServiceName,
		CorrelationID: id,
		Payload:       kafkax.MustMarshal(orders.NewOrderConfirmedPayload(id, v.Record, c)),
	}
	if err := s.Publisher.PublishConfirmed(ctx, env); err != nil {
		s.Log.Error("publish confirmation", "session_id", id, "event_id", env.EventID, "err", err)
		s.Metrics.Published.WithLabelValues("error").Inc()
	} else {
		s.Metrics.Published.WithLabelValues("ok").Inc()
	}
	return v, nil
}

func (s *Service) Reset(ctx context.Context, id string) (View, error) {
	return s.apply(ctx, id, "reset", func(w *orders.Workflow) error {
		w.Reset()
		return nil
	})
}

// End drops the session entirely.
func (s *Service) End(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.Store.Load(ctx, id); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// apply runs one event against a session. A refused action leaves the stored
// state untouched and returns the current view with the error.
func (s *Service) apply(ctx context.Context, id, action string, fn func(*orders.Workflow) error) (View, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	st, err := s.Store.Load(ctx, id)
	if err != nil {
		return View{}, err
	}
	w, err := orders.RestoreWorkflow(st)
	if err != nil {
		return View{}, fmt.Errorf("session %s: %w", id, err)
	}

	from := w.Stage()
	if err := fn(w); err != nil {
		s.Metrics.Transitions.WithLabelValues(action, "refused").Inc()
		s.Log.Debug("action refused", "session_id", id, "action", action, "stage", from.String(), "err", err)
		return newView(id, st.Clone()), err
	}

	next := w.Snapshot()
	if err := s.Store.Save(ctx, id, next); err != nil {
		return View{}, err
	}
	s.Metrics.Transitions.WithLabelValues(action, "ok").Inc()
	if next.Stage != from {
		s.Log.Info("stage changed", "session_id", id, "action", action, "from", from.String(), "to", next.Stage.String())
	}
	return newView(id, next), nil
}
