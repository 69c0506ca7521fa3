package orders

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrRecordFrozen      = errors.New("order record is frozen")
	ErrNoReviewLink      = errors.New("review link has not been generated")
	ErrTermsNotAccepted  = errors.New("terms and conditions not accepted")
	ErrCorruptState      = errors.New("corrupt workflow state")
)

// ConfirmFormatter produces the outbound confirmation for a record.
type ConfirmFormatter interface {
	Format(r OrderRecord) Confirmation
}

// State is a copy of everything a Workflow holds. It is what gets rendered
// and what gets stored between events.
type State struct {
	Stage         Stage         `json:"stage"`
	Record        OrderRecord   `json:"record"`
	ReviewLink    string        `json:"reviewLink,omitempty"`
	TermsAccepted bool          `json:"termsAccepted"`
	Confirmation  *Confirmation `json:"confirmation,omitempty"`
}

// Workflow drives one order from input to confirmation. It is not safe for
// concurrent use; callers serialize events per session.
type Workflow struct {
	st State
}

// NewWorkflow starts at StageInput with an empty record.
func NewWorkflow() *Workflow {
	return &Workflow{st: State{Stage: StageInput}}
}

// RestoreWorkflow rebuilds a workflow from a stored State.
func RestoreWorkflow(s State) (*Workflow, error) {
	if _, ok := validNext[s.Stage]; !ok {
		return nil, fmt.Errorf("%w: stage %d", ErrCorruptState, int(s.Stage))
	}
	if s.Stage != StageInput && s.ReviewLink == "" {
		return nil, fmt.Errorf("%w: %s without review link", ErrCorruptState, s.Stage)
	}
	if s.Stage == StageConfirmed && s.Confirmation == nil {
		return nil, fmt.Errorf("%w: confirmed without confirmation", ErrCorruptState)
	}
	Recalculate(&s.Record)
	return &Workflow{st: s.Clone()}, nil
}

func (w *Workflow) Stage() Stage { return w.st.Stage }

// Snapshot returns a copy that does not alias the workflow.
func (w *Workflow) Snapshot() State { return w.st.Clone() }

// Edit applies a field edit. Only allowed while in StageInput.
func (w *Workflow) Edit(field, value string) error {
	if w.st.Stage != StageInput {
		return fmt.Errorf("%w: stage %s", ErrRecordFrozen, w.st.Stage)
	}
	if err := w.st.Record.set(field, value); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

// GenerateLink freezes the record and builds the simulated review link.
func (w *Workflow) GenerateLink(reviewHost string) error {
	if err := w.guard("generate_link", StageLinkGenerated); err != nil {
		return err
	}
	Recalculate(&w.st.Record)
	token, err := EncodeReviewToken(w.st.Record)
	if err != nil {
		return fmt.Errorf("encode review token: %w", err)
	}
	w.st.ReviewLink = ReviewLink(reviewHost, token)
	w.st.Stage = StageLinkGenerated
	return nil
}

// SimulateAccess moves to customer review. The review link must exist.
func (w *Workflow) SimulateAccess() error {
	if err := w.guard("simulate_access", StageCustomerReview); err != nil {
		return err
	}
	if w.st.ReviewLink == "" {
		return ErrNoReviewLink
	}
	w.st.Stage = StageCustomerReview
	w.st.TermsAccepted = false
	return nil
}

// AcceptTerms sets the terms gate shown on the review page.
func (w *Workflow) AcceptTerms(accepted bool) error {
	if w.st.Stage != StageCustomerReview {
		return fmt.Errorf("%w: accept_terms from %s", ErrInvalidTransition, w.st.Stage)
	}
	w.st.TermsAccepted = accepted
	return nil
}

// Confirm formats the outbound message and link. The formatter is never
// called while the terms gate is closed.
func (w *Workflow) Confirm(f ConfirmFormatter) (Confirmation, error) {
	if err := w.guard("confirm", StageConfirmed); err != nil {
		return Confirmation{}, err
	}
	if !w.st.TermsAccepted {
		return Confirmation{}, ErrTermsNotAccepted
	}
	c := f.Format(w.st.Record)
	w.st.Confirmation = &c
	w.st.Stage = StageConfirmed
	return c, nil
}

// Reset discards everything and returns to StageInput with an empty record.
func (w *Workflow) Reset() {
	w.st = State{Stage: StageInput}
}

func (w *Workflow) guard(action string, to Stage) error {
	if !CanTransition(w.st.Stage, to) {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, w.st.Stage)
	}
	return nil
}

// Clone returns a copy that shares no pointers with s.
func (s State) Clone() State {
	out := s
	if s.Confirmation != nil {
		c := *s.Confirmation
		out.Confirmation = &c
	}
	return out
}
