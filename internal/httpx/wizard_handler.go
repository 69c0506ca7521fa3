package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-cake-orders.git/internal/wizard"
	"github.com/go-chi/chi/v5"
)

// Wizard is what the handler needs from the application service.
type Wizard interface {
	Start(ctx context.Context) (wizard.View, error)
	Get(ctx context.Context, id string) (wizard.View, error)
	Edit(ctx context.Context, id, field, value string) (wizard.View, error)
	EditMany(ctx context.Context, id string, fields map[string]string) (wizard.View, error)
	GenerateLink(ctx context.Context, id string) (wizard.View, error)
	SimulateAccess(ctx context.Context, id string) (wizard.View, error)
	AcceptTerms(ctx context.Context, id string, accepted bool) (wizard.View, error)
	Confirm(ctx context.Context, id string) (wizard.View, error)
	Reset(ctx context.Context, id string) (wizard.View, error)
	End(ctx context.Context, id string) error
}

// maxBodyBytes caps edit and terms request bodies.
const maxBodyBytes = 64 << 10

type WizardHandler struct {
	Wizard Wizard
	Log    *slog.Logger
}

// EditReq is either a single edit ({"field","value"}) or a batch ({"fields"}).
type EditReq struct {
	Field  string            `json:"field"`
	Value  string            `json:"value"`
	Fields map[string]string `json:"fields"`
}

type TermsReq struct {
	Accepted bool `json:"accepted"`
}

func (h *WizardHandler) Register(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.start)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Delete("/", h.end)
			r.Patch("/fields", h.edit)
			r.Post("/link", h.action(h.Wizard.GenerateLink))
			r.Post("/access", h.action(h.Wizard.SimulateAccess))
			r.Post("/terms", h.terms)
			r.Post("/confirm", h.action(h.Wizard.Confirm))
			r.Post("/reset", h.action(h.Wizard.Reset))
		})
	})
}

func (h *WizardHandler) start(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.Wizard.Start(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *WizardHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.Wizard.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *WizardHandler) end(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Wizard.End(ctx, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WizardHandler) edit(w http.ResponseWriter, r *http.Request) {
	var req EditReq
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, "invalid json")
		return
	}
	if req.Field == "" && len(req.Fields) == 0 {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, "missing field")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	var (
		v   wizard.View
		err error
	)
	if len(req.Fields) > 0 {
		fields := req.Fields
		if req.Field != "" {
			fields[req.Field] = req.Value
		}
		v, err = h.Wizard.EditMany(ctx, id, fields)
	} else {
		v, err = h.Wizard.Edit(ctx, id, req.Field, req.Value)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *WizardHandler) terms(w http.ResponseWriter, r *http.Request) {
	var req TermsReq
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.Wizard.AcceptTerms(ctx, chi.URLParam(r, "id"), req.Accepted)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// action wraps the body-less stage transitions.
func (h *WizardHandler) action(fn func(ctx context.Context, id string) (wizard.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		v, err := fn(ctx, chi.URLParam(r, "id"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (h *WizardHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.Log.Warn("request refused", "method", r.Method, "path", r.URL.Path, "err", err)
	writeServiceError(w, err)
}
