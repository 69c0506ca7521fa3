package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-cake-orders.git/internal/orders"
	"github.com/ariefcatur/go-cake-orders.git/internal/session"
)

const (
	codeInvalidJSON       = "invalid_json"
	codeSessionNotFound   = "session_not_found"
	codeUnknownField      = "unknown_field"
	codeReadOnlyField     = "read_only_field"
	codeInvalidTransition = "invalid_transition"
	codeRecordFrozen      = "record_frozen"
	codeNoReviewLink      = "review_link_missing"
	codeTermsNotAccepted  = "terms_not_accepted"
	codeInternalError     = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps wizard errors onto status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, codeSessionNotFound, err.Error())
	case errors.Is(err, orders.ErrUnknownField):
		writeError(w, http.StatusBadRequest, codeUnknownField, err.Error())
	case errors.Is(err, orders.ErrReadOnlyField):
		writeError(w, http.StatusBadRequest, codeReadOnlyField, err.Error())
	case errors.Is(err, orders.ErrInvalidTransition):
		writeError(w, http.StatusConflict, codeInvalidTransition, err.Error())
	case errors.Is(err, orders.ErrRecordFrozen):
		writeError(w, http.StatusConflict, codeRecordFrozen, err.Error())
	case errors.Is(err, orders.ErrNoReviewLink):
		writeError(w, http.StatusConflict, codeNoReviewLink, err.Error())
	case errors.Is(err, orders.ErrTermsNotAccepted):
		writeError(w, http.StatusConflict, codeTermsNotAccepted, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
