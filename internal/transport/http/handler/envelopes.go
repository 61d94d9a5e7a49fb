package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campus-trust-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TrustEnvelope wraps trust-tier responses.
type TrustEnvelope struct {
	UserID     string `json:"user_id"`
	Status     string `json:"status"`
	VouchCount int    `json:"vouch_count"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinels to HTTP statuses. Authorization failures
// share one generic body regardless of cause; vouch precondition failures
// stay distinct because the caller may display them.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "not authorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "not authorized")
	case errors.Is(err, domain.ErrSelfVouch):
		writeError(w, http.StatusBadRequest, "cannot vouch for yourself")
	case errors.Is(err, domain.ErrVoucherNotVerified):
		writeError(w, http.StatusForbidden, "only verified users can vouch")
	case errors.Is(err, domain.ErrAlreadyVouched):
		writeError(w, http.StatusConflict, "already vouched for this user")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many requests")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "invalid request")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
