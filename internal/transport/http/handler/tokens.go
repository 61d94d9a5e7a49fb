package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-trust-api/internal/application/access"
	"github.com/campus-trust-api/internal/pkg/validate"
	"github.com/campus-trust-api/internal/transport/http/middleware"
)

// TokenHandler exchanges a verified phone claim for a capability token.
type TokenHandler struct {
	svc access.Service
}

func NewTokenHandler(svc access.Service) *TokenHandler { return &TokenHandler{svc: svc} }

func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req access.IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	issued, err := h.svc.IssueToken(r.Context(), req, middleware.RealIP(r))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, issued)
}
