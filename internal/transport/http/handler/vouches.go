package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campus-trust-api/internal/application/trust"
	"github.com/campus-trust-api/internal/domain"
	"github.com/campus-trust-api/internal/pkg/validate"
	"github.com/campus-trust-api/internal/transport/http/middleware"
)

// CallerResolver looks up the account record behind a capability token.
// Tokens carry the phone, not the account ID, so handlers that need the
// caller's account resolve it here.
type CallerResolver interface {
	GetByPhone(ctx context.Context, canonicalPhone string) (*domain.User, error)
}

// VouchHandler exposes the peer-vouching trust graph.
type VouchHandler struct {
	svc     trust.Service
	callers CallerResolver
}

func NewVouchHandler(svc trust.Service, callers CallerResolver) *VouchHandler {
	return &VouchHandler{svc: svc, callers: callers}
}

type createVouchRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
}

func (h *VouchHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	var req createVouchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Vouching requires an account; a bare token holder has nothing to
	// stake. The rejection stays generic.
	voucher, err := h.callers.GetByPhone(r.Context(), claims.Phone)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	if err := h.svc.Vouch(r.Context(), voucher.UserID, req.ReceiverID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "vouch recorded"})
}

func (h *VouchHandler) Tier(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	tier, err := h.svc.Tier(r.Context(), userID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TrustEnvelope{
		UserID:     userID,
		Status:     tier.Status,
		VouchCount: tier.VouchCount,
	})
}
