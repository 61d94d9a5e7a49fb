package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-trust-api/internal/application/devicetrust"
	"github.com/campus-trust-api/internal/domain"
	"github.com/campus-trust-api/internal/pkg/validate"
	"github.com/campus-trust-api/internal/transport/http/middleware"
)

// DeviceHandler exposes the device-trust gate. The subject key is the
// token's phone: device baselines follow the identity, not an account row.
type DeviceHandler struct {
	gate devicetrust.Gate
}

func NewDeviceHandler(gate devicetrust.Gate) *DeviceHandler {
	return &DeviceHandler{gate: gate}
}

type sessionRequest struct {
	Attributes domain.DeviceAttributes `json:"attributes"`
}

type challengeRequest struct {
	Code       string                  `json:"code" validate:"required"`
	Attributes domain.DeviceAttributes `json:"attributes"`
}

func (h *DeviceHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	state, err := h.gate.StartSession(r.Context(), claims.Phone, req.Attributes, middleware.RealIP(r))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *DeviceHandler) VerifyChallenge(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	state, err := h.gate.VerifyChallenge(r.Context(), claims.Phone, req.Code, req.Attributes, middleware.RealIP(r))
	if err != nil {
		// The state still names the terminal outcome for a failed attempt.
		if state != nil {
			writeJSON(w, http.StatusUnauthorized, state)
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
