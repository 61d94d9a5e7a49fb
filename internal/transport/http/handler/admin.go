package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campus-trust-api/internal/config"
	"github.com/campus-trust-api/internal/domain"
	"github.com/campus-trust-api/internal/pkg/validate"
)

// UserModerator is the account surface the admin endpoints act on.
type UserModerator interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// AdminHandler serves moderator-facing operational reports and the manual
// verification decisions behind them.
type AdminHandler struct {
	cfg   *config.Config
	users UserModerator
}

func NewAdminHandler(cfg *config.Config, users UserModerator) *AdminHandler {
	return &AdminHandler{cfg: cfg, users: users}
}

type limiterReport struct {
	Name      string `json:"name"`
	Limit     int    `json:"limit"`
	WindowSec int    `json:"window_sec"`
}

type screeningReport struct {
	Limiters          []limiterReport `json:"limiters"`
	AIModeration      bool            `json:"ai_moderation"`
	ReviewQueue       bool            `json:"review_queue"`
	RateLimitBackend  string          `json:"rate_limit_backend"`
	InsecureJWTSecret bool            `json:"insecure_jwt_secret"`
}

// Reports summarizes the active safety configuration: which limiters are
// enforced, whether the AI stage and review queue are wired, and whether
// the process is still signing tokens with the development secret.
func (h *AdminHandler) Reports(w http.ResponseWriter, _ *http.Request) {
	rep := screeningReport{
		AIModeration:      h.cfg.ModerationAPIKey != "",
		ReviewQueue:       h.cfg.ReviewQueueTopicARN != "",
		RateLimitBackend:  h.cfg.RateLimitBackend,
		InsecureJWTSecret: h.cfg.JWTSecret == config.InsecureDefaultJWTSecret,
	}
	for _, name := range []string{
		config.LimiterPostSubmission,
		config.LimiterOTPRequest,
		config.LimiterDirectMessage,
	} {
		rl := h.cfg.RateLimits[name]
		rep.Limiters = append(rep.Limiters, limiterReport{
			Name:      name,
			Limit:     rl.Limit,
			WindowSec: int(rl.Window.Seconds()),
		})
	}
	writeJSON(w, http.StatusOK, rep)
}

type setVerificationRequest struct {
	Status string `json:"status" validate:"required,oneof=unverified pending verified rejected"`
}

// SetVerification records a moderator's verification decision on an
// account. "trusted" is not settable here: that tier is derived from the
// vouch count on read, never stored.
func (h *AdminHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	var req setVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid verification status")
		return
	}
	userID := chi.URLParam(r, "id")
	if _, err := h.users.Get(r.Context(), userID); err != nil {
		httpError(w, err)
		return
	}
	if err := h.users.Update(r.Context(), userID, map[string]interface{}{
		"verification_status": req.Status,
	}); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification status updated"})
}
