package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrInvalidToken is the single outcome for every capability-token
	// failure: missing, malformed, tampered or expired. Callers cannot tell
	// which; the distinction is only ever logged.
	ErrInvalidToken = errors.New("invalid token")

	ErrRateLimited = errors.New("rate limited")

	// Vouch failures are distinct, user-displayable reasons.
	ErrSelfVouch          = errors.New("cannot vouch for yourself")
	ErrVoucherNotVerified = errors.New("voucher is not verified")
	ErrAlreadyVouched     = errors.New("already vouched for this user")

	// ErrModerationUnavailable marks the fail-open branch of the AI
	// moderation call: a designed outcome, not a hard failure.
	ErrModerationUnavailable = errors.New("moderation unavailable")
)
