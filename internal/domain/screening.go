package domain

// Detection is the result of the deterministic off-platform-contact scan.
type Detection struct {
	Detected bool   `json:"detected"`
	Reason   string `json:"reason,omitempty"`
}

// Verdict is the result of the delegated AI moderation check.
type Verdict struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason,omitempty"`
}

// Outcomes of screening a user-authored submission.
const (
	ScreenAccepted = "accepted" // publishable
	ScreenBlocked  = "blocked"  // pattern hit, always enforced
	ScreenReview   = "review"   // AI flag, routed to manual moderation
)

// ScreenOutcome merges both screening stages so a caller can distinguish a
// pattern block from an AI flag.
type ScreenOutcome struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type ScreenListingRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type ScreenMessageRequest struct {
	Body string `json:"body" validate:"required"`
}
