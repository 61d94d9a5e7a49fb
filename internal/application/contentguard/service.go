package contentguard

import (
	"context"
	"log/slog"
	"time"

	"github.com/campus-trust-api/internal/domain"
)

// Classifier is the external text-classification dependency behind the AI
// moderation stage.
type Classifier interface {
	Classify(ctx context.Context, input string) (domain.Verdict, error)
}

// Service is the two-stage content screen: the deterministic contact scan
// plus the delegated AI policy check.
type Service interface {
	// Scan is the synchronous pattern stage.
	Scan(text string) domain.Detection
	// Moderate asks the external service whether title+description violate
	// content policy. It never returns an error: an unconfigured or failing
	// dependency takes the fail-open branch, trading precision for
	// availability. That branch is logged, not hidden.
	Moderate(ctx context.Context, title, description string) domain.Verdict
}

type service struct {
	classifier Classifier // nil when no credential is configured
	timeout    time.Duration
}

func NewService(classifier Classifier, timeout time.Duration) Service {
	return &service{classifier: classifier, timeout: timeout}
}

func (s *service) Scan(text string) domain.Detection {
	return ScanContact(text)
}

func (s *service) Moderate(ctx context.Context, title, description string) domain.Verdict {
	if s.classifier == nil {
		return domain.Verdict{Flagged: false}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	verdict, err := s.classifier.Classify(ctx, title+"\n\n"+description)
	if err != nil {
		slog.Warn("AI moderation unavailable, failing open", "err", err)
		return domain.Verdict{Flagged: false}
	}
	return verdict
}
