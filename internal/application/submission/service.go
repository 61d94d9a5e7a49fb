package submission

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-trust-api/internal/application/contentguard"
	"github.com/campus-trust-api/internal/application/ratelimit"
	"github.com/campus-trust-api/internal/config"
	"github.com/campus-trust-api/internal/domain"
	snsinfra "github.com/campus-trust-api/internal/infrastructure/sns"
)

// Service screens user-authored content before it reaches the publishing
// pipeline: limiter first (fast reject), deterministic contact scan second,
// AI moderation last. Pattern hits are always enforced; AI flags only route
// to manual review.
type Service interface {
	ScreenListing(ctx context.Context, userID string, req domain.ScreenListingRequest) (*domain.ScreenOutcome, error)
	ScreenMessage(ctx context.Context, userID string, req domain.ScreenMessageRequest) (*domain.ScreenOutcome, error)
}

type limiterRegistry interface {
	Check(ctx context.Context, name, key string) (ratelimit.Result, error)
}

type service struct {
	limiters limiterRegistry
	guard    contentguard.Service
	reviews  snsinfra.ReviewQueue // nil when no queue is configured
}

func NewService(limiters limiterRegistry, guard contentguard.Service, reviews snsinfra.ReviewQueue) Service {
	return &service{limiters: limiters, guard: guard, reviews: reviews}
}

func (s *service) ScreenListing(ctx context.Context, userID string, req domain.ScreenListingRequest) (*domain.ScreenOutcome, error) {
	if err := s.allow(ctx, config.LimiterPostSubmission, userID); err != nil {
		return nil, err
	}

	// Cheap deterministic stage runs first; a hit means the AI is never
	// consulted.
	if d := s.guard.Scan(req.Title + " " + req.Description); d.Detected {
		return &domain.ScreenOutcome{Status: domain.ScreenBlocked, Reason: d.Reason}, nil
	}

	verdict := s.guard.Moderate(ctx, req.Title, req.Description)
	if !verdict.Flagged {
		return &domain.ScreenOutcome{Status: domain.ScreenAccepted}, nil
	}

	if s.reviews != nil {
		item := snsinfra.ReviewItem{
			UserID:      userID,
			Title:       req.Title,
			Description: req.Description,
			Reason:      verdict.Reason,
			FlaggedAt:   time.Now().UTC(),
		}
		if err := s.reviews.Publish(ctx, item); err != nil {
			slog.Warn("failed to publish flagged listing to review queue",
				"user_id", userID, "err", err)
		}
	}
	return &domain.ScreenOutcome{Status: domain.ScreenReview, Reason: verdict.Reason}, nil
}

// ScreenMessage applies only the deterministic stage: direct messages get
// the cheap contact screen at 50/minute, not an AI round trip per message.
func (s *service) ScreenMessage(ctx context.Context, userID string, req domain.ScreenMessageRequest) (*domain.ScreenOutcome, error) {
	if err := s.allow(ctx, config.LimiterDirectMessage, userID); err != nil {
		return nil, err
	}
	if d := s.guard.Scan(req.Body); d.Detected {
		return &domain.ScreenOutcome{Status: domain.ScreenBlocked, Reason: d.Reason}, nil
	}
	return &domain.ScreenOutcome{Status: domain.ScreenAccepted}, nil
}

func (s *service) allow(ctx context.Context, limiter, key string) error {
	res, err := s.limiters.Check(ctx, limiter, key)
	if err != nil {
		// The limiter store failing is not license to skip the limit.
		slog.Warn("rate limit store unavailable, failing closed", "limiter", limiter, "err", err)
		return fmt.Errorf("limiter %s: %w", limiter, domain.ErrRateLimited)
	}
	if !res.Allowed {
		return fmt.Errorf("limiter %s resets at %s: %w", limiter, res.ResetAt.Format(time.RFC3339), domain.ErrRateLimited)
	}
	return nil
}
